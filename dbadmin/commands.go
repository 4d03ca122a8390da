// Package dbadmin maintains the badger database behind the badger store.
package dbadmin

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"blogdemo/app/models"
	"blogdemo/app/repositories"

	"github.com/dgraph-io/badger/v4"
)

// Commands runs database subcommands against the database at DBPath,
// reading confirmations from In and writing messages to Out.
type Commands struct {
	DBPath string
	In     io.Reader
	Out    io.Writer
}

// HandleCommand runs a db subcommand and returns an exit code.
func (c *Commands) HandleCommand(args []string) int {
	if len(args) < 1 {
		c.printHelp()
		return 1
	}

	switch args[0] {
	case "seed":
		return c.seed()
	case "clean":
		return c.clean()
	case "backup":
		if len(args) < 2 {
			fmt.Fprintln(c.Out, "Error: backup file path required for backup")
			return 1
		}
		return c.backup(args[1])
	case "restore":
		if len(args) < 2 {
			fmt.Fprintln(c.Out, "Error: backup file path required for restore")
			return 1
		}
		return c.restore(args[1])
	case "help":
		c.printHelp()
		return 0
	default:
		fmt.Fprintf(c.Out, "Unknown db command: %s\n\n", args[0])
		c.printHelp()
		return 1
	}
}

func (c *Commands) printHelp() {
	helpText := `Usage: blogdemo db <command> [options]

Commands:
  seed                            Write the default posts if the database holds none
  clean                           Remove the database
  backup <file>                   Write a backup of the database to file
  restore <file>                  Replace the database with a backup
  help                            Display this help message
`
	fmt.Fprintln(c.Out, helpText)
}

func (c *Commands) open() (*badger.DB, error) {
	return badger.Open(badger.DefaultOptions(c.DBPath).WithLogger(nil))
}

func (c *Commands) exists() bool {
	_, err := os.Stat(c.DBPath)
	return err == nil
}

func (c *Commands) confirm(question string) bool {
	fmt.Fprintf(c.Out, "%s [y/N] ", question)
	response, err := bufio.NewReader(c.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false
	}
	response = strings.TrimSpace(response)
	return response == "y" || response == "Y"
}

// seed writes the default posts.
func (c *Commands) seed() int {
	db, err := c.open()
	if err != nil {
		fmt.Fprintf(c.Out, "Failed to open database: %v\n", err)
		return 1
	}
	defer db.Close()

	n, err := repositories.Seed(db, models.SeedPosts())
	if err != nil {
		fmt.Fprintf(c.Out, "Failed to seed database: %v\n", err)
		return 1
	}
	if n == 0 {
		fmt.Fprintf(c.Out, "Database at %s already holds posts\n", c.DBPath)
		return 0
	}
	fmt.Fprintf(c.Out, "Seeded %d posts into %s\n", n, c.DBPath)
	return 0
}

// clean removes the database.
func (c *Commands) clean() int {
	if !c.exists() {
		fmt.Fprintln(c.Out, "Database is already clean (does not exist)")
		return 0
	}

	if !c.confirm("Are you sure you want to clean the database? This cannot be undone.") {
		fmt.Fprintln(c.Out, "Operation cancelled")
		return 1
	}

	if err := os.RemoveAll(c.DBPath); err != nil {
		fmt.Fprintf(c.Out, "Failed to clean database: %v\n", err)
		return 1
	}
	fmt.Fprintln(c.Out, "Database cleaned successfully")
	return 0
}

// backup writes a full backup of the database to backupFile.
func (c *Commands) backup(backupFile string) int {
	if !c.exists() {
		fmt.Fprintln(c.Out, "No database exists to backup")
		return 1
	}

	db, err := c.open()
	if err != nil {
		fmt.Fprintf(c.Out, "Failed to open database: %v\n", err)
		return 1
	}
	defer db.Close()

	f, err := os.Create(backupFile)
	if err != nil {
		fmt.Fprintf(c.Out, "Failed to create backup file: %v\n", err)
		return 1
	}
	defer f.Close()

	if _, err := db.Backup(f, 0); err != nil {
		fmt.Fprintf(c.Out, "Failed to backup database: %v\n", err)
		return 1
	}

	fmt.Fprintf(c.Out, "Database backed up successfully to %s\n", backupFile)
	return 0
}

// restore replaces the database with the contents of backupFile.
func (c *Commands) restore(backupFile string) int {
	fi, err := os.Stat(backupFile)
	if err != nil {
		fmt.Fprintf(c.Out, "Backup file does not exist: %s\n", backupFile)
		return 1
	}
	if fi.Size() == 0 {
		fmt.Fprintf(c.Out, "Backup file is empty: %s\n", backupFile)
		return 1
	}

	if c.exists() {
		if !c.confirm("Existing database found. Do you want to replace it?") {
			fmt.Fprintln(c.Out, "Operation cancelled")
			return 1
		}
		if err := os.RemoveAll(c.DBPath); err != nil {
			fmt.Fprintf(c.Out, "Failed to remove existing database: %v\n", err)
			return 1
		}
	}

	db, err := c.open()
	if err != nil {
		fmt.Fprintf(c.Out, "Failed to open database: %v\n", err)
		return 1
	}
	defer db.Close()

	f, err := os.Open(backupFile)
	if err != nil {
		fmt.Fprintf(c.Out, "Failed to open backup file: %v\n", err)
		return 1
	}
	defer f.Close()

	if err := db.Load(f, 4); err != nil {
		fmt.Fprintf(c.Out, "Failed to restore database: %v\n", err)
		return 1
	}

	fmt.Fprintln(c.Out, "Database restored successfully")
	return 0
}
