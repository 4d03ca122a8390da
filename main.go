package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"blogdemo/app/client"
	"blogdemo/app/config"
	"blogdemo/app/repositories"
	"blogdemo/app/routes"
	"blogdemo/app/services"
	"blogdemo/dbadmin"
)

const CliVersion = "1.0.0"

// exit is replaced in tests.
var exit = os.Exit

func main() {
	RealMain()
}

// RealMain dispatches os.Args to a command.
func RealMain() {
	if len(os.Args) < 2 {
		printHelp()
		exit(1)
		return
	}

	cmd := strings.ToLower(os.Args[1])
	switch cmd {
	case "help":
		printHelp()
	case "version":
		fmt.Printf("blogdemo version %s\n", CliVersion)
	case "serve":
		serve()
	case "fetch":
		fetch(os.Args[2:])
	case "db":
		db(os.Args[2:])
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		printHelp()
		exit(1)
	}
}

func printHelp() {
	helpText := `Usage: blogdemo <command> [options]
Commands:
  help                       Display this help message.
  version                    Show version information.
  serve                      Serve the blog pages and the /api endpoints.
  fetch list                 Fetch post metadata from BLOG_API_URL.
  fetch post <id>            Fetch a post from BLOG_API_URL.
  fetch comments <id>        Fetch the comments of a post from BLOG_API_URL.
  db <seed|clean|backup|restore> [file]
                             Maintain the badger database at BLOG_BADGER_PATH.

Settings are read from .env, the YAML file named by BLOG_CONFIG and BLOG_* variables.
`
	fmt.Println(helpText)
}

func loadConfig() config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

// openStore builds the content store selected by cfg. The returned func
// releases it.
func openStore(cfg config.Config) (repositories.ContentStore, func() error, error) {
	switch cfg.Store {
	case config.StoreBadger:
		store, err := repositories.OpenBadgerStore(cfg.BadgerPath)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return repositories.NewSeededMemoryStore(), func() error { return nil }, nil
	}
}

// serve runs the blog until SIGINT or SIGTERM.
func serve() {
	cfg := loadConfig()

	store, closeStore, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.Store, err)
	}
	defer closeStore()

	blog := services.NewBlogService(store, cfg.Latency(), services.Sleep)
	router := routes.Setup(blog, cfg.Prefix)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("Starting blog service on %s (store: %s, pages under %s)", cfg.Addr, cfg.Store, cfg.Prefix)
	if err := routes.StartServer(ctx, cfg.Addr, router, nil); err != nil {
		log.Printf("Server error: %v", err)
		closeStore()
		exit(1)
	}
	log.Println("Server stopped")
}

// fetch calls the API of a running server.
func fetch(args []string) {
	cfg := loadConfig()
	blog := client.New(cfg.APIURL,
		client.WithCodec(cfg.Codec()),
		client.WithRetries(cfg.ClientRetries, 200*time.Millisecond),
	)
	if err := runFetch(context.Background(), blog, args, os.Stdout); err != nil {
		fmt.Printf("Error: %v\n", err)
		exit(1)
	}
}

// runFetch runs a fetch subcommand against blog and prints the result as JSON.
func runFetch(ctx context.Context, blog services.Blog, args []string, out io.Writer) error {
	if len(args) < 1 {
		return fmt.Errorf("fetch requires one of: list, post <id>, comments <id>")
	}

	var result any
	switch args[0] {
	case "list":
		metadata, err := blog.ListPostMetadata(ctx)
		if err != nil {
			return fmt.Errorf("%s %w", services.Message(services.ErrServerError), err)
		}
		result = metadata
	case "post", "comments":
		if len(args) < 2 {
			return fmt.Errorf("fetch %s requires a post id", args[0])
		}
		id, err := services.ParseID(args[1])
		if err != nil {
			return fmt.Errorf("%s %w", services.Message(err), err)
		}
		if args[0] == "post" {
			post, callErr := blog.GetPost(ctx, id)
			result, err = services.Resolve(post, callErr)
		} else {
			comment, callErr := blog.GetComments(ctx, id)
			result, err = services.Resolve(comment, callErr)
		}
		if err != nil {
			return fmt.Errorf("%s %w", services.Message(err), err)
		}
	default:
		return fmt.Errorf("unknown fetch target: %s", args[0])
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// db runs database maintenance commands against BLOG_BADGER_PATH.
func db(args []string) {
	cfg := loadConfig()
	cmds := &dbadmin.Commands{DBPath: cfg.BadgerPath, In: os.Stdin, Out: os.Stdout}
	if code := cmds.HandleCommand(args); code != 0 {
		exit(code)
	}
}
