package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"testing"

	"blogdemo/app/config"
	"blogdemo/app/models"
	"blogdemo/app/repositories"
	"blogdemo/app/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureOutput(f func()) string {
	var buf bytes.Buffer
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	done := make(chan bool)
	go func() {
		_, _ = io.Copy(&buf, r)
		done <- true
	}()

	f()
	_ = w.Close()
	os.Stdout = oldStdout
	<-done

	return buf.String()
}

func callMain() (int, string) {
	exitCode := 0
	oldExit := exit
	defer func() { exit = oldExit }()
	exit = func(code int) {
		exitCode = code
	}

	output := captureOutput(RealMain)
	return exitCode, output
}

func TestRealMain(t *testing.T) {
	// Save original args
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	tests := []struct {
		name           string
		args           []string
		expectedExit   int
		expectedOutput string
	}{
		{
			name:           "no arguments",
			args:           []string{"blogdemo"},
			expectedExit:   1,
			expectedOutput: "Usage: blogdemo <command>",
		},
		{
			name:           "help command",
			args:           []string{"blogdemo", "help"},
			expectedExit:   0,
			expectedOutput: "Usage: blogdemo <command> [options]",
		},
		{
			name:           "version command",
			args:           []string{"blogdemo", "version"},
			expectedExit:   0,
			expectedOutput: "blogdemo version " + CliVersion,
		},
		{
			name:           "unknown command",
			args:           []string{"blogdemo", "unknown"},
			expectedExit:   1,
			expectedOutput: "Unknown command: unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			exitCode, output := callMain()

			assert.Contains(t, output, tt.expectedOutput)
			assert.Equal(t, tt.expectedExit, exitCode)
		})
	}
}

func TestPrintHelp(t *testing.T) {
	output := captureOutput(printHelp)

	assert.Contains(t, output, "Usage: blogdemo")
	for _, cmd := range []string{"help", "version", "serve", "fetch list", "fetch post", "fetch comments", "db <seed|clean|backup|restore>"} {
		assert.Contains(t, output, cmd)
	}
}

func TestRunFetch(t *testing.T) {
	blog := services.NewBlogService(repositories.NewSeededMemoryStore(), services.DefaultLatency(), services.NoDelay)
	ctx := context.Background()

	t.Run("list", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, runFetch(ctx, blog, []string{"list"}, &out))

		var metadata []models.PostMetadata
		require.NoError(t, json.Unmarshal(out.Bytes(), &metadata))
		assert.Len(t, metadata, 3)
	})

	t.Run("post", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, runFetch(ctx, blog, []string{"post", "1"}, &out))
		assert.JSONEq(t, `{"id":1,"title":"My second post","content":"This is my second post"}`, out.String())
	})

	t.Run("comments", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, runFetch(ctx, blog, []string{"comments", "2"}, &out))
		assert.Contains(t, out.String(), "Comment for post: 2")
	})

	t.Run("missing post", func(t *testing.T) {
		err := runFetch(ctx, blog, []string{"post", "99"}, io.Discard)
		assert.ErrorIs(t, err, services.ErrPostNotFound)
	})

	t.Run("invalid id", func(t *testing.T) {
		err := runFetch(ctx, blog, []string{"post", "abc"}, io.Discard)
		assert.ErrorIs(t, err, services.ErrInvalidID)
	})

	t.Run("bad usage", func(t *testing.T) {
		assert.Error(t, runFetch(ctx, blog, nil, io.Discard))
		assert.Error(t, runFetch(ctx, blog, []string{"post"}, io.Discard))
		assert.Error(t, runFetch(ctx, blog, []string{"everything"}, io.Discard))
	})
}

func TestOpenStore(t *testing.T) {
	cfg, err := loadTestConfig(t, map[string]string{"BLOG_STORE": "badger", "BLOG_BADGER_PATH": t.TempDir()})
	require.NoError(t, err)

	store, closeStore, err := openStore(cfg)
	require.NoError(t, err)
	defer closeStore()
	assert.Equal(t, models.SeedPosts(), store.List())
}

func loadTestConfig(t *testing.T, env map[string]string) (config.Config, error) {
	t.Helper()
	return config.LoadFrom("", func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	})
}
