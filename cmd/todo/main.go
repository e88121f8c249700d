// cmd/todo/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	app := &app{}

	rootCmd := &cobra.Command{
		Use:           "todo",
		Short:         "todo - a personal task tracker",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&app.file, "file", "f", defaultFile(), "task file (env TODO_FILE)")

	rootCmd.AddCommand(addCmd(app))
	rootCmd.AddCommand(listCmd(app))
	rootCmd.AddCommand(editCmd(app))
	rootCmd.AddCommand(toggleCmd(app))
	rootCmd.AddCommand(rmCmd(app))
	rootCmd.AddCommand(clearCmd(app))
	rootCmd.AddCommand(statsCmd(app))
	rootCmd.AddCommand(mcpCmd(app))

	return rootCmd
}

func defaultFile() string {
	if file := os.Getenv("TODO_FILE"); file != "" {
		return file
	}
	return "tasks.json"
}
