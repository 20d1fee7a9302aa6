package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/99minutos/employee-dashboard/internal/app"
	"github.com/99minutos/employee-dashboard/internal/cli"
	"github.com/99minutos/employee-dashboard/internal/pkg/config"
	"github.com/99minutos/employee-dashboard/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "dashboard",
	})

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	var prompt cli.Prompter
	if term.IsTerminal(int(os.Stdin.Fd())) {
		prompt = cli.NewTerminalPrompter(os.Stdin, os.Stdout)
	}
	env := cli.NewEnv(a, os.Stdout, prompt)
	return cli.Root(env).Execute(ctx, os.Stdout, os.Args[1:])
}
