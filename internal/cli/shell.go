package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/pflag"

	opshttp "github.com/99minutos/employee-dashboard/internal/infrastructure/http"
)

const shellPrompt = "dashboard> "

func shellCommand(env *Env, root *Command) *Command {
	var metricsAddr string
	return &Command{
		Name:    "shell",
		Summary: "Run commands against one long-lived session",
		Examples: []Example{
			{Description: "Expose client metrics while the shell runs", Command: "dashboard shell --metrics-addr :9090"},
		},
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("shell", pflag.ContinueOnError)
			fs.StringVar(&metricsAddr, "metrics-addr", env.App.Config.Server.MetricsAddr, "serve /metrics and /health on this address")
			return fs
		},
		Run: func(ctx context.Context, args []string) error {
			if metricsAddr != "" {
				stop := serveOps(env, metricsAddr)
				defer stop()
			}
			return runShell(ctx, env, root)
		},
	}
}

// runShell reads command lines until exit or EOF. Command errors are
// printed and the loop continues.
func runShell(ctx context.Context, env *Env, root *Command) error {
	log := env.App.Log
	fmt.Fprintln(env.Out, mutedStyle.Render("Type 'help' for commands, 'exit' to quit."))

	for {
		if ctx.Err() != nil {
			return nil
		}
		line, err := env.Prompt.ReadLine(shellPrompt)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(env.Out)
			return nil
		}
		if err != nil {
			return err
		}

		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "exit", "quit":
			return nil
		case "shell":
			fmt.Fprintln(env.Out, "already in the shell")
			continue
		case "dismiss":
			env.App.Notifier.Dismiss()
			continue
		}

		if err := root.Execute(ctx, env.Out, args); err != nil {
			log.Debug().Err(err).Str("command", args[0]).Msg("command failed")
			fmt.Fprintln(env.Out, errorStyle.Render("error: "+err.Error()))
		}
	}
}

// serveOps exposes the ops router in the background and returns its
// shutdown func.
func serveOps(env *Env, addr string) func() {
	log := env.App.Log
	e := opshttp.NewOpsRouter(nil)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Str("addr", addr).Msg("metrics server stopped")
		}
	}()
	log.Info().Str("addr", addr).Msg("serving metrics")

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := e.Shutdown(ctx); err != nil {
			log.Warn().Err(err).Msg("metrics server shutdown")
		}
	}
}
