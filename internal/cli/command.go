// Package cli is the dashboard's command surface. Each command is a trigger
// on the running App; the shell command keeps one App alive across many.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"
)

// Command is a node of the command tree.
type Command struct {
	Name        string
	Summary     string
	Usage       string
	Examples    []Example
	Flags       func() *pflag.FlagSet
	Subcommands []*Command

	// Run executes the command with the positional args left after flag
	// parsing. When Subcommands are set, Run handles the no-match case.
	Run func(ctx context.Context, args []string) error

	parent *Command
}

type Example struct {
	Description string
	Command     string
}

// Execute parses args and dispatches to a subcommand or Run. Help goes to w.
func (c *Command) Execute(ctx context.Context, w io.Writer, args []string) error {
	if len(args) > 0 && isHelpFlag(args[0]) {
		c.PrintHelp(w)
		return nil
	}

	if len(c.Subcommands) > 0 && len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		for _, sub := range c.Subcommands {
			if sub.Name == args[0] {
				sub.parent = c
				return sub.Execute(ctx, w, args[1:])
			}
		}
		if c.Run == nil {
			return fmt.Errorf("unknown command %q\n\nRun '%s --help' for usage", args[0], c.fullName())
		}
	}

	if c.Run == nil {
		c.PrintHelp(w)
		return fmt.Errorf("subcommand required")
	}

	if c.Flags != nil {
		fs := c.Flags()
		fs.SetOutput(io.Discard)
		if err := fs.Parse(args); err != nil {
			return fmt.Errorf("%s\n\nRun '%s --help' for usage", err, c.fullName())
		}
		args = fs.Args()
	}
	return c.Run(ctx, args)
}

// PrintHelp writes usage, subcommands, flags and examples to w.
func (c *Command) PrintHelp(w io.Writer) {
	name := c.fullName()
	if c.Summary != "" {
		fmt.Fprintf(w, "%s\n\n", c.Summary)
	}

	switch {
	case c.Usage != "":
		fmt.Fprintf(w, "Usage:\n  %s\n", c.Usage)
	case len(c.Subcommands) > 0:
		fmt.Fprintf(w, "Usage:\n  %s <command> [flags]\n", name)
	default:
		fmt.Fprintf(w, "Usage:\n  %s [flags]\n", name)
	}

	if len(c.Subcommands) > 0 {
		fmt.Fprintf(w, "\nCommands:\n")
		tw := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
		for _, sub := range c.Subcommands {
			fmt.Fprintf(tw, "  %s\t%s\n", sub.Name, sub.Summary)
		}
		tw.Flush()
	}

	if c.Flags != nil {
		var b strings.Builder
		fs := c.Flags()
		fs.SetOutput(&b)
		fs.PrintDefaults()
		if b.Len() > 0 {
			fmt.Fprintf(w, "\nFlags:\n%s", b.String())
		}
	}

	if len(c.Examples) > 0 {
		fmt.Fprintf(w, "\nExamples:\n")
		for _, ex := range c.Examples {
			if ex.Description != "" {
				fmt.Fprintf(w, "  # %s\n", ex.Description)
			}
			fmt.Fprintf(w, "  %s\n", ex.Command)
		}
	}
}

func (c *Command) fullName() string {
	if c.parent == nil {
		return c.Name
	}
	return c.parent.fullName() + " " + c.Name
}

func isHelpFlag(arg string) bool {
	return arg == "-h" || arg == "--help" || arg == "help"
}
