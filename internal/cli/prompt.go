package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter reads interactive input. The shell reads its command lines
// through the same Prompter so buffered stdin is shared.
type Prompter interface {
	ReadLine(label string) (string, error)
	ReadPassword(label string) (string, error)
}

// TerminalPrompter prompts on out and reads from in. Passwords are read
// with echo disabled when in is a terminal.
type TerminalPrompter struct {
	in     *os.File
	out    io.Writer
	reader *bufio.Reader
}

func NewTerminalPrompter(in *os.File, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{in: in, out: out, reader: bufio.NewReader(in)}
}

func (p *TerminalPrompter) ReadLine(label string) (string, error) {
	fmt.Fprint(p.out, label)
	line, err := p.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (p *TerminalPrompter) ReadPassword(label string) (string, error) {
	fd := int(p.in.Fd())
	if !term.IsTerminal(fd) {
		return p.ReadLine(label)
	}
	fmt.Fprint(p.out, label)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(b), nil
}

// noPrompter is used when stdin is not interactive.
type noPrompter struct{}

var errNoTerminal = errors.New("no terminal available for interactive input; pass the value as a flag")

func (noPrompter) ReadLine(string) (string, error)     { return "", errNoTerminal }
func (noPrompter) ReadPassword(string) (string, error) { return "", errNoTerminal }
