package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

//go:generate moq -out io_mock.go . IO

// IO is the terminal the commands talk to
type IO interface {
	Println(a ...any)
	Printf(format string, a ...any)
	ReadInput(prompt string) (string, error)
	ReadPassword(prompt string) (string, error)
	IsTerminal() bool
}

// Stdio reads from os.Stdin and writes to out
type Stdio struct {
	out io.Writer
	in  *bufio.Reader
}

// NewStdio returns an IO over the process standard streams
func NewStdio() *Stdio {
	return &Stdio{out: os.Stdout, in: bufio.NewReader(os.Stdin)}
}

func (s *Stdio) Println(a ...any) {
	_, _ = fmt.Fprintln(s.out, a...)
}

func (s *Stdio) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(s.out, format, a...)
}

func (s *Stdio) ReadInput(prompt string) (string, error) {
	s.Printf("%s", prompt)
	input, err := s.in.ReadString('\n')
	if err != nil && input == "" {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

func (s *Stdio) ReadPassword(prompt string) (string, error) {
	s.Printf("%s", prompt)
	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	s.Println("")
	if err != nil {
		return "", err
	}
	return string(secret), nil
}

// IsTerminal reports whether stdin is interactive
func (s *Stdio) IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
