package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/justyntemme/picroute/internal/nav"
)

// prompter reads answers from the same line stream as the REPL.
type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

var _ nav.Dialogs = (*prompter)(nil)

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewScanner(in), out: out}
}

// readLine returns io.EOF when input is exhausted.
func (p *prompter) readLine() (string, error) {
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(p.in.Text()), nil
}

// ChooseDirectory asks for a destination; an empty answer cancels.
func (p *prompter) ChooseDirectory(ctx context.Context) (string, error) {
	fmt.Fprint(p.out, "destination (empty to cancel): ")
	line, err := p.readLine()
	if err == io.EOF || (err == nil && line == "") {
		return "", nav.ErrCancelled
	}
	if err != nil {
		return "", err
	}
	if ctx.Err() != nil {
		return "", nav.ErrCancelled
	}
	return expandHome(line), nil
}

// Confirm defaults to no.
func (p *prompter) Confirm(ctx context.Context, prompt string) (bool, error) {
	fmt.Fprintf(p.out, "%s [y/N]: ", prompt)
	line, err := p.readLine()
	if err == io.EOF {
		return false, nav.ErrCancelled
	}
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return ctx.Err() == nil, nil
	}
	return false, nil
}
