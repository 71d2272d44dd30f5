// Package commands implements the terminal entrypoints behind main's
// flags. Each command is a plain function over an explicit dependency set.
package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"potluck/internal/api"
	"potluck/internal/config"
	"potluck/internal/feed"
	"potluck/internal/messenger"
	"potluck/internal/session"
)

type Deps struct {
	Config    *config.Config
	Session   *session.Manager
	API       *api.Client
	Feed      *feed.Service
	Messenger *messenger.Messenger

	// In/Out default to stdin/stdout; tests substitute buffers.
	In  io.Reader
	Out io.Writer
}

func (d *Deps) in() io.Reader {
	if d.In != nil {
		return d.In
	}
	return os.Stdin
}

func (d *Deps) out() io.Writer {
	if d.Out != nil {
		return d.Out
	}
	return os.Stdout
}

func prompt(d *Deps, r *bufio.Reader, label string) (string, error) {
	fmt.Fprintf(d.out(), "%s: ", label)
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads without echo when stdin is a terminal and falls back
// to a plain line read otherwise (tests, pipes).
func promptPassword(d *Deps, r *bufio.Reader, label string) (string, error) {
	fmt.Fprintf(d.out(), "%s: ", label)

	if f, ok := d.in().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		pw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(d.out())
		if err != nil {
			return "", err
		}
		return string(pw), nil
	}

	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
