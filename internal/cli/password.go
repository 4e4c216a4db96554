package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/awnumar/memguard"
	"golang.org/x/term"
)

// Environment variables that bypass the password prompt, for scripts.
const (
	PasswordEnv    = "VAULT_PASSWORD"
	NewPasswordEnv = "VAULT_NEW_PASSWORD"
)

// PasswordReader reads a password without echoing it.
type PasswordReader interface {
	ReadPassword(prompt string) ([]byte, error)
}

// TerminalPasswordReader prompts on stderr and reads from the controlling
// terminal. When stdin is a pipe it falls back to /dev/tty so that
// `vault seal < doc.json` still asks interactively.
type TerminalPasswordReader struct {
	Prompt io.Writer
}

func (r TerminalPasswordReader) ReadPassword(prompt string) ([]byte, error) {
	out := r.Prompt
	if out == nil {
		out = os.Stderr
	}
	fmt.Fprint(out, prompt)
	defer fmt.Fprintln(out)

	if term.IsTerminal(int(os.Stdin.Fd())) {
		return term.ReadPassword(int(os.Stdin.Fd()))
	}

	tty, err := os.Open("/dev/tty")
	if err != nil {
		return nil, fmt.Errorf("%w: stdin is not a terminal, set %s", ErrNoTerminal, PasswordEnv)
	}
	defer tty.Close()

	return term.ReadPassword(int(tty.Fd()))
}

// password returns the value of env or prompts once.
func (r *runner) password(env, prompt string) (string, error) {
	if v := r.opts.Getenv(env); v != "" {
		return v, nil
	}

	b, err := r.opts.Passwords.ReadPassword(prompt)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	defer memguard.WipeBytes(b)
	return string(b), nil
}

// newPassword returns the value of env or prompts twice and requires both
// answers to match.
func (r *runner) newPassword(env, prompt string) (string, error) {
	if v := r.opts.Getenv(env); v != "" {
		return v, nil
	}

	first, err := r.opts.Passwords.ReadPassword(prompt)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	defer memguard.WipeBytes(first)

	second, err := r.opts.Passwords.ReadPassword("Repeat " + prompt)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	defer memguard.WipeBytes(second)

	if !bytes.Equal(first, second) {
		return "", ErrPasswordMismatch
	}
	return string(first), nil
}
