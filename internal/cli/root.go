// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package cli implements the vault command line: creating, reading and
// editing password-protected vaults kept in the configured blob store, and
// sealing or opening standalone envelope documents.
//
// Commands print results on stdout and nothing else. Logs go to the file
// named by the App.LogFile setting.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-vault-envelope/internal/app"
	"github.com/MKhiriev/go-vault-envelope/internal/config"
	"github.com/MKhiriev/go-vault-envelope/internal/logger"
	"github.com/MKhiriev/go-vault-envelope/models"
)

// Options carries the process surroundings of the command tree.
type Options struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	Getenv    func(string) string
	Passwords PasswordReader

	Build models.AppBuildInfo
}

// DefaultOptions binds the command tree to the process.
func DefaultOptions(build models.AppBuildInfo) Options {
	return Options{
		In:        os.Stdin,
		Out:       os.Stdout,
		Err:       os.Stderr,
		Getenv:    os.Getenv,
		Passwords: TerminalPasswordReader{Prompt: os.Stderr},
		Build:     build,
	}
}

// runner holds what the commands share once the root pre-run has loaded the
// configuration.
type runner struct {
	opts       Options
	configPath string

	cli       *app.CLI
	log       *logger.Logger
	logCloser io.Closer
}

// NewRootCommand builds the vault command tree.
func NewRootCommand(opts Options) *cobra.Command {
	r := &runner{opts: opts}

	root := &cobra.Command{
		Use:   "vault",
		Short: "Password-protected JSON vaults",
		Long: `vault keeps JSON documents sealed with a password. The password is
stretched with Argon2id and the document is encrypted with an AEAD cipher.
Vaults live in the configured blob store: a directory, SQLite, PostgreSQL,
S3 or a blob server.`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: r.setup,
	}
	root.SetIn(opts.In)
	root.SetOut(opts.Out)
	root.SetErr(opts.Err)
	root.PersistentFlags().StringVarP(&r.configPath, "config", "c", "", "config file (JSON or YAML)")

	root.AddCommand(
		r.initCommand(),
		r.showCommand(),
		r.putCommand(),
		r.importCommand(),
		r.passwdCommand(),
		r.inspectCommand(),
		r.listCommand(),
		r.sealCommand(),
		r.openCommand(),
		r.mirrorCommand(),
		r.versionCommand(),
	)
	return root
}

func (r *runner) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.GetCLIConfig(r.configPath)
	if err != nil {
		return err
	}

	log, closer, err := logger.NewFileLogger("vault", cfg.App.LogFile)
	if err != nil {
		return err
	}
	if err = logger.SetLevel(cfg.App.LogLevel); err != nil {
		closer.Close()
		return err
	}
	r.log, r.logCloser = log, closer

	r.cli, err = app.NewCLI(cmd.Context(), cfg, log)
	if err != nil {
		log.Err(err).Msg("failed to initialise the vault cli")
		_ = r.teardown(cmd, nil)
		return err
	}
	log.Debug().Str("command", cmd.Name()).Msg("command started")
	return nil
}

// run wraps a command body so that the store and the log file are released
// whether or not it fails. Cobra skips post-run hooks on error.
func (r *runner) run(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			if closeErr := r.teardown(cmd, args); err == nil {
				err = closeErr
			}
		}()
		return fn(cmd, args)
	}
}

func (r *runner) teardown(cmd *cobra.Command, _ []string) error {
	var err error
	if r.cli != nil {
		err = r.cli.Close()
		r.cli = nil
	}
	if r.logCloser != nil {
		r.log.Debug().Str("command", cmd.Name()).Msg("command finished")
		r.logCloser.Close()
		r.logCloser = nil
	}
	return err
}

// Execute runs the command tree and prints a failure on the error stream.
// It returns the process exit code.
func Execute(ctx context.Context, root *cobra.Command) int {
	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	msg := app.UserMessage(err)
	if msg == app.MsgInternalError {
		msg = err.Error()
	}
	fmt.Fprintln(root.ErrOrStderr(), "vault:", msg)
	return 1
}
