package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-vault-envelope/models"
)

func (r *runner) initCommand() *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   "init <id>",
		Short: "Create a new vault",
		Long:  "Create a new vault under <id>, empty or filled from a JSON file (--from, \"-\" for stdin).",
		Args:  cobra.ExactArgs(1),
	}
	cmd.Flags().StringVar(&from, "from", "", "initial content as a JSON object file")
	cmd.RunE = r.run(func(cmd *cobra.Command, args []string) error {
		content := models.VaultContent{}
		if from != "" {
			var err error
			if content, err = r.readDocument(from); err != nil {
				return err
			}
		}

		password, err := r.newPassword(PasswordEnv, "New vault password: ")
		if err != nil {
			return err
		}
		if err = r.cli.Vault.Create(cmd.Context(), args[0], password, content); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created vault %s\n", args[0])
		return nil
	})
	return cmd
}

func (r *runner) showCommand() *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print the content of a vault",
		Args:  cobra.ExactArgs(1),
	}
	cmd.Flags().StringVarP(&key, "key", "k", "", "print only this entry")
	cmd.RunE = r.run(func(cmd *cobra.Command, args []string) error {
		password, err := r.password(PasswordEnv, "Vault password: ")
		if err != nil {
			return err
		}

		vault, err := r.cli.Vault.Open(cmd.Context(), args[0], password)
		if err != nil {
			return err
		}
		if !vault.SavedAt.IsZero() {
			r.log.Debug().Str("blob_id", args[0]).Time("saved_at", vault.SavedAt).Msg("vault opened")
		}

		if key == "" {
			return writeJSON(cmd.OutOrStdout(), vault.Content)
		}
		value, ok := vault.Content[key]
		if !ok {
			return fmt.Errorf("%w: %s", ErrEntryNotFound, key)
		}
		return writeJSON(cmd.OutOrStdout(), value)
	})
	return cmd
}

func (r *runner) putCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "put <id> <key> <value>",
		Short: "Set one entry of a vault",
		Long:  "Set <key> to <value>. A value that parses as JSON is stored as such, anything else as a string.",
		Args:  cobra.ExactArgs(3),
	}
	cmd.RunE = r.run(func(cmd *cobra.Command, args []string) error {
		password, err := r.password(PasswordEnv, "Vault password: ")
		if err != nil {
			return err
		}
		if err = r.cli.Vault.SetEntry(cmd.Context(), args[0], password, args[1], parseValue(args[2])); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "updated %s in %s\n", args[1], args[0])
		return nil
	})
	return cmd
}

func (r *runner) importCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <id> <file>",
		Short: "Replace the content of a vault with a JSON file",
		Long: `Replace the content of vault <id> with the JSON object in <file> ("-" for stdin).
An existing vault is opened first, so the current password is required.
A missing vault is created with a new password.`,
		Args: cobra.ExactArgs(2),
	}
	cmd.RunE = r.run(func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id := args[0]

		content, err := r.readDocument(args[1])
		if err != nil {
			return err
		}

		exists, err := r.cli.Vault.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			password, err := r.newPassword(PasswordEnv, "New vault password: ")
			if err != nil {
				return err
			}
			if err = r.cli.Vault.Create(ctx, id, password, content); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created vault %s with %d entries\n", id, len(content))
			return nil
		}

		password, err := r.password(PasswordEnv, "Vault password: ")
		if err != nil {
			return err
		}
		if _, err = r.cli.Vault.Load(ctx, id, password); err != nil {
			return err
		}
		if err = r.cli.Vault.Save(ctx, id, password, content); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d entries into %s\n", len(content), id)
		return nil
	})
	return cmd
}

func (r *runner) passwdCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "passwd <id>",
		Short: "Change the password of a vault",
		Long: "Re-seal the vault under a new password with a fresh salt and nonce. " +
			"Scripts can pass the passwords in " + PasswordEnv + " and " + NewPasswordEnv + ".",
		Args: cobra.ExactArgs(1),
	}
	cmd.RunE = r.run(func(cmd *cobra.Command, args []string) error {
		oldPassword, err := r.password(PasswordEnv, "Current password: ")
		if err != nil {
			return err
		}
		newPassword, err := r.newPassword(NewPasswordEnv, "New password: ")
		if err != nil {
			return err
		}
		if err = r.cli.Vault.ChangePassword(cmd.Context(), args[0], oldPassword, newPassword); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "password of %s changed\n", args[0])
		return nil
	})
	return cmd
}

func (r *runner) inspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <id>",
		Short: "Print the envelope header of a vault without the password",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = r.run(func(cmd *cobra.Command, args []string) error {
		header, err := r.cli.Vault.Inspect(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), header)
	})
	return cmd
}

func (r *runner) listCommand() *cobra.Command {
	var prefix string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List vaults",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().StringVarP(&prefix, "prefix", "p", "", "only ids starting with prefix")
	cmd.RunE = r.run(func(cmd *cobra.Command, _ []string) error {
		infos, err := r.cli.Vault.List(cmd.Context(), prefix)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSIZE\tUPDATED")
		for _, info := range infos {
			fmt.Fprintf(w, "%s\t%d\t%s\n", info.ID, info.Size, info.UpdatedAt.Local().Format(time.DateTime))
		}
		return w.Flush()
	})
	return cmd
}

func (r *runner) sealCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seal",
		Short: "Seal a JSON document from stdin into an envelope on stdout",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = r.run(func(cmd *cobra.Command, _ []string) error {
		content, err := r.readDocument("-")
		if err != nil {
			return err
		}
		password, err := r.newPassword(PasswordEnv, "Password: ")
		if err != nil {
			return err
		}
		data, err := r.cli.Vault.SealDocument(cmd.Context(), password, content)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(append(data, '\n'))
		return err
	})
	return cmd
}

func (r *runner) openCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open",
		Short: "Open an envelope from stdin and print the document on stdout",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = r.run(func(cmd *cobra.Command, _ []string) error {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read envelope: %w", err)
		}
		password, err := r.password(PasswordEnv, "Password: ")
		if err != nil {
			return err
		}
		content, err := r.cli.Vault.OpenDocument(cmd.Context(), password, data)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), content)
	})
	return cmd
}

func (r *runner) mirrorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mirror",
		Short: "Copy changed vaults to the mirror store once",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = r.run(func(cmd *cobra.Command, _ []string) error {
		if r.cli.Mirror == nil {
			return ErrMirrorNotConfigured
		}
		stats, err := r.cli.Mirror.SyncOnce(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "copied %d, unchanged %d, failed %d\n", stats.Copied, stats.Skipped, stats.Failed)
		if stats.Failed > 0 {
			return ErrMirrorIncomplete
		}
		return nil
	})
	return cmd
}

func (r *runner) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		// No config or store is needed.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprint(cmd.OutOrStdout(), r.opts.Build)
		},
	}
}

// readDocument reads a JSON object from path, or from stdin when path is
// "-". Numbers keep their textual form.
func (r *runner) readDocument(path string) (models.VaultContent, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(r.opts.In)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var content models.VaultContent
	if err = dec.Decode(&content); err != nil || content == nil {
		return nil, ErrInvalidDocument
	}
	if dec.More() {
		return nil, ErrInvalidDocument
	}
	return content, nil
}

// parseValue interprets a command-line value as JSON when it is valid JSON
// and as a plain string otherwise.
func parseValue(raw string) any {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return raw
	}
	return v
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
