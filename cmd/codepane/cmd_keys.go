package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/patrickward/codepane"
	"github.com/patrickward/codepane/internal/config"
)

func (a *app) newKeysCommand() *cobra.Command {
	keys := &cobra.Command{
		Use:   "keys",
		Short: "Manage age keys for encrypted snippets",
	}

	keys.AddCommand(&cobra.Command{
		Use:   "generate",
		Short: "Generate a new age key pair in the keys directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.v)
			if err != nil {
				return err
			}

			pair, err := codepane.GenerateNewEncryptionPair(cfg.KeysDir)
			if err != nil {
				return fmt.Errorf("error generating new encryption identity: %w", err)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Generated new encryption identity:\n")
			_, _ = fmt.Fprintf(out, "  Public key: %s\n", pair.PublicKey)
			_, _ = fmt.Fprintf(out, "  Public key file: %s\n", pair.PublicPath)
			_, _ = fmt.Fprintf(out, "  Private key file: %s\n", pair.PrivatePath)
			_, _ = fmt.Fprintf(out, "\nTo use these keys:\n")
			_, _ = fmt.Fprintf(out, "  %s --identity %s --recipient %s\n", appName, pair.PrivatePath, pair.PublicPath)
			return nil
		},
	})

	return keys
}
