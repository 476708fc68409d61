package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/patrickward/codepane/internal/config"
)

const (
	appName    = "codepane"
	appVersion = "0.1.0"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// app carries the configuration shared by every command.
type app struct {
	v       *viper.Viper
	cfgFile string
}

func newRootCommand() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:   appName,
		Short: "Serve source snippets as highlighted code windows",
		Long: `codepane serves the files in a data directory as code windows: framed
panels with line numbers, light syntax highlighting and a pointer glow.
Markdown files are rendered as documents whose fenced code blocks become
code windows. Files ending in .age are decrypted with an age identity.

Settings come from flags, CODEPANE_* environment variables and an optional
YAML config file, in that order.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runServe(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default $XDG_CONFIG_HOME/codepane/config.yaml, or CODEPANE_CONFIG)")
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		a.newServeCommand(),
		a.newRenderCommand(),
		a.newKeysCommand(),
		newVersionCommand(),
	)

	return root
}

func (a *app) loadConfig(cmd *cobra.Command) error {
	if err := config.BindFlags(a.v, cmd.Flags()); err != nil {
		return err
	}
	return config.ReadConfigFile(a.v, a.cfgFile)
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, appVersion)
		},
	}
}
