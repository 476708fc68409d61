package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/a-h/templ"
	"github.com/spf13/cobra"

	"github.com/patrickward/codepane/internal/codewindow"
	"github.com/patrickward/codepane/internal/highlight"
	"github.com/patrickward/codepane/internal/rendering"
)

type renderOptions struct {
	language string
	filename string
	fragment bool
}

func (a *app) newRenderCommand() *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render [file|-]",
		Short: "Render a file as a code window to stdout",
		Long: `Render reads a file (or stdin with "-") and writes HTML to stdout.
Markdown files become documents with code windows for fenced blocks.`,
		Args: cobra.ExactArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.language, "language", "l", "", "language to highlight (default from the file extension)")
	cmd.Flags().StringVar(&opts.filename, "filename", "", "label shown in the window header (default the file name)")
	cmd.Flags().BoolVar(&opts.fragment, "fragment", false, "omit the shared styles and script")

	return cmd
}

func runRender(ctx context.Context, stdin io.Reader, out io.Writer, path string, opts renderOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var (
		content []byte
		err     error
	)
	if path == "-" {
		content, err = io.ReadAll(stdin)
	} else {
		content, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("could not read %s: %w", path, err)
	}

	label := opts.filename
	if label == "" && path != "-" {
		label = filepath.Base(path)
	}

	ctx = templ.InitializeContext(ctx)

	if strings.EqualFold(filepath.Ext(label), ".md") && opts.language == "" {
		return documentComponent(rendering.NewMarkdownRenderer(nil).Render(string(content))).Render(ctx, out)
	}

	var windowOpts []codewindow.Option
	if opts.language != "" {
		lang, ok := highlight.Lookup(opts.language)
		if !ok {
			return fmt.Errorf("unknown language %q", opts.language)
		}
		windowOpts = append(windowOpts, codewindow.WithLanguage(lang))
	}

	window := codewindow.New(codewindow.Source{Code: string(content), Filename: label}, windowOpts...)
	if opts.fragment {
		return window.Fragment().Render(ctx, out)
	}
	return window.Component().Render(ctx, out)
}
