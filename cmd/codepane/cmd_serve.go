package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/patrickward/codepane"
	"github.com/patrickward/codepane/internal/config"
	"github.com/patrickward/codepane/internal/livereload"
)

func (a *app) newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web server (default command)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runServe(cmd)
		},
	}
}

func (a *app) runServe(cmd *cobra.Command) error {
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}

	closer, err := SetupLogging(DefaultLogConfig(cfg.LogFile))
	if err != nil {
		return fmt.Errorf("could not set up logging: %w", err)
	}
	defer func() {
		_ = closer.Close()
	}()

	opts := []ServerOption{WithEncryptionManager(loadEncryption(cfg))}
	if cfg.Watch {
		opts = append(opts, WithLiveReload(livereload.NewHub()))
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	server, err := NewServer(ctx, cfg, opts...)
	if err != nil {
		return fmt.Errorf("error initializing server: %w", err)
	}

	return server.Start()
}

// loadEncryption returns a manager with whatever keys could be loaded. Missing
// keys only disable .age snippets.
func loadEncryption(cfg *config.Config) *codepane.EncryptionManager {
	em := codepane.NewEncryptionManager()
	if !cfg.EncryptionConfigured() {
		log.Printf("No age keys configured, encryption disabled")
		return em
	}

	if err := em.LoadEncryptionKeys(cfg.Identity, cfg.Recipient); err != nil {
		log.Printf("Error loading encryption keys: %v", err)
		log.Printf("Encryption disabled!")
		return codepane.NewEncryptionManager()
	}

	log.Printf("Encryption enabled!")
	return em
}
