// Command recorddb-server exposes a RecordDB database over TCP.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nickyhof/RecordDB"
	"github.com/nickyhof/RecordDB/config"
	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "recorddb-server",
		Short: "Serve a RecordDB database over TCP",
		Long: `recorddb-server accepts one command per line and answers each with a JSON
object: {"success", "error", "error_kind", "type", "result"}.

When a JWT secret is configured, clients must send "AUTH JWT <token>" first.`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg, newLogger(cfg.Verbose))
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./recorddb.yaml)")
	flags.IntP("port", "p", config.DefaultPort, "TCP port to listen on")
	flags.StringP("key", "k", config.DefaultKey, "key kind for all tables (int|string)")
	flags.String("archive", "", "directory of the repo: session archive (default: in memory)")
	flags.String("jwt-secret", "", "shared secret for AUTH JWT (empty disables authentication)")
	flags.String("tls-cert", "", "TLS certificate file")
	flags.String("tls-key", "", "TLS private key file")
	flags.BoolP("verbose", "v", false, "debug logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "RecordDB Server v%s\n", Version)
		},
	})

	return rootCmd
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// run serves until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	instance, err := RecordDB.Open(cfg, logger)
	if err != nil {
		return err
	}
	database, err := instance.Database()
	if err != nil {
		return err
	}

	var server *Server
	if cfg.Server.JWTSecret != "" {
		server = NewServerWithAuth(database, &AuthConfig{
			JWTSecret: cfg.Server.JWTSecret,
			Issuer:    cfg.Server.Issuer,
			Audience:  cfg.Server.Audience,
		}, logger)
	} else {
		server = NewServer(database, logger)
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	if cfg.Server.TLSCert != "" {
		err = server.StartTLS(addr, cfg.Server.TLSCert, cfg.Server.TLSKey)
	} else {
		err = server.Start(addr)
	}
	if err != nil {
		return err
	}

	return server.Serve(ctx)
}
