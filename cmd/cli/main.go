// Command recorddb is the interactive shell for RecordDB.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/nickyhof/RecordDB/config"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile, scriptFile string

	rootCmd := &cobra.Command{
		Use:   "recorddb",
		Short: "RecordDB - embedded typed record store",
		Long: `RecordDB is an in-memory store of typed records with a small command
language for creating tables, inserting, deleting and querying records.

Sessions can be saved with SAVE_AS and replayed with READ_FROM.`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			cli, err := newCLI(cfg, newLogger(cmd, cfg.Verbose), cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			if scriptFile != "" {
				return cli.runScript(scriptFile)
			}
			if stdin, ok := cmd.InOrStdin().(*os.File); !ok || !term.IsTerminal(int(stdin.Fd())) {
				return cli.runLines(cmd.InOrStdin())
			}
			return cli.runREPL()
		},
	}

	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	flags := rootCmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./recorddb.yaml)")
	flags.StringVarP(&scriptFile, "file", "f", "", "session file to replay non-interactively")
	flags.StringP("key", "k", config.DefaultKey, "key kind for all tables (int|string)")
	flags.String("replay", config.DefaultReplay, "what READ_FROM does on a failing line (abort|continue)")
	flags.String("archive", "", "directory of the repo: session archive (default: in memory)")
	flags.BoolP("verbose", "v", false, "debug logging on stderr")

	_ = rootCmd.RegisterFlagCompletionFunc("key", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"int", "string"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("replay", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"abort", "continue"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "RecordDB v%s\n", Version)
		},
	}
}

func newLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}
