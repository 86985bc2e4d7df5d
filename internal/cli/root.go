package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/invgen/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string   // "json" | "text"
	Config  string   // YAML or CUE settings file
	Set     []string // name=value switch overrides, applied after Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the invgen CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "invgen",
		Short: "invgen - dynamic invariant inference",
		Long: `Infer likely invariants from recorded program executions.

invgen reads a trace of program point declarations and variable samples,
hypothesizes invariants over every variable tuple, falsifies them against
the samples, and reports the ones that survive and are justified.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.Config, "config", "c", "", "settings file (.yaml, .yml or .cue)")
	cmd.PersistentFlags().StringArrayVar(&opts.Set, "set", nil, "override a switch (name=value, repeatable)")

	// Add subcommands
	cmd.AddCommand(NewInferCommand(opts))
	cmd.AddCommand(NewParseCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))

	return cmd
}

// Settings loads the config file, if any, and applies --set overrides.
func (o *RootOptions) Settings() (*config.Settings, error) {
	settings := config.Defaults()
	if o.Config != "" {
		loaded, err := config.Load(o.Config)
		if err != nil {
			return nil, err
		}
		settings = loaded
	}
	for _, assign := range o.Set {
		if err := settings.Override(assign); err != nil {
			return nil, err
		}
	}
	return settings, nil
}

// Logger returns a text logger on w at Info, or Debug with --verbose.
func (o *RootOptions) Logger(w io.Writer) *slog.Logger {
	logLevel := slog.LevelInfo
	if o.Verbose {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
}

// Formatter returns an output formatter writing to cmd's streams.
func (o *RootOptions) Formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}

// settingsError reports a rejected config file or override.
func settingsError(f *OutputFormatter, err error) error {
	_ = f.Error(ErrCodeConfig, err.Error(), nil)
	return WrapExitError(ExitCommandError, "invalid settings", err)
}
