// Package main is the gochemmatch CLI: a Cobra root command exposing
// "match" and "extract" over the molecule decoder, VF2 matcher, and
// stereo/tautomer extractor (grounded on turtacn-KeyIP-Intelligence's and
// theRebelliousNerd-codenerd's cobra-based cmd/ entrypoints).
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cx-luo/go-chem/internal/config"
	"github.com/cx-luo/go-chem/internal/logging"
	"github.com/cx-luo/go-chem/internal/requestid"
)

// cliContextKey is the context key CLIContext is stored under on a cobra
// command's own context.
type cliContextKey struct{}

// CLIContext carries the dependencies every subcommand's RunE needs, built
// once in PersistentPreRunE and retrieved with GetCLIContext.
type CLIContext struct {
	Config    *config.Config
	Logger    *zap.Logger
	RequestID string
}

// rootOptions holds the root command's persistent flags.
type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string
}

// NewRootCommand builds the gochemmatch root command and wires its
// subcommands.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "gochemmatch",
		Short:         "Substructure and exact chemical graph matching",
		Long:          "gochemmatch decodes compact wire-format molecule blobs and runs VF2-style\nsubstructure or exact matches against them, or extracts their stereo and\ntautomer descriptions.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file (default: ./gochemmatch.yaml if present, else environment + built-in defaults)")
	pf.StringVar(&opts.logLevel, "log-level", "", "override log.level from config (debug, info, warn, error)")
	pf.StringVar(&opts.logFormat, "log-format", "", "override log.format from config (json, console)")

	cmd.AddCommand(newMatchCmd(), newExtractCmd())

	return cmd
}

func persistentPreRun(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.logFormat != "" {
		cfg.Log.Format = opts.logFormat
	}

	logger, err := logging.New(logging.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		OutputPaths: cfg.Log.OutputPaths,
	})
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}

	id := requestid.New()
	logger = logger.With(requestid.Field(id))

	cliCtx := &CLIContext{Config: cfg, Logger: logger, RequestID: id}
	ctx := context.WithValue(cmd.Context(), cliContextKey{}, cliCtx)
	cmd.SetContext(requestid.WithContext(ctx, id))

	return nil
}

func loadConfig(opts *rootOptions) (*config.Config, error) {
	if opts.configPath != "" {
		return config.Load(opts.configPath)
	}
	if _, err := os.Stat("gochemmatch.yaml"); err == nil {
		return config.Load("gochemmatch.yaml")
	}
	return config.LoadFromEnv()
}

// GetCLIContext retrieves the CLIContext a PersistentPreRunE stored on cmd.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, fmt.Errorf("gochemmatch: command has no context")
	}
	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, fmt.Errorf("gochemmatch: CLIContext not found; PersistentPreRunE did not run")
	}
	return cliCtx, nil
}

// commandTimeout bounds how long a single match/extract invocation may run
// before its context is cancelled, independent of the VF2 iteration limit.
const commandTimeout = 30 * time.Second

func Execute() error {
	root := NewRootCommand()
	return root.Execute()
}
