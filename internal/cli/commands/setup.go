package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/texdag/texdag/internal/cli/config"
	"github.com/texdag/texdag/internal/cli/output"
	"github.com/texdag/texdag/internal/engine"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the command's
// loaded configuration and context logger.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.GetCurrentConfig()
	if cfg == nil {
		cfg = &config.Config{
			Refs:             config.DefaultRefs(),
			FutureRefs:       config.DefaultFutureRefs(),
			ExcludedPrefixes: config.DefaultExcludedPrefixes(),
			Environments:     config.DefaultEnvironments(),
			ProofMarkers:     config.DefaultProofMarkers(),
			OutputFormat:     config.DefaultOutput,
		}
	}
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{Cfg: cfg, Logger: logger, Renderer: r}
}

// NewEngine builds an engine for the configured inputs. Positional
// source arguments override the configured source list.
func (c *CommandContext) NewEngine(sources []string) (*engine.Engine, error) {
	ecfg := c.Cfg.EngineConfig(sources, c.Logger)
	if ecfg.AuxPath == "" {
		return nil, fmt.Errorf("no numbering table given (set --aux or \"aux:\" in texdag.yaml)")
	}
	if len(ecfg.Sources) == 0 {
		return nil, fmt.Errorf("no source files given (pass them as arguments or set \"sources:\" in texdag.yaml)")
	}
	return engine.New(ecfg), nil
}

// printDiagnostics reports recoverable conditions on stderr so they
// never mix with primary output.
func printDiagnostics(r *output.Renderer, diags []engine.Diagnostic) {
	for _, d := range diags {
		if d.Path != "" {
			r.Errorf("%s: %s: %s\n", d.Severity, d.Path, d.Message)
			continue
		}
		r.Errorf("%s: %s\n", d.Severity, d.Message)
	}
}
