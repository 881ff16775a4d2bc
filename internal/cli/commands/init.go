package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// starterConfig is the texdag.yaml written by init. It spells out the
// defaults so they are easy to adjust.
const starterConfig = `# texdag configuration
# Path to the numbering table produced by the LaTeX run.
aux: main.aux

# Source files to scan, in document order.
sources:
  - main.tex

# Ordinary reference macros. A reference made with one of these must
# point at an earlier-numbered statement.
refs:
  - \ref
  - \reflem
  - \refdef
  - \refthm
  - \refcor

# Forward-reference macros, exempt from ordering checks.
future_refs:
  - \fref

# Label prefixes to ignore entirely (equations, figures, sections...).
excluded_prefixes:
  - eq
  - fig
  - sec

# Which environments own which label prefixes.
environments:
  thm: [thm, theorem]
  lem: [lem, lemma]
  def: [defn, definition]
  cor: [cor, corollary]
  prop: [prop, proposition]

# Environments a statement's scope extends through when they follow it
# directly, so proof references count toward the statement.
proof_markers:
  - proof
`

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a starter texdag.yaml",
		Long: `Write a starter texdag.yaml with the default macro lists and
environment mapping, ready to adjust for the document at hand.`,
		Example: `  # Initialize in the current directory
  texdag init

  # Initialize next to the document
  texdag init papers/groups

  # Overwrite an existing config
  texdag init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(cmd, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

func runInit(cmd *cobra.Command, dir string, force bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, "texdag.yaml")
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("texdag.yaml already exists. Use --force to overwrite")
	}

	if err := os.WriteFile(configPath, []byte(starterConfig), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", configPath)
	return nil
}
