package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/kolah/canon/internal/config"
	"github.com/kolah/canon/internal/pipeline"
	"github.com/kolah/canon/internal/report"
	"github.com/spf13/cobra"
)

func run(cmd *cobra.Command, withExtension bool) error {
	cfg, err := config.Load(cmd)
	if err != nil {
		return err
	}

	if !withExtension {
		cfg.Extension = ""
	} else if cfg.Extension == "" {
		return fmt.Errorf("extension file is required")
	}

	res, err := pipeline.New(cfg, newLogger(cmd)).Run()
	if err != nil {
		return err
	}

	printSummary(cmd, res.Base)
	if res.Extension != nil {
		printSummary(cmd, res.Extension)
		cmd.PrintErrf("  Compatible components: %d of %d\n", len(res.Compat.Components), len(res.Extension.Types))
		cmd.PrintErrf("  Extension operations: %d\n", len(res.Compat.ExtensionOperations))
	}

	rep, err := report.New(cfg.Templates.Dir)
	if err != nil {
		return fmt.Errorf("creating reporter: %w", err)
	}
	for _, name := range rep.Overridden() {
		cmd.PrintErrf("Using custom template: %s\n", name)
	}
	out, err := rep.Render(res, report.Format(cfg.Format))
	if err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	if dryRun || cfg.Output == "" {
		fmt.Fprint(cmd.OutOrStdout(), string(out))
		return nil
	}

	if err := os.WriteFile(cfg.Output, out, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", cfg.Output, err)
	}
	cmd.PrintErrf("Written: %s\n", cfg.Output)
	return nil
}

func printSummary(cmd *cobra.Command, u *pipeline.Unit) {
	cmd.PrintErrf("Loaded %s OpenAPI %s: %s\n", u.Role, u.Version, u.Title)
	cmd.PrintErrf("  Schemas: %d\n", len(u.Types))
	cmd.PrintErrf("  Operations: %d\n", len(u.Operations))
	cmd.PrintErrf("  Rewrites: %d\n", u.Rewrites)
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}
