package cli

import (
	"github.com/spf13/cobra"
)

func CompatCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compat",
		Short: "Canonicalize a base and an extension document and compare them",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, true)
		},
	}

	flags := cmd.Flags()
	flags.StringP("extension", "e", "", "Extension OpenAPI spec file path")
	flags.String("model-suffix", "", "Suffix of generated base model names")
	flags.String("extension-model-suffix", "", "Suffix of generated extension model names")
	flags.String("operation-suffix", "", "Suffix of extension-only operation artifacts")

	return cmd
}
