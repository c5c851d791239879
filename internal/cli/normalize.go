package cli

import (
	"github.com/spf13/cobra"
)

func NormalizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize",
		Short: "Classify and canonicalize one OpenAPI document",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, false)
		},
	}
}
