package cli

import (
	"github.com/kolah/canon/internal/config"
	"github.com/spf13/cobra"
)

func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "canon",
		Short:   "Canon - classify and canonicalize OpenAPI schema graphs",
		Version: "1.0.0",

		SilenceUsage: true,

		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	config.BindCommonFlags(root)
	root.PersistentFlags().BoolP("verbose", "v", false, "Log every rewrite")

	root.AddCommand(NormalizeCommand(), CompatCommand())

	return root
}
