package commands

import (
	"github.com/spf13/cobra"

	"github.com/otherjamesbrown/ai-aas/services/sample-data-service/internal/api/public"
)

// RootCommand assembles the CLI. Running it without a subcommand serves.
func RootCommand(build public.BuildMetadata) *cobra.Command {
	root := &cobra.Command{
		Use:   "sample-data-service",
		Short: "Serve randomly generated, sorted and deduplicated integer batches",
		Long: `sample-data-service exposes GET /data, which returns 15 random integers
in [1, 30], their ascending order, and their distinct ascending values,
stamped with the local generation time.`,
		Version:       build.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunServe(cmd.Context(), build)
		},
	}

	root.AddCommand(ServeCommand(build))
	root.AddCommand(GenerateCommand())
	root.AddCommand(ContractsCommand())

	return root
}
