package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/otherjamesbrown/ai-aas/services/sample-data-service/pkg/contracts"
)

// ContractsCommand creates the contracts command group.
func ContractsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contracts",
		Short: "Inspect the published API contract",
	}

	cmd.AddCommand(contractsValidateCommand())
	cmd.AddCommand(contractsExportCommand())

	return cmd
}

func contractsValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the embedded OpenAPI specification",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := contracts.LoadOpenAPI(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ OpenAPI specification %q %s is valid\n", doc.Info.Title, doc.Info.Version)
			return nil
		},
	}
}

func contractsExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write the embedded OpenAPI specification to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := cmd.OutOrStdout().Write(contracts.OpenAPISpec())
			return err
		},
	}
}
