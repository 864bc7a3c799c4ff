package commands

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/otherjamesbrown/ai-aas/services/sample-data-service/internal/api/public"
	"github.com/otherjamesbrown/ai-aas/services/sample-data-service/pkg/contracts"
)

// GenerateCommand prints freshly generated /data envelopes without starting
// a server. Output is one JSON document per line unless --pretty is set.
func GenerateCommand() *cobra.Command {
	var (
		count    int
		pretty   bool
		validate bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print sample batches as served by GET /data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return errors.New("--count must be at least 1")
			}

			handler := public.NewHandler(public.HandlerConfig{})
			out := cmd.OutOrStdout()

			for i := 0; i < count; i++ {
				body, err := json.Marshal(handler.Build())
				if err != nil {
					return fmt.Errorf("encode batch: %w", err)
				}
				if validate {
					if err := contracts.ValidateDataResponse(body); err != nil {
						return fmt.Errorf("batch %d violates contract: %w", i+1, err)
					}
				}
				if pretty {
					body, err = json.MarshalIndent(json.RawMessage(body), "", "  ")
					if err != nil {
						return fmt.Errorf("indent batch: %w", err)
					}
				}
				if _, err := fmt.Fprintln(out, string(body)); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of batches to generate")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent JSON output")
	cmd.Flags().BoolVar(&validate, "validate", false, "check every batch against the published contract")

	return cmd
}
