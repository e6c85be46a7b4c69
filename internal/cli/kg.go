package cli

import "github.com/spf13/cobra"

func (a *app) kgCmd() *cobra.Command {
	kg := &cobra.Command{
		Use:   "kg",
		Short: "Knowledge graph commands",
	}
	kg.AddCommand(
		&cobra.Command{
			Use:   "stats",
			Short: "Show knowledge graph counters",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				resp, err := a.client.GetKnowledgeGraphStats(cmd.Context())
				if err != nil {
					return err
				}
				return a.print(resp, renderKnowledge)
			},
		},
		&cobra.Command{
			Use:   "learn",
			Short: "Start a learning pass",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				resp, err := a.client.TriggerLearning(cmd.Context())
				if err != nil {
					return err
				}
				return a.print(resp, nil)
			},
		},
	)
	return kg
}
