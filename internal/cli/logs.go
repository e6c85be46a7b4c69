package cli

import (
	"github.com/spf13/cobra"
)

func (a *app) logsCmd() *cobra.Command {
	logs := &cobra.Command{
		Use:   "logs",
		Short: "Read execution logs",
	}

	var limit int
	recent := &cobra.Command{
		Use:   "recent",
		Short: "List the latest executions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := a.client.GetRecentLogs(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return a.print(resp, renderLogs)
		},
	}
	recent.Flags().IntVarP(&limit, "limit", "n", 0, "number of executions (0 uses default_limit)")

	task := &cobra.Command{
		Use:   "task <task-id>",
		Short: "List the executions of one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.client.GetTaskLogs(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(resp, renderLogs)
		},
	}

	logs.AddCommand(recent, task)
	return logs
}

func (a *app) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <task-id>",
		Short: "Show success and failure counts for a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.client.GetExecutionStats(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(resp, renderStats)
		},
	}
}
