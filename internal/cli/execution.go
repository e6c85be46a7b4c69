package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/rpaconsole/internal/domain/model"
	"github.com/okian/rpaconsole/pkg/logger"
)

func (a *app) execCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exec <task-id>",
		Short: "Run a saved task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.client.ExecuteTask(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(resp, renderExecution)
		},
	}
}

func (a *app) stepsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "steps <file|->",
		Short: "Run an ad-hoc step list without saving it",
		Long: `steps sends a JSON array of steps to the backend and prints the execution
result. Actions the backend is not known to support are reported on standard
error but still sent.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readJSONInput(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			var steps []model.Step
			if err := json.Unmarshal(raw, &steps); err != nil {
				return fmt.Errorf("%w: expected an array of steps: %v", ErrInvalidJSON, err)
			}
			for _, s := range steps {
				if !s.Action.Known() {
					a.log.Warn(cmd.Context(), "unknown step action",
						logger.Int("step_id", s.StepID),
						logger.String("action", string(s.Action)))
				}
			}
			resp, err := a.client.ExecuteSteps(cmd.Context(), raw)
			if err != nil {
				return err
			}
			return a.print(resp, renderExecution)
		},
	}
}

func (a *app) closeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "close",
		Short: "Release the backend browser session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := a.client.CloseBrowser(cmd.Context())
			if err != nil {
				return err
			}
			return a.print(resp, nil)
		},
	}
}
