package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) parseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <description...>",
		Short: "Turn a natural-language description into a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := joinArgs(args)
			if text == "" {
				return fmt.Errorf("%w: description", ErrEmptyInput)
			}
			resp, err := a.client.ParseTask(cmd.Context(), text)
			if err != nil {
				return err
			}
			return a.print(resp, renderTask)
		},
	}
}

func (a *app) saveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save <file|->",
		Short: "Save a task read from a JSON file or standard input",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := readJSONInput(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			resp, err := a.client.SaveTask(cmd.Context(), task)
			if err != nil {
				return err
			}
			return a.print(resp, renderTask)
		},
	}
}

func (a *app) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <task-id>",
		Short: "Show a saved task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.client.GetTask(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(resp, renderTask)
		},
	}
}

// The bypass commands print whatever the backend answered, error pages
// included.

func (a *app) healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Print the backend health text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			text, err := a.client.HealthCheck(cmd.Context())
			if err != nil {
				return err
			}
			return printText(a.stdout, text)
		},
	}
}

func (a *app) askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question...>",
		Short: "Send a test question to the AI backend",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := a.client.TestAI(cmd.Context(), joinArgs(args))
			if err != nil {
				return err
			}
			return printText(a.stdout, text)
		},
	}
}

func (a *app) pingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the backend answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			text, err := a.client.Ping(cmd.Context())
			if err != nil {
				return err
			}
			return printText(a.stdout, text)
		},
	}
}
