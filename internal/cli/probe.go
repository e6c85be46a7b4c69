package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/rpaconsole/internal/probe"
)

func (a *app) probeCmd() *cobra.Command {
	var (
		workers int
		repeat  int
		taskIDs []string
	)
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Exercise the read-only endpoints concurrently",
		Long: `probe calls health, ping, recent logs, knowledge graph stats and any
--task ids concurrently, repeating each check, and summarizes the outcomes.
It exits non-zero when any call failed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := probe.Config{
				Workers: a.cfg.ProbeWorkers,
				Repeat:  a.cfg.ProbeRepeat,
				TaskIDs: a.cfg.ProbeTaskIDs,
			}
			if cmd.Flags().Changed("workers") {
				cfg.Workers = workers
			}
			if cmd.Flags().Changed("repeat") {
				cfg.Repeat = repeat
			}
			if cmd.Flags().Changed("task") {
				cfg.TaskIDs = taskIDs
			}

			report, err := probe.Run(cmd.Context(), a.client, cfg, probe.WithLogger(a.log))
			if report != nil {
				if a.output == OutputJSON {
					err = firstErr(err, printProbeJSON(a.stdout, report))
				} else {
					err = firstErr(err, renderProbe(a.stdout, report))
				}
			}
			if err != nil {
				return err
			}
			if n := report.Failures(); n > 0 {
				return fmt.Errorf("%w: %d of %d", ErrProbeFailed, n, len(report.Results))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "concurrent workers (default probe_workers)")
	cmd.Flags().IntVarP(&repeat, "repeat", "r", 0, "times each check runs (default probe_repeat)")
	cmd.Flags().StringSliceVarP(&taskIDs, "task", "t", nil, "task id to fetch, repeatable")
	return cmd
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
