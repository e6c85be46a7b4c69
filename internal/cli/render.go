package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/okian/rpaconsole/internal/adapters/http/client"
	"github.com/okian/rpaconsole/internal/domain/model"
	"github.com/okian/rpaconsole/internal/probe"
)

// textRenderer prints a JSON response in human form. It returns an error
// when the body does not have the expected shape; the caller then falls
// back to indented JSON.
type textRenderer func(w io.Writer, resp *client.Response) error

// print writes resp in the selected output format. Text bodies are always
// printed verbatim.
func (a *app) print(resp *client.Response, render textRenderer) error {
	if resp.Kind != client.KindJSON {
		return printText(a.stdout, resp.Text())
	}
	if a.output == OutputText && render != nil {
		if err := render(a.stdout, resp); err == nil {
			return nil
		}
	}
	return printIndented(a.stdout, resp.Body)
}

func printText(w io.Writer, s string) error {
	if s == "" || s[len(s)-1] != '\n' {
		s += "\n"
	}
	_, err := io.WriteString(w, s)
	return err
}

func printIndented(w io.Writer, body []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		return printText(w, string(body))
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}

func renderTask(w io.Writer, resp *client.Response) error {
	var t model.Task
	if err := resp.Bind(&t); err != nil {
		return err
	}
	steps, err := t.Steps()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, titleStyle.Render(t.TaskName))
	if t.ID != 0 {
		fmt.Fprintf(w, "id:      %d\n", t.ID)
	}
	if t.Status != "" {
		fmt.Fprintf(w, "status:  %s\n", t.Status)
	}
	if t.Description != "" {
		fmt.Fprintf(w, "about:   %s\n", t.Description)
	}
	fmt.Fprintf(w, "steps:   %d\n", len(steps))
	for _, s := range steps {
		line := fmt.Sprintf("  %2d. %-8s %s", s.StepID, s.Action, s.Target)
		if s.Value != "" {
			line += " = " + s.Value
		}
		fmt.Fprintln(w, line)
	}
	return nil
}

func renderExecution(w io.Writer, resp *client.Response) error {
	var r model.ExecutionResult
	if err := resp.Bind(&r); err != nil {
		return err
	}
	if r.Success {
		fmt.Fprintln(w, successStyle.Render("Execution succeeded"))
	} else {
		fmt.Fprintln(w, errorStyle.Render("Execution failed"))
	}
	fmt.Fprintf(w, "steps: %d/%d\n", r.CompletedSteps, r.TotalSteps)
	if r.ErrorMessage != "" {
		fmt.Fprintf(w, "error: %s\n", r.ErrorMessage)
	}
	for _, s := range r.StepResults {
		mark, msg := successStyle.Render("ok  "), s.Message
		if !s.Success {
			mark, msg = errorStyle.Render("FAIL"), s.ErrorMessage
		}
		fmt.Fprintf(w, "  #%d %s %6dms %s\n", s.StepID, mark, s.ExecutionTimeMs, msg)
	}
	return nil
}

func renderLogs(w io.Writer, resp *client.Response) error {
	var logs []model.ExecutionLog
	if err := resp.Bind(&logs); err != nil {
		return err
	}
	if len(logs) == 0 {
		fmt.Fprintln(w, subtleStyle.Render("No executions."))
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTASK\tSTARTED\tDURATION\tSTEPS\tRESULT")
	for _, l := range logs {
		name := l.TaskName
		if name == "" {
			name = fmt.Sprint(l.TaskID)
		}
		started := "-"
		if !l.StartTime.IsZero() {
			started = l.StartTime.Format(time.DateTime)
		}
		result := "ok"
		if !l.Success {
			result = "failed"
			if l.ErrorMessage != "" {
				result += ": " + l.ErrorMessage
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d/%d\t%s\n",
			l.ID, name, started, time.Duration(l.DurationMs)*time.Millisecond,
			l.CompletedSteps, l.TotalSteps, result)
	}
	return tw.Flush()
}

func renderStats(w io.Writer, resp *client.Response) error {
	var s model.ExecutionStats
	if err := resp.Bind(&s); err != nil {
		return err
	}
	fmt.Fprintf(w, "executions:   %d\n", s.TotalExecutions)
	fmt.Fprintf(w, "succeeded:    %d\n", s.SuccessCount)
	fmt.Fprintf(w, "failed:       %d\n", s.FailureCount)
	fmt.Fprintf(w, "success rate: %.1f%%\n", s.SuccessRate)
	return nil
}

func renderKnowledge(w io.Writer, resp *client.Response) error {
	var s model.KnowledgeStats
	if err := resp.Bind(&s); err != nil {
		return err
	}
	fmt.Fprintf(w, "exception cases:  %d\n", s.ExceptionCases)
	fmt.Fprintf(w, "element patterns: %d\n", s.ElementPatterns)
	if len(s.TopSolutions) == 0 {
		return nil
	}
	fmt.Fprintln(w, titleStyle.Render("Top solutions"))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ERROR\tSOLUTION\tSUCCESSES")
	for _, t := range s.TopSolutions {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", t.ErrorType, t.Solution, t.SuccessCount)
	}
	return tw.Flush()
}

func renderProbe(w io.Writer, r *probe.Report) error {
	fmt.Fprintln(w, titleStyle.Render("Probe "+r.RunID))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CHECK\tRUNS\tOK\tSTATUS\tTRANSPORT\tDECODE\tMAX")
	for _, s := range r.Summaries() {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%s\n", s.Check, s.Runs,
			s.Outcomes[probe.OutcomeOK], s.Outcomes[probe.OutcomeStatus],
			s.Outcomes[probe.OutcomeTransport], s.Outcomes[probe.OutcomeDecode],
			s.MaxTime.Round(time.Millisecond))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if d := r.Divergent(); len(d) > 0 {
		fmt.Fprintln(w, subtleStyle.Render(fmt.Sprintf("changed between reads: %v", d)))
	}
	summary := fmt.Sprintf("%d checks, %d failed, %s", len(r.Results), r.Failures(), r.Duration().Round(time.Millisecond))
	if r.Failures() > 0 {
		fmt.Fprintln(w, errorStyle.Render(summary))
	} else {
		fmt.Fprintln(w, successStyle.Render(summary))
	}
	return nil
}

type probeJSON struct {
	RunID      string         `json:"run_id"`
	DurationMs int64          `json:"duration_ms"`
	Failures   int            `json:"failures"`
	Divergent  []string       `json:"divergent"`
	Checks     []probeSummary `json:"checks"`
}

type probeSummary struct {
	Check    string         `json:"check"`
	Runs     int            `json:"runs"`
	Outcomes map[string]int `json:"outcomes"`
}

func printProbeJSON(w io.Writer, r *probe.Report) error {
	out := probeJSON{
		RunID:      r.RunID,
		DurationMs: r.Duration().Milliseconds(),
		Failures:   r.Failures(),
		Divergent:  r.Divergent(),
	}
	for _, s := range r.Summaries() {
		ps := probeSummary{Check: s.Check, Runs: s.Runs, Outcomes: make(map[string]int)}
		for o, n := range s.Outcomes {
			ps.Outcomes[string(o)] = n
		}
		out.Checks = append(out.Checks, ps)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
