package probe

import (
	"context"
	"errors"

	"github.com/okian/rpaconsole/internal/adapters/http/client"
)

// Outcome classifies one check execution.
type Outcome string

// Outcomes.
const (
	OutcomeOK        Outcome = "ok"
	OutcomeStatus    Outcome = "status"
	OutcomeTransport Outcome = "transport"
	OutcomeDecode    Outcome = "decode"
	OutcomeOther     Outcome = "other"
)

// Check is one read-only call against the backend. Call returns the body it
// saw so repeated runs can be compared.
type Check struct {
	Name string
	Call func(ctx context.Context, c *client.Client) (string, error)
}

// Checks builds the check list for cfg: the two bypass endpoints, recent
// logs, knowledge-graph stats, and one GetTask per configured id.
func Checks(cfg Config) []Check {
	checks := []Check{
		{Name: "health", Call: func(ctx context.Context, c *client.Client) (string, error) {
			return c.HealthCheck(ctx)
		}},
		{Name: "ping", Call: func(ctx context.Context, c *client.Client) (string, error) {
			return c.Ping(ctx)
		}},
		{Name: "logs_recent", Call: func(ctx context.Context, c *client.Client) (string, error) {
			return body(c.GetRecentLogs(ctx, cfg.Limit))
		}},
		{Name: "kg_stats", Call: func(ctx context.Context, c *client.Client) (string, error) {
			return body(c.GetKnowledgeGraphStats(ctx))
		}},
	}
	for _, id := range cfg.TaskIDs {
		checks = append(checks, Check{
			Name: "task:" + id,
			Call: func(ctx context.Context, c *client.Client) (string, error) {
				return body(c.GetTask(ctx, id))
			},
		})
	}
	return checks
}

func body(resp *client.Response, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// Classify maps a call error onto an Outcome.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, client.ErrHTTPStatus):
		return OutcomeStatus
	case errors.Is(err, client.ErrDecode):
		return OutcomeDecode
	case errors.Is(err, client.ErrTransport):
		return OutcomeTransport
	default:
		return OutcomeOther
	}
}
