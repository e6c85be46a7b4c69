package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/okian/rpaconsole/pkg/logger"
)

// ParseTask posts a natural-language task description as plain text and
// returns the backend's parsed task.
func (c *Client) ParseTask(ctx context.Context, naturalLanguage string) (*Response, error) {
	return c.do(ctx, "tasks_parse", "/tasks/parse", RequestOptions{
		Method:  http.MethodPost,
		Headers: map[string]string{headerContentType: mimeText},
		Body:    []byte(naturalLanguage),
	})
}

// SaveTask posts task serialized as JSON.
func (c *Client) SaveTask(ctx context.Context, task any) (*Response, error) {
	return c.postJSON(ctx, "tasks_save", "/tasks/save", task)
}

// GetTask fetches one task by its opaque id. The id is path-escaped so it
// always fills exactly one segment: "a/b" is sent as "a%2Fb", and an id that
// is already escaped gets escaped again. The other id-taking endpoints
// (ExecuteTask, GetTaskLogs, GetExecutionStats) do the same.
func (c *Client) GetTask(ctx context.Context, id string) (*Response, error) {
	return c.do(ctx, "tasks_get", "/tasks/"+url.PathEscape(id), RequestOptions{})
}

// HealthCheck bypasses the facade: the body comes back as text even when
// the status is an error.
func (c *Client) HealthCheck(ctx context.Context) (string, error) {
	return c.fetchText(ctx, "tasks_health", "/tasks/health")
}

// TestAI asks the AI backend a question. Like HealthCheck it bypasses the
// facade and returns the raw text whatever the status.
func (c *Client) TestAI(ctx context.Context, question string) (string, error) {
	return c.fetchText(ctx, "test_ai", "/test/ai?question="+EncodeURIComponent(question))
}

// Ping is the backend's liveness probe; bypasses the facade.
func (c *Client) Ping(ctx context.Context) (string, error) {
	return c.fetchText(ctx, "test_ping", "/test/ping")
}

// ExecuteTask runs a saved task.
func (c *Client) ExecuteTask(ctx context.Context, id string) (*Response, error) {
	return c.do(ctx, "execution_task", "/execution/task/"+url.PathEscape(id), RequestOptions{Method: http.MethodPost})
}

// ExecuteSteps runs an ad-hoc step list without saving a task.
func (c *Client) ExecuteSteps(ctx context.Context, steps any) (*Response, error) {
	return c.postJSON(ctx, "execution_steps", "/execution/steps", steps)
}

// CloseBrowser asks the backend to release its browser session.
func (c *Client) CloseBrowser(ctx context.Context) (*Response, error) {
	return c.do(ctx, "execution_close", "/execution/close", RequestOptions{Method: http.MethodPost})
}

// GetRecentLogs lists the latest executions. A limit of zero or less uses
// the client's default limit.
func (c *Client) GetRecentLogs(ctx context.Context, limit int) (*Response, error) {
	if limit <= 0 {
		limit = c.defaultLimit
	}
	return c.do(ctx, "logs_recent", "/logs/recent?limit="+strconv.Itoa(limit), RequestOptions{})
}

// GetTaskLogs lists the execution history of one task.
func (c *Client) GetTaskLogs(ctx context.Context, id string) (*Response, error) {
	return c.do(ctx, "logs_task", "/logs/task/"+url.PathEscape(id), RequestOptions{})
}

// GetExecutionStats returns success/failure counts for one task.
func (c *Client) GetExecutionStats(ctx context.Context, id string) (*Response, error) {
	return c.do(ctx, "logs_stats", "/logs/stats/"+url.PathEscape(id), RequestOptions{})
}

// GetKnowledgeGraphStats returns knowledge-graph counters.
func (c *Client) GetKnowledgeGraphStats(ctx context.Context) (*Response, error) {
	return c.do(ctx, "kg_stats", "/kg/stats", RequestOptions{})
}

// TriggerLearning asks the knowledge graph to run a learning pass.
func (c *Client) TriggerLearning(ctx context.Context) (*Response, error) {
	return c.do(ctx, "kg_learn", "/kg/learn", RequestOptions{Method: http.MethodPost})
}

func (c *Client) postJSON(ctx context.Context, endpoint, path string, v any) (*Response, error) {
	body, err := json.Marshal(v)
	if err != nil {
		err = fmt.Errorf("%w: %s: %v", ErrEncode, endpoint, err)
		c.metrics.RecordAPIError(endpoint, errorKind(err))
		c.logger.Error(ctx, "api request not sent", logger.String("endpoint", endpoint), logger.Error(err))
		return nil, err
	}
	return c.do(ctx, endpoint, path, RequestOptions{Method: http.MethodPost, Body: body})
}

// uriReplacer restores the characters encodeURIComponent leaves alone but
// url.QueryEscape escapes, and spells spaces as %20.
var uriReplacer = strings.NewReplacer( //nolint:gochecknoglobals // immutable replacer
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeURIComponent escapes s for use as a single query value, matching
// the browser function of the same name.
func EncodeURIComponent(s string) string {
	return uriReplacer.Replace(url.QueryEscape(s))
}
