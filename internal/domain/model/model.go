// Package model contains domain models passed between layers. JSON keys
// follow the backend payloads so a client.Response can Bind straight into
// these types.
package model

import (
	"encoding/json"
	"fmt"
)

// Task is a saved automation task. ConfigJSON holds the step list as the
// backend stores it: a JSON document inside a string.
type Task struct {
	ID          int64     `json:"id,omitempty"`
	TaskName    string    `json:"taskName"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status,omitempty"`
	CreateUser  int64     `json:"createUser,omitempty"`
	CreateTime  Timestamp `json:"createTime,omitzero"`
	UpdateTime  Timestamp `json:"updateTime,omitzero"`
	ConfigJSON  string    `json:"configJson,omitempty"`
}

// Steps decodes ConfigJSON. An empty ConfigJSON yields no steps.
func (t Task) Steps() ([]Step, error) {
	if t.ConfigJSON == "" {
		return nil, nil
	}
	var steps []Step
	if err := json.Unmarshal([]byte(t.ConfigJSON), &steps); err != nil {
		return nil, fmt.Errorf("task %d config: %w", t.ID, err)
	}
	return steps, nil
}

// Step is one browser action. Required and RetryCount are pointers because
// the backend defaults them (true and 3) when absent.
type Step struct {
	StepID         int    `json:"stepId"`
	Action         Action `json:"action"`
	Target         string `json:"target,omitempty"`
	Value          string `json:"value,omitempty"`
	WaitTime       int    `json:"waitTime,omitempty"`
	Description    string `json:"description,omitempty"`
	FallbackTarget string `json:"fallbackTarget,omitempty"`
	Required       *bool  `json:"required,omitempty"`
	RetryCount     *int   `json:"retryCount,omitempty"`
}

// ExecutionResult is the reply to an execution request.
type ExecutionResult struct {
	Success         bool         `json:"success"`
	TotalSteps      int          `json:"totalSteps"`
	CompletedSteps  int          `json:"completedSteps"`
	ErrorMessage    string       `json:"errorMessage,omitempty"`
	StepResults     []StepResult `json:"stepResults"`
	FinalScreenshot []byte       `json:"finalScreenshot,omitempty"`
}

// Failed returns the step results that did not succeed, in order.
func (r ExecutionResult) Failed() []StepResult {
	var out []StepResult
	for _, s := range r.StepResults {
		if !s.Success {
			out = append(out, s)
		}
	}
	return out
}

type StepResult struct {
	StepID          int    `json:"stepId"`
	Success         bool   `json:"success"`
	Message         string `json:"message,omitempty"`
	ErrorMessage    string `json:"errorMessage,omitempty"`
	ExecutionTimeMs int64  `json:"executionTimeMs"`
}

// ExecutionLog is one stored run as returned by the log endpoints.
type ExecutionLog struct {
	ID              string         `json:"id"`
	TaskID          int64          `json:"taskId,omitempty"`
	TaskName        string         `json:"taskName,omitempty"`
	NaturalLanguage string         `json:"naturalLanguage,omitempty"`
	StartTime       Timestamp      `json:"startTime,omitzero"`
	EndTime         Timestamp      `json:"endTime,omitzero"`
	DurationMs      int64          `json:"durationMs"`
	Success         bool           `json:"success"`
	TotalSteps      int            `json:"totalSteps"`
	CompletedSteps  int            `json:"completedSteps"`
	ErrorMessage    string         `json:"errorMessage,omitempty"`
	ScreenshotPath  string         `json:"screenshotPath,omitempty"`
	StepLogs        []StepLog      `json:"stepLogs,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
}

type StepLog struct {
	StepID          int       `json:"stepId"`
	Action          Action    `json:"action"`
	Target          string    `json:"target,omitempty"`
	Success         bool      `json:"success"`
	Message         string    `json:"message,omitempty"`
	ErrorMessage    string    `json:"errorMessage,omitempty"`
	ExecutionTimeMs int64     `json:"executionTimeMs"`
	ExecuteTime     Timestamp `json:"executeTime,omitzero"`
}

// ExecutionStats aggregates the runs of one task. SuccessRate is a
// percentage in [0,100].
type ExecutionStats struct {
	TotalExecutions int64   `json:"totalExecutions"`
	SuccessCount    int64   `json:"successCount"`
	FailureCount    int64   `json:"failureCount"`
	SuccessRate     float64 `json:"successRate"`
}

// KnowledgeStats summarizes the knowledge graph.
type KnowledgeStats struct {
	ExceptionCases  int64         `json:"exceptionCases"`
	ElementPatterns int64         `json:"elementPatterns"`
	TopSolutions    []TopSolution `json:"topSolutions"`
}

type TopSolution struct {
	ErrorType    string `json:"errorType"`
	Solution     string `json:"solution"`
	SuccessCount int64  `json:"successCount"`
}
