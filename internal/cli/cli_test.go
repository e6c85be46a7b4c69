package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

// backend is a stand-in for the RPA API mounted under /api.
type backend struct {
	mu        sync.Mutex
	lastLimit string
	lastBody  []byte
}

func (b *backend) record(limit string, body []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if limit != "" {
		b.lastLimit = limit
	}
	if body != nil {
		b.lastBody = body
	}
}

func (b *backend) limit() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastLimit
}

func (b *backend) body() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastBody
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, body)
}

const taskJSON = `{"id":7,"taskName":"search","status":"ACTIVE",` +
	`"configJson":"[{\"stepId\":1,\"action\":\"open_url\",\"target\":\"https://example.com\"},` +
	`{\"stepId\":2,\"action\":\"input\",\"target\":\"#q\",\"value\":\"go\"}]"}`

func (b *backend) server() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/tasks/parse", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		b.record("", body)
		writeJSON(w, taskJSON)
	})
	mux.HandleFunc("POST /api/tasks/save", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		b.record("", body)
		writeJSON(w, taskJSON)
	})
	mux.HandleFunc("GET /api/tasks/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, "DOWN")
	})
	mux.HandleFunc("GET /api/tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "7" {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, taskJSON)
	})
	mux.HandleFunc("GET /api/test/ai", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "Q: "+r.URL.Query().Get("question"))
	})
	mux.HandleFunc("GET /api/test/ping", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "pong\n")
	})
	mux.HandleFunc("POST /api/execution/steps", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		b.record("", body)
		writeJSON(w, `{"success":true,"totalSteps":1,"completedSteps":1,`+
			`"stepResults":[{"stepId":1,"success":true,"message":"done","executionTimeMs":12}]}`)
	})
	mux.HandleFunc("POST /api/execution/task/{id}", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, `{"success":false,"totalSteps":2,"completedSteps":1,"errorMessage":"element not found",`+
			`"stepResults":[{"stepId":1,"success":true,"executionTimeMs":5},`+
			`{"stepId":2,"success":false,"errorMessage":"#q missing","executionTimeMs":30}]}`)
	})
	mux.HandleFunc("POST /api/execution/close", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, `{"message":"browser closed"}`)
	})
	mux.HandleFunc("GET /api/logs/recent", func(w http.ResponseWriter, r *http.Request) {
		b.record(r.URL.Query().Get("limit"), nil)
		writeJSON(w, `[{"id":"exec-1","taskId":7,"taskName":"search","startTime":"2024-05-01T10:00:00",`+
			`"durationMs":1500,"success":true,"totalSteps":2,"completedSteps":2},`+
			`{"id":"exec-2","taskId":7,"durationMs":300,"success":false,"totalSteps":2,"completedSteps":1,`+
			`"errorMessage":"timeout"}]`)
	})
	mux.HandleFunc("GET /api/logs/task/{id}", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, `[]`)
	})
	mux.HandleFunc("GET /api/logs/stats/{id}", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, `{"totalExecutions":4,"successCount":3,"failureCount":1,"successRate":75}`)
	})
	mux.HandleFunc("GET /api/kg/stats", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, `{"exceptionCases":3,"elementPatterns":9,`+
			`"topSolutions":[{"errorType":"NoSuchElement","solution":"wait longer","successCount":5}]}`)
	})
	mux.HandleFunc("POST /api/kg/learn", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain;charset=UTF-8")
		_, _ = io.WriteString(w, "learning started")
	})
	return httptest.NewServer(mux)
}

type result struct {
	code   int
	stdout string
	stderr string
}

func invoke(srv *httptest.Server, stdin string, args ...string) result {
	var out, errOut bytes.Buffer
	full := append([]string{"--origin", srv.URL, "--base", "/api"}, args...)
	code := run(context.Background(), full, strings.NewReader(stdin), &out, &errOut)
	return result{code: code, stdout: out.String(), stderr: errOut.String()}
}

func TestTaskCommands(t *testing.T) {
	Convey("Given a running backend", t, func() {
		b := &backend{}
		srv := b.server()
		defer srv.Close()

		Convey("parse joins its arguments and renders the parsed task", func() {
			r := invoke(srv, "", "parse", "open", "example.com", "and", "search")
			So(r.code, ShouldEqual, ExitOK)
			So(string(b.body()), ShouldEqual, "open example.com and search")
			So(r.stdout, ShouldContainSubstring, "search")
			So(r.stdout, ShouldContainSubstring, "steps:   2")
			So(r.stdout, ShouldContainSubstring, "open_url")
			So(r.stdout, ShouldContainSubstring, "#q = go")
		})

		Convey("get with -o json pretty-prints the body", func() {
			r := invoke(srv, "", "-o", "json", "get", "7")
			So(r.code, ShouldEqual, ExitOK)
			So(r.stdout, ShouldContainSubstring, "\n  \"taskName\": \"search\"")

			var task map[string]any
			So(json.Unmarshal([]byte(r.stdout), &task), ShouldBeNil)
			So(task["id"], ShouldEqual, 7.0)
		})

		Convey("get of a missing task exits with the status code", func() {
			r := invoke(srv, "", "get", "99")
			So(r.code, ShouldEqual, ExitHTTPStatus)
			So(r.stdout, ShouldBeEmpty)
			So(r.stderr, ShouldContainSubstring, "Error:")
			So(r.stderr, ShouldContainSubstring, "404")
		})

		Convey("save reads the task from standard input", func() {
			r := invoke(srv, ` {"taskName":"search","configJson":"[]"} `, "save", "-")
			So(r.code, ShouldEqual, ExitOK)
			So(string(b.body()), ShouldEqual, `{"taskName":"search","configJson":"[]"}`)
		})

		Convey("save reads the task from a file", func() {
			path := filepath.Join(t.TempDir(), "task.json")
			So(os.WriteFile(path, []byte(`{"taskName":"from file"}`), 0o600), ShouldBeNil)

			r := invoke(srv, "", "save", path)
			So(r.code, ShouldEqual, ExitOK)
			So(string(b.body()), ShouldEqual, `{"taskName":"from file"}`)
		})

		Convey("save rejects input that is not JSON", func() {
			r := invoke(srv, "not json", "save", "-")
			So(r.code, ShouldEqual, ExitError)
			So(r.stderr, ShouldContainSubstring, "not valid JSON")
		})

		Convey("save rejects empty input", func() {
			r := invoke(srv, "  ", "save", "-")
			So(r.code, ShouldEqual, ExitError)
			So(r.stderr, ShouldContainSubstring, "empty input")
		})

		Convey("health prints the body even on an error status", func() {
			r := invoke(srv, "", "health")
			So(r.code, ShouldEqual, ExitOK)
			So(r.stdout, ShouldEqual, "DOWN\n")
		})

		Convey("ask sends the whole question", func() {
			r := invoke(srv, "", "ask", "what", "is", "2+2?")
			So(r.code, ShouldEqual, ExitOK)
			So(r.stdout, ShouldEqual, "Q: what is 2+2?\n")
		})

		Convey("ping keeps an existing trailing newline", func() {
			r := invoke(srv, "", "ping")
			So(r.code, ShouldEqual, ExitOK)
			So(r.stdout, ShouldEqual, "pong\n")
		})

		Convey("an unknown output format is rejected before any call", func() {
			r := invoke(srv, "", "-o", "yaml", "ping")
			So(r.code, ShouldEqual, ExitError)
			So(r.stdout, ShouldBeEmpty)
			So(r.stderr, ShouldContainSubstring, "unknown output format")
		})
	})
}

func TestExecutionCommands(t *testing.T) {
	Convey("Given a running backend", t, func() {
		b := &backend{}
		srv := b.server()
		defer srv.Close()

		Convey("steps warns about unknown actions and still sends them", func() {
			in := `[{"stepId":1,"action":"hover","target":"#menu"}]`
			r := invoke(srv, in, "steps", "-")
			So(r.code, ShouldEqual, ExitOK)
			So(string(b.body()), ShouldEqual, in)
			So(r.stderr, ShouldContainSubstring, "unknown step action")
			So(r.stdout, ShouldContainSubstring, "Execution succeeded")
			So(r.stdout, ShouldContainSubstring, "steps: 1/1")
		})

		Convey("steps requires an array", func() {
			r := invoke(srv, `{"stepId":1}`, "steps", "-")
			So(r.code, ShouldEqual, ExitError)
			So(r.stderr, ShouldContainSubstring, "array of steps")
		})

		Convey("exec renders failed steps", func() {
			r := invoke(srv, "", "exec", "7")
			So(r.code, ShouldEqual, ExitOK)
			So(r.stdout, ShouldContainSubstring, "Execution failed")
			So(r.stdout, ShouldContainSubstring, "steps: 1/2")
			So(r.stdout, ShouldContainSubstring, "error: element not found")
			So(r.stdout, ShouldContainSubstring, "#q missing")
		})

		Convey("close falls back to indented JSON", func() {
			r := invoke(srv, "", "close")
			So(r.code, ShouldEqual, ExitOK)
			So(r.stdout, ShouldEqual, "{\n  \"message\": \"browser closed\"\n}\n")
		})
	})
}

func TestLogCommands(t *testing.T) {
	Convey("Given a running backend", t, func() {
		b := &backend{}
		srv := b.server()
		defer srv.Close()

		Convey("logs recent uses the default limit", func() {
			r := invoke(srv, "", "logs", "recent")
			So(r.code, ShouldEqual, ExitOK)
			So(b.limit(), ShouldEqual, "20")
			So(r.stdout, ShouldContainSubstring, "exec-1")
			So(r.stdout, ShouldContainSubstring, "2024-05-01 10:00:00")
			So(r.stdout, ShouldContainSubstring, "1.5s")
			So(r.stdout, ShouldContainSubstring, "failed: timeout")
		})

		Convey("logs recent passes an explicit limit", func() {
			r := invoke(srv, "", "logs", "recent", "--limit", "5")
			So(r.code, ShouldEqual, ExitOK)
			So(b.limit(), ShouldEqual, "5")
		})

		Convey("logs task reports an empty history", func() {
			r := invoke(srv, "", "logs", "task", "7")
			So(r.code, ShouldEqual, ExitOK)
			So(r.stdout, ShouldContainSubstring, "No executions.")
		})

		Convey("stats prints the success rate", func() {
			r := invoke(srv, "", "stats", "7")
			So(r.code, ShouldEqual, ExitOK)
			So(r.stdout, ShouldContainSubstring, "executions:   4")
			So(r.stdout, ShouldContainSubstring, "success rate: 75.0%")
		})

		Convey("kg stats lists top solutions", func() {
			r := invoke(srv, "", "kg", "stats")
			So(r.code, ShouldEqual, ExitOK)
			So(r.stdout, ShouldContainSubstring, "element patterns: 9")
			So(r.stdout, ShouldContainSubstring, "NoSuchElement")
			So(r.stdout, ShouldContainSubstring, "wait longer")
		})

		Convey("kg learn prints the text reply verbatim", func() {
			r := invoke(srv, "", "-o", "json", "kg", "learn")
			So(r.code, ShouldEqual, ExitOK)
			So(r.stdout, ShouldEqual, "learning started\n")
		})
	})
}

func TestProbeCommand(t *testing.T) {
	Convey("Given a running backend", t, func() {
		b := &backend{}
		srv := b.server()
		defer srv.Close()

		Convey("a clean probe exits zero", func() {
			r := invoke(srv, "", "probe", "--workers", "2", "--repeat", "2", "--task", "7")
			So(r.code, ShouldEqual, ExitOK)
			So(r.stdout, ShouldContainSubstring, "task:7")
			So(r.stdout, ShouldContainSubstring, "10 checks, 0 failed")
		})

		Convey("failed checks are reported and exit non-zero", func() {
			r := invoke(srv, "", "-o", "json", "probe", "--repeat", "1", "--task", "7", "--task", "99")
			So(r.code, ShouldEqual, ExitError)
			So(r.stderr, ShouldContainSubstring, "probe checks failed")

			var report probeJSON
			So(json.Unmarshal([]byte(r.stdout), &report), ShouldBeNil)
			So(report.Failures, ShouldEqual, 1)
			So(len(report.Checks), ShouldEqual, 6)
			for _, c := range report.Checks {
				if c.Check == "task:99" {
					So(c.Outcomes["status"], ShouldEqual, 1)
				}
			}
		})
	})
}
