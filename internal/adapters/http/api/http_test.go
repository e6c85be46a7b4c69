package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/rpaconsole/internal/adapters/http/api"
	"github.com/okian/rpaconsole/pkg/metrics"
)

type fixedStatus api.Status

func (f fixedStatus) Status(context.Context) api.Status { return api.Status(f) }

func TestServerRoutes(t *testing.T) {
	Convey("Given a console server with a stub proxy", t, func() {
		reg := prometheus.NewRegistry()
		m := metrics.NewManager(metrics.WithPrometheusRegistry(reg))

		var proxied []string
		proxy := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			proxied = append(proxied, r.Method+" "+r.URL.String())
			if strings.HasSuffix(r.URL.Path, "/missing") {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			_, _ = io.WriteString(w, "proxied")
		})

		srv, err := api.NewServer(
			api.WithProxy(proxy),
			api.WithGatherer(reg),
			api.WithMetrics(m),
			api.WithStatusProvider(fixedStatus{APIBase: "/api", Backend: "UP", BackendHealthy: true}),
		)
		So(err, ShouldBeNil)
		mux := http.NewServeMux()
		srv.Register(context.Background(), mux)

		serve := func(method, target string) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(method, target, http.NoBody))
			return w
		}

		Convey("When API calls arrive under the base", func() {
			post := serve(http.MethodPost, "/api/tasks/parse")
			get := serve(http.MethodGet, "/api/logs/recent?limit=20")

			Convey("Then they reach the proxy untouched", func() {
				So(post.Body.String(), ShouldEqual, "proxied")
				So(get.Code, ShouldEqual, http.StatusOK)
				So(proxied, ShouldResemble, []string{
					"POST /api/tasks/parse",
					"GET /api/logs/recent?limit=20",
				})
			})

			Convey("Then they are counted under api_proxy", func() {
				n, err := metrics.Sum(reg, "rpa_console_http_requests_total", map[string]string{"endpoint": "api_proxy"})
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 2.0)
			})
		})

		Convey("When the proxy reports an upstream failure", func() {
			w := serve(http.MethodGet, "/api/missing")

			Convey("Then the error is recorded by type", func() {
				So(w.Code, ShouldEqual, http.StatusBadGateway)
				n, _ := metrics.Sum(reg, "rpa_console_errors_by_endpoint_total", map[string]string{"error_type": "upstream_error"})
				So(n, ShouldEqual, 1.0)
			})
		})

		Convey("When /healthz is scraped", func() {
			serve(http.MethodGet, "/api/tasks/health")
			w := serve(http.MethodGet, "/healthz")

			Convey("Then the console metrics are exposed", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "rpa_console_http_requests_total")
			})
		})

		Convey("When /status is requested", func() {
			w := serve(http.MethodGet, "/status")

			Convey("Then the provider's view is returned as JSON", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldStartWith, "application/json")
				var st api.Status
				So(json.Unmarshal(w.Body.Bytes(), &st), ShouldBeNil)
				So(st.Backend, ShouldEqual, "UP")
				So(st.BackendHealthy, ShouldBeTrue)
			})
		})

		Convey("When a path outside the base is requested", func() {
			So(serve(http.MethodGet, "/apix").Code, ShouldEqual, http.StatusNotFound)
			So(len(proxied), ShouldEqual, 0)
		})
	})
}

func TestNewServer(t *testing.T) {
	Convey("Given server options", t, func() {
		Convey("When no proxy is set", func() {
			_, err := api.NewServer()
			So(errors.Is(err, api.ErrNoProxy), ShouldBeTrue)
		})

		Convey("When the base is not absolute", func() {
			_, err := api.NewServer(api.WithProxy(http.NotFoundHandler()), api.WithAPIBase("api"))
			So(errors.Is(err, api.ErrInvalidAPIBase), ShouldBeTrue)
		})

		Convey("When the base has a trailing slash", func() {
			s, err := api.NewServer(api.WithProxy(http.NotFoundHandler()), api.WithAPIBase("/rpa/api/"))
			So(err, ShouldBeNil)
			So(s.APIBase(), ShouldEqual, "/rpa/api")
		})

		Convey("When registering on a nil mux", func() {
			s, _ := api.NewServer(api.WithProxy(http.NotFoundHandler()))
			So(func() { s.Register(context.Background(), nil) }, ShouldPanic)
		})
	})
}
