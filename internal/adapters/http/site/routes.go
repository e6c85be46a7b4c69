// Package site serves the console's navigation surface: two named routes,
// a redirect from / to the default one, and the views behind them.
package site

// Route names.
const (
	RouteTaskConfig = "task-config"
	RouteMonitor    = "monitor"
)

// Route is one navigable view.
type Route struct {
	Name    string
	Path    string
	Default bool
}

// Routes returns the navigation table. Exactly one route is the default.
func Routes() []Route {
	return []Route{
		{Name: RouteTaskConfig, Path: "/task-config", Default: true},
		{Name: RouteMonitor, Path: "/monitor"},
	}
}

// DefaultRoute returns the route / redirects to.
func DefaultRoute() Route {
	for _, r := range Routes() {
		if r.Default {
			return r
		}
	}
	return Routes()[0]
}

// Lookup finds a route by name.
func Lookup(name string) (Route, bool) {
	for _, r := range Routes() {
		if r.Name == name {
			return r, true
		}
	}
	return Route{}, false
}
