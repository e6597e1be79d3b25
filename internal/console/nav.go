package console

// Route paths for the console screens
const (
	RouteLogin     = "/login"
	RouteRegister  = "/register"
	RouteDashboard = "/dashboard"
	RouteUsers     = "/users"
	RouteSettings  = "/settings"
)

// Session exposes the authentication state the router guards on
type Session interface {
	IsAuthenticated() bool
}

// Router resolves requested paths against route guards. Protected routes
// require an authenticated session; public-only routes (login, register)
// bounce authenticated sessions to the dashboard. Unknown paths land on the
// dashboard.
type Router struct {
	session Session
}

// NewRouter creates a router guarded by the given session
func NewRouter(session Session) *Router {
	return &Router{session: session}
}

// Resolve returns the route that should actually be shown for path
func (r *Router) Resolve(path string) string {
	switch path {
	case RouteLogin, RouteRegister:
		if r.session.IsAuthenticated() {
			return RouteDashboard
		}
		return path
	case RouteDashboard, RouteUsers, RouteSettings:
		if !r.session.IsAuthenticated() {
			return RouteLogin
		}
		return path
	default:
		// "/" and anything unmatched land on the dashboard, which is
		// itself protected.
		return r.Resolve(RouteDashboard)
	}
}
