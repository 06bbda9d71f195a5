package server

// Route path constants
const (
	RouteIndex = "/"

	// SSO flow
	RouteLogin    = "/auth/login"
	RouteCallback = "/auth/callback"
)
