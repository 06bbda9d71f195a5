package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-sso-client/internal/config"
	"github.com/jrsteele09/go-sso-client/ssoclient"
	"github.com/rs/zerolog/log"
)

// Server hosts the browser-facing half of the SSO flow: it turns the login and
// callback routes into calls on the ssoclient.Client, with cookies standing in
// for the browser's storage.
type Server struct {
	env    string // Environment (e.g., "DEV", "PROD")
	mux    *http.ServeMux
	routes []string
	config config.Config
	sso    *ssoclient.Client
}

func New(config config.Config, sso *ssoclient.Client) (*Server, error) {
	if sso == nil {
		return nil, fmt.Errorf("[Server New] sso client is required")
	}

	s := &Server{
		mux:    http.NewServeMux(),
		config: config,
		sso:    sso,
	}
	s.env = config.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// Routes lists the registered patterns in registration order
func (s *Server) Routes() []string {
	return append([]string(nil), s.routes...)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	log.Info().Msgf("[%s] %s", colourize(method, fmt.Sprintf(" %-7s", method)), path)
}
