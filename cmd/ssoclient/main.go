package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-sso-client/internal/config"
	"github.com/jrsteele09/go-sso-client/navigator"
	"github.com/jrsteele09/go-sso-client/server"
	"github.com/jrsteele09/go-sso-client/ssoclient"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	envFile := flag.String("env-file", ".env", "dotenv file loaded before the environment is parsed")
	openBrowser := flag.Bool("open", false, "open the login page in the default browser once listening")
	flag.Parse()

	if err := run(*envFile, *openBrowser); err != nil {
		log.Fatal().Err(err).Msg("Error running server")
	}
	log.Info().Msg("Server stopped")
}

func run(envFile string, openBrowser bool) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	c, err := config.Load(envFile)
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}
	setupLogging(c)
	displayAppname(c.GetAppName())

	sso, err := newSSOClient(c)
	if err != nil {
		return err
	}

	handler, err := server.New(c, sso)
	if err != nil {
		return err
	}

	srv := &http.Server{Addr: c.GetPort(), Handler: handler}
	errs := make(chan error, 1)
	go func() {
		errs <- listenAndServe(srv)
	}()

	if openBrowser {
		loginURL := c.GetOrigin() + server.RouteLogin
		if err := (navigator.BrowserNavigator{}).Navigate(context.Background(), loginURL); err != nil {
			log.Warn().Err(err).Str("url", loginURL).Msg("Could not open browser")
		}
	}

	select {
	case err := <-errs:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(srv)
}

func newSSOClient(c config.Config) (*ssoclient.Client, error) {
	opts := []ssoclient.Option{
		ssoclient.WithLogger(log.Logger.With().Str("component", "ssoclient").Logger()),
		ssoclient.WithHTTPClient(&http.Client{Timeout: c.GetExchangeTimeout()}),
	}

	if jwksURL := c.GetJWKSURL(); jwksURL != "" {
		verifier, err := ssoclient.NewJWKSVerifier(context.Background(), c.GetIssuer(), jwksURL, c.GetAudience())
		if err != nil {
			return nil, fmt.Errorf("ssoclient.NewJWKSVerifier: %w", err)
		}
		opts = append(opts, ssoclient.WithTokenVerifier(verifier))
	}

	sso, err := ssoclient.New(c.ClientConfig(), opts...)
	if err != nil {
		return nil, fmt.Errorf("ssoclient.New: %w", err)
	}
	return sso, nil
}

func setupLogging(c config.Config) {
	level, err := zerolog.ParseLevel(c.GetLogLevel())
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if c.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func listenAndServe(server *http.Server) error {
	log.Info().Msgf("Server listening on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
