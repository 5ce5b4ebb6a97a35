package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"runtime/debug"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/penthrey/penthrey-go/api"
	"github.com/penthrey/penthrey-go/credentials"
	"github.com/penthrey/penthrey-go/internal/config"
	"github.com/penthrey/penthrey-go/session"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %s\n", err)
	}
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	_ = godotenv.Load()

	c := config.New()
	logger := newLogger(c)

	store, err := credentials.NewFileStore(c.GetCredentialsFile())
	if err != nil {
		return fmt.Errorf("credentials.NewFileStore: %w", err)
	}

	client, err := api.New(c.GetAPIBaseURL(), store,
		api.WithLogger(logger),
		api.WithUserAgent("penthrey-cli"),
	)
	if err != nil {
		return fmt.Errorf("api.New: %w", err)
	}

	controller, err := session.NewController(client, store, session.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("session.NewController: %w", err)
	}

	if len(os.Args) < 2 {
		displayAppname(c.GetAppName())
		usage()
		return nil
	}

	ctx := context.Background()
	controller.Init(ctx)

	return dispatch(ctx, controller, client, os.Args[1], os.Args[2:])
}

func newLogger(c config.Config) zerolog.Logger {
	level := zerolog.WarnLevel
	if c.GetEnv() == "DEV" {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}

func usage() {
	fmt.Println(`Usage: penthrey <command> [flags]

Commands:
  login            Sign in with email and password
  register         Create a new account
  logout           Sign out and clear stored credentials
  whoami           Show the current user's profile
  dashboard        Show the dashboard summary
  org              Show the current organization
  members          List organization members
  invite           Invite a member to the organization
  stats            Show organization statistics
  reset-password   Request a password reset email
  verify-email     Verify an email address with a token`)
}
