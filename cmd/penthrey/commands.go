package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/penthrey/penthrey-go/api"
	"github.com/penthrey/penthrey-go/session"
)

// dispatch routes a subcommand to its handler. All protocol and session
// logic lives below in the session controller and API client; this layer
// only reads input and prints results.
func dispatch(ctx context.Context, controller *session.Controller, client *api.Client, command string, args []string) error {
	switch command {
	case "login":
		return cmdLogin(ctx, controller, args)
	case "register":
		return cmdRegister(ctx, controller, args)
	case "logout":
		controller.Logout(ctx)
		fmt.Println("Signed out.")
		return nil
	case "whoami":
		return cmdWhoami(controller)
	case "dashboard":
		return printEnvelope(client.Dashboard(ctx))
	case "org":
		return printEnvelope(client.Organization(ctx))
	case "members":
		return printEnvelope(client.Members(ctx))
	case "invite":
		return cmdInvite(ctx, client, args)
	case "stats":
		return printEnvelope(client.Stats(ctx))
	case "reset-password":
		return cmdResetPassword(ctx, client, args)
	case "verify-email":
		return cmdVerifyEmail(ctx, client, args)
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func cmdLogin(ctx context.Context, controller *session.Controller, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password (prompted when omitted)")
	fs.Parse(args)

	if *email == "" {
		*email = prompt("Email: ")
	}
	if *password == "" {
		*password = prompt("Password: ")
	}

	if !controller.Login(ctx, *email, *password) {
		return fmt.Errorf("login failed: %s", controller.LastError())
	}

	user := controller.CurrentUser()
	fmt.Printf("Signed in as %s (%s)\n", user.FullName, user.Email)
	return nil
}

func cmdRegister(ctx context.Context, controller *session.Controller, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	var data api.RegisterData
	fs.StringVar(&data.Email, "email", "", "account email")
	fs.StringVar(&data.Username, "username", "", "username")
	fs.StringVar(&data.FirstName, "first-name", "", "first name")
	fs.StringVar(&data.LastName, "last-name", "", "last name")
	fs.StringVar(&data.PhoneNumber, "phone", "", "phone number")
	fs.StringVar(&data.OrganizationName, "org", "", "organization name (owner registration)")
	fs.StringVar(&data.OrganizationInviteToken, "invite-token", "", "invite token (joining a team)")
	fs.Parse(args)

	data.Password = prompt("Password: ")
	data.PasswordConfirm = prompt("Confirm password: ")

	if !controller.Register(ctx, data) {
		return fmt.Errorf("registration failed: %s", controller.LastError())
	}

	if controller.IsAuthenticated() {
		fmt.Println("Welcome to the team! You are signed in.")
	} else {
		fmt.Println("Registered. Check your email to verify your account, then log in.")
	}
	return nil
}

func cmdWhoami(controller *session.Controller) error {
	if !controller.IsAuthenticated() {
		fmt.Println("Not signed in.")
		return nil
	}
	return printJSON(controller.CurrentUser())
}

func cmdInvite(ctx context.Context, client *api.Client, args []string) error {
	fs := flag.NewFlagSet("invite", flag.ExitOnError)
	email := fs.String("email", "", "email to invite")
	role := fs.String("role", string(api.RoleStaff), "role: admin, manager or staff")
	fs.Parse(args)

	return printEnvelope(client.InviteMember(ctx, *email, api.Role(*role)))
}

func cmdResetPassword(ctx context.Context, client *api.Client, args []string) error {
	fs := flag.NewFlagSet("reset-password", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	fs.Parse(args)

	if *email == "" {
		*email = prompt("Email: ")
	}
	return printEnvelope(client.RequestPasswordReset(ctx, *email))
}

func cmdVerifyEmail(ctx context.Context, client *api.Client, args []string) error {
	fs := flag.NewFlagSet("verify-email", flag.ExitOnError)
	token := fs.String("token", "", "verification token from the email")
	fs.Parse(args)

	if *token == "" {
		return fmt.Errorf("verify-email requires -token")
	}
	return printEnvelope(client.VerifyEmail(ctx, *token))
}

// printEnvelope renders a response envelope: data as JSON on success, the
// error (with any per-field detail) otherwise.
func printEnvelope[T any](resp api.Response[T]) error {
	if !resp.Ok() {
		for field, messages := range resp.Errors {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", field, strings.Join(messages, "; "))
		}
		return fmt.Errorf("%s", resp.Error)
	}
	if resp.Data == nil {
		return nil
	}
	return printJSON(resp.Data)
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func prompt(label string) string {
	fmt.Print(label)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}
