package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/insighthub/cli/internal/api"
	"github.com/insighthub/cli/internal/config"
	"github.com/spf13/cobra"
)

var (
	flagEmail    string
	flagPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to InsightHub",
	Long:  "Authenticate against the InsightHub server. The session cookie is stored locally so subsequent commands stay signed in.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		email := flagEmail
		password := flagPassword
		reader := bufio.NewReader(os.Stdin)
		if email == "" {
			fmt.Print("Email: ")
			line, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("reading email: %w", err)
			}
			email = strings.TrimSpace(line)
		}
		if password == "" {
			fmt.Print("Password: ")
			line, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("reading password: %w", err)
			}
			password = strings.TrimSpace(line)
		}

		client, err := api.NewClient(cfg.Server.URL, config.SessionPath())
		if err != nil {
			return fmt.Errorf("creating client: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		user, err := client.Login(ctx, email, password)
		if err != nil {
			if api.IsUnauthorized(err) {
				return fmt.Errorf("login failed: invalid email or password")
			}
			return fmt.Errorf("login failed: %w", err)
		}

		fmt.Printf("Logged in as %s <%s>\n", user.Name, user.Email)
		return nil
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an InsightHub account",
	RunE: func(cmd *cobra.Command, args []string) error {
		reader := bufio.NewReader(os.Stdin)
		prompt := func(label string) (string, error) {
			fmt.Print(label + ": ")
			line, err := reader.ReadString('\n')
			if err != nil {
				return "", fmt.Errorf("reading %s: %w", strings.ToLower(label), err)
			}
			return strings.TrimSpace(line), nil
		}

		name, err := prompt("Name")
		if err != nil {
			return err
		}
		email := flagEmail
		if email == "" {
			if email, err = prompt("Email"); err != nil {
				return err
			}
		}
		password := flagPassword
		if password == "" {
			if password, err = prompt("Password"); err != nil {
				return err
			}
		}

		client, err := newClient()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := client.Signup(ctx, name, email, password); err != nil {
			return fmt.Errorf("signup failed: %w", err)
		}

		fmt.Println("Account created. Run `insighthub login` to sign in.")
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and discard the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		client, err := api.NewClient(cfg.Server.URL, config.SessionPath())
		if err != nil {
			return fmt.Errorf("creating client: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := client.Logout(ctx); err != nil {
			// The local session is gone either way
			fmt.Printf("Warning: server logout failed: %v\n", err)
		}
		fmt.Println("Logged out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		client, err := api.NewClient(cfg.Server.URL, config.SessionPath())
		if err != nil {
			return fmt.Errorf("creating client: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		user, err := client.Me(ctx)
		if err != nil {
			if api.IsUnauthorized(err) {
				return fmt.Errorf("not logged in; run `insighthub login` first")
			}
			return fmt.Errorf("checking session: %w", err)
		}

		fmt.Printf("%s <%s>\n", user.Name, user.Email)
		if !user.CreatedAt.IsZero() {
			fmt.Printf("Member since %s\n", user.CreatedAt.Format("January 2, 2006"))
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, signupCmd} {
		c.Flags().StringVar(&flagEmail, "email", "", "account email")
		c.Flags().StringVar(&flagPassword, "password", "", "account password (prompted when omitted)")
	}
}
