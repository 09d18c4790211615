package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"pinfeed/pkg/auth"
	"pinfeed/pkg/config"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Pinterest session credentials",
	Long: `Manage stored Pinterest session credentials.

Credentials are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables (read-only, highest precedence)

For cron deployments, set PINFEED_SESSION_<USER_ID> instead of storing
credentials interactively. Never share your session cookie!`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login [user-id]",
	Short: "Store a Pinterest session credential securely",
	Long: `Store a Pinterest session credential for a user id from the feeds file.

You will be prompted for:
  - User id (if not provided)
  - Session cookie (the _pinterest_sess cookie value), or
  - Email and password for form login when no cookie is available

To get the session cookie:
1. Log into Pinterest in your browser
2. Open Developer Tools (F12)
3. Go to Application/Storage > Cookies > pinterest.com
4. Copy the _pinterest_sess value`,
	Example: `  # Interactive login
  pinfeed auth login

  # Login for a specific user id
  pinfeed auth login alice`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:   "logout <user-id>",
	Short: "Remove a stored session credential",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogout,
}

// listCmd represents the auth list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored credentials with secrets masked",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(listCmd)
}

func newCredentialManager() (*auth.Manager, error) {
	cfg, err := config.Load(configFile, globalFlags())
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return auth.NewManager(cfg.Pinterest.SessionEnvPrefix)
}

func runLogin(cmd *cobra.Command, args []string) error {
	manager, err := newCredentialManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	reader := bufio.NewReader(os.Stdin)

	var userID string
	if len(args) > 0 {
		userID = args[0]
	} else {
		fmt.Print("User id: ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read user id: %w", err)
		}
		userID = strings.TrimSpace(input)
	}
	if userID == "" {
		return fmt.Errorf("user id is required")
	}

	fmt.Print("Session cookie (leave empty to use email/password): ")
	cookieBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read session cookie: %w", err)
	}
	cookie := strings.TrimSpace(string(cookieBytes))

	session := &auth.Session{UserID: userID, Cookie: cookie}

	if cookie == "" {
		fmt.Print("Email: ")
		email, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read email: %w", err)
		}
		session.Email = strings.TrimSpace(email)

		fmt.Print("Password: ")
		passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		session.Password = strings.TrimSpace(string(passwordBytes))
	}

	if err := manager.Store(session); err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}

	fmt.Printf("Credential stored for %s\n", userID)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	manager, err := newCredentialManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	userID := strings.TrimSpace(args[0])
	if err := manager.Delete(userID); err != nil {
		return fmt.Errorf("failed to remove credential: %w", err)
	}

	fmt.Printf("Credential removed for %s\n", userID)
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	manager, err := newCredentialManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	sessions, err := manager.List()
	if err != nil {
		return fmt.Errorf("failed to list credentials: %w", err)
	}
	if len(sessions) == 0 {
		fmt.Println("No stored credentials. Use 'pinfeed auth login' to add one.")
		return nil
	}

	for _, session := range sessions {
		clean := auth.Sanitize(session)
		line := fmt.Sprintf("%-20s cookie=%s", clean.UserID, valueOrDash(clean.Cookie))
		if clean.Email != "" {
			line += fmt.Sprintf(" email=%s", clean.Email)
		}
		if !clean.LastModified.IsZero() {
			line += fmt.Sprintf(" updated=%s", clean.LastModified.Format("2006-01-02"))
		}
		fmt.Println(line)
	}
	return nil
}

func valueOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
