package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/webodise/siteapi/internal/model"
	"github.com/webodise/siteapi/internal/service"
	"github.com/webodise/siteapi/internal/store"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin users",
		Long:  "Create and list administrative users who can manage the site through the admin API.",
	}

	cmd.AddCommand(newAdminCreateCmd())
	cmd.AddCommand(newAdminListCmd())

	return cmd
}

// ---------- admin create ----------

func newAdminCreateCmd() *cobra.Command {
	var (
		email    string
		password string
		role     string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new admin user",
		Example: `  siteapi admin create --email admin@example.com --password secret
  siteapi admin create --email admin@example.com  # prompts for password
  siteapi admin create --email boss@example.com --role superadmin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminCreate(email, password, role)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Admin email address (required)")
	cmd.Flags().StringVar(&password, "password", "", "Admin password (prompted if omitted)")
	cmd.Flags().StringVar(&role, "role", "admin", "Role: admin or superadmin")
	cmd.MarkFlagRequired("email")

	return cmd
}

func runAdminCreate(email, password, roleStr string) error {
	email = service.NormalizeEmail(email)
	if !strings.Contains(email, "@") {
		return fmt.Errorf("invalid email address: %q", email)
	}

	role, err := model.ParseRole(roleStr)
	if err != nil {
		return err
	}

	// Prompt for password if not provided
	if password == "" {
		fmt.Print("Password: ")
		pwBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Println()
		password = string(pwBytes)

		fmt.Print("Confirm password: ")
		confirmBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		fmt.Println()

		if password != string(confirmBytes) {
			return fmt.Errorf("passwords do not match")
		}
	}

	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	st, err := openStore()
	if err != nil {
		return fmt.Errorf("open data store: %w", err)
	}
	defer st.Close()

	salt, hash, err := service.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := &model.AdminUser{
		Email:        email,
		PasswordSalt: salt,
		PasswordHash: hash,
		Role:         role,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := st.CreateAdmin(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return fmt.Errorf("an admin with email %q already exists", email)
		}
		return fmt.Errorf("create admin: %w", err)
	}

	fmt.Printf("Created %s user %q\n", role, email)
	return nil
}

// ---------- admin list ----------

func newAdminListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all admin users",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminList(jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func runAdminList(jsonOutput bool) error {
	st, err := openStore()
	if err != nil {
		return fmt.Errorf("open data store: %w", err)
	}
	defer st.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	admins, err := st.ListAdminsExcept(ctx, "")
	if err != nil {
		return fmt.Errorf("list admins: %w", err)
	}

	type adminRow struct {
		Email   string `json:"email"`
		Role    string `json:"role"`
		Created string `json:"created"`
	}

	rows := make([]adminRow, 0, len(admins))
	for _, a := range admins {
		rows = append(rows, adminRow{
			Email:   a.Email,
			Role:    string(a.Role),
			Created: a.CreatedAt.Format("2006-01-02 15:04"),
		})
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	if len(rows) == 0 {
		fmt.Println("No admin users configured. Use 'siteapi admin create' to create one.")
		return nil
	}

	fmt.Printf("%-36s %-12s %-18s\n", "EMAIL", "ROLE", "CREATED")
	fmt.Printf("%-36s %-12s %-18s\n", "-----", "----", "-------")
	for _, row := range rows {
		fmt.Printf("%-36s %-12s %-18s\n", row.Email, row.Role, row.Created)
	}

	return nil
}
