package users

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Jashan32/talawa-api/internal/auth"
	"github.com/Jashan32/talawa-api/internal/config"
	"github.com/Jashan32/talawa-api/internal/db/bunx"
	"github.com/Jashan32/talawa-api/internal/db/models"
	"github.com/Jashan32/talawa-api/internal/repository"
	"github.com/Jashan32/talawa-api/internal/services/accounts"
)

var (
	emailFlag    string
	nameFlag     string
	passwordFlag string
	roleFlag     string
	stdinFlag    bool
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new account",
	Long: `Creates an account directly in the database, bypassing signUp and its
captcha check. Intended for bootstrapping the first administrator.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Validate required flags
		if emailFlag == "" {
			return fmt.Errorf("--email flag is required")
		}
		if nameFlag == "" {
			return fmt.Errorf("--name flag is required")
		}

		role := models.UserRole(roleFlag)
		if role != models.UserRoleAdministrator && role != models.UserRoleRegular {
			return fmt.Errorf("invalid role %q: must be %q or %q",
				roleFlag, models.UserRoleAdministrator, models.UserRoleRegular)
		}

		password := passwordFlag
		if stdinFlag {
			// Read password from stdin
			scanner := bufio.NewScanner(os.Stdin)
			fmt.Print("Enter password: ")
			if scanner.Scan() {
				password = scanner.Text()
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
		}
		if password == "" {
			return fmt.Errorf("password is required (use --password or --stdin)")
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		ctx := cmd.Context()
		db, err := bunx.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer bunx.Close(db)

		svc := accounts.NewService(
			repository.NewBunUserRepository(db),
			auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiresIn),
			slog.Default(),
		)

		user, err := svc.CreateUser(ctx, nameFlag, emailFlag, password, role)
		if err != nil {
			return fmt.Errorf("failed to create account: %w", err)
		}

		fmt.Println("Account created successfully!")
		fmt.Println("----------------------------------------")
		fmt.Printf("User ID: %s\n", user.ID)
		fmt.Printf("Email: %s\n", user.EmailAddress)
		fmt.Printf("Name: %s\n", user.Name)
		fmt.Printf("Role: %s\n", user.Role)
		fmt.Println("----------------------------------------")

		return nil
	},
}
