package token

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"karnex/internal/infrastructure/auth"
	"karnex/internal/infrastructure/config"
)

// NewCommand issues a signed bearer token. Users normally receive tokens
// from the account service; this is for operators and local testing.
func NewCommand() *cobra.Command {
	var (
		configPath string
		userID     uint
		role       string
		email      string
		ttl        time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == 0 {
				return fmt.Errorf("--user must be a positive id")
			}
			r := auth.Role(role)
			if r != auth.RoleUser && r != auth.RoleSupport && r != auth.RoleAdmin {
				return fmt.Errorf("unknown role %q", role)
			}

			cfg, err := config.Load("", configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			tok, err := auth.NewJWTService(cfg.Auth.JWT.Secret).Generate(userID, r, email, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tok)
			return err
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().UintVarP(&userID, "user", "u", 0, "User id (required)")
	cmd.Flags().StringVarP(&role, "role", "r", string(auth.RoleUser), "Role: user, support or admin")
	cmd.Flags().StringVar(&email, "email", "", "Email embedded in the token")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")

	return cmd
}
