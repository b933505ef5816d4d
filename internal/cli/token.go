package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/yigit/rankpredictor/internal/app/models"
	"github.com/yigit/rankpredictor/internal/pkg/auth"
)

func newTokenCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage operator access tokens",
	}

	var (
		subject string
		role    string
		ttl     time.Duration
	)
	issue := &cobra.Command{
		Use:   "issue",
		Short: "Sign an access token for the admin endpoints",
		Long: `Issue signs a JWT with the secret and issuer from the config file.
The token is printed on stdout so it can be captured by scripts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if ttl <= 0 {
				ttl, err = time.ParseDuration(cfg.JWT.AccessTokenExpiration)
				if err != nil || ttl <= 0 {
					ttl = time.Hour
				}
			}

			jwtService := auth.NewJWTService(auth.JWTConfig{
				SecretKey:      cfg.JWT.Secret,
				AccessTokenExp: ttl,
				TokenIssuer:    cfg.JWT.Issuer,
			})
			token, expiresIn, err := jwtService.GenerateToken(subject, models.RoleType(strings.ToUpper(role)))
			if err != nil {
				return fmt.Errorf("issuing token: %w", err)
			}

			if a.printer.JSON() {
				return a.printer.Encode(map[string]any{
					"accessToken": token,
					"tokenType":   "Bearer",
					"expiresIn":   expiresIn,
				})
			}
			a.printer.Print("%s", token)
			return nil
		},
	}
	issue.Flags().StringVar(&subject, "subject", "", "token subject, usually the operator's email")
	issue.Flags().StringVar(&role, "role", string(models.RoleOperator), "role claim")
	issue.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default: jwt.access_token_expiration)")
	_ = issue.MarkFlagRequired("subject")

	cmd.AddCommand(issue)
	return cmd
}
