package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/respcache/auth"
)

func tokenCmd(configPath *string) *cobra.Command {
	var (
		subject string
		roles   []string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the admin endpoint",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadAdmin(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			if len(roles) == 0 {
				roles = []string{cfg.Admin.Role}
			}

			token, err := auth.IssueToken(auth.JWTConfig{
				Secret: []byte(cfg.Admin.JWTSecret),
				Issuer: cfg.Admin.Issuer,
			}, subject, roles, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "operator", "Token subject")
	cmd.Flags().StringSliceVar(&roles, "role", nil, "Roles to grant (default: admin.role)")
	cmd.Flags().DurationVar(&ttl, "ttl", 15*time.Minute, "Token lifetime")
	return cmd
}
