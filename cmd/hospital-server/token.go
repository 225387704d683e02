package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/elettil/hospital/internal/platform/auth"
)

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an admin API token",
		RunE: func(cmd *cobra.Command, args []string) error {
			subject, _ := cmd.Flags().GetString("subject")
			roles, _ := cmd.Flags().GetStringSlice("role")
			ttl, _ := cmd.Flags().GetDuration("ttl")
			if subject == "" {
				return fmt.Errorf("--subject is required")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			token, err := auth.Issue(auth.JWTConfig{
				Issuer:     cfg.AdminJWTIssuer,
				SigningKey: []byte(cfg.AdminJWTSecret),
			}, subject, roles, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().String("subject", "", "Token subject, usually the editor's email")
	cmd.Flags().StringSlice("role", []string{"editor"}, "Roles to grant (admin, editor)")
	cmd.Flags().Duration("ttl", 12*time.Hour, "Token lifetime")
	return cmd
}
