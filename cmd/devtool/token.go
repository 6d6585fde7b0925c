package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"vcissuer/pkg/domain"
	"vcissuer/pkg/platform/middleware/caller"
)

type tokenOutput struct {
	Token     string            `json:"token"`
	Type      string            `json:"type"`
	ExpiresIn string            `json:"expires_in"`
	Usage     map[string]string `json:"usage"`
}

func newTokenCmd() *cobra.Command {
	var (
		subject  string
		key      string
		audience string
		ttl      time.Duration
	)
	cmd := &cobra.Command{
		Use:     "token",
		Short:   "Mint a caller bearer token",
		Example: `  devtool token --subject 2mg2s-uqaaa-aaaaa-aaaaq-cai`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			principal, err := domain.ParsePrincipal(subject)
			if err != nil {
				return fmt.Errorf("subject: %w", err)
			}
			token, err := caller.NewTokens(key, audience, ttl).Issue(principal, time.Now())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), tokenOutput{
				Token:     token,
				Type:      "Bearer",
				ExpiresIn: ttl.String(),
				Usage: map[string]string{
					"header": "Authorization: Bearer " + token,
					"curl":   fmt.Sprintf("curl -H 'Authorization: Bearer %s' -X POST http://localhost:8080/register", token),
				},
			})
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "Caller principal")
	cmd.Flags().StringVar(&key, "key", devCallerTokenKey, "HS256 key, AUTH_CALLER_TOKEN_KEY on the server")
	cmd.Flags().StringVar(&audience, "audience", "", "Token audience, if the server checks one")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "Token time-to-live")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}
