package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"vcissuer/internal/idalias"
	"vcissuer/internal/issuance/certifier"
	"vcissuer/pkg/domain"
)

func newAliasCmd() *cobra.Command {
	var (
		authorityID string
		seed        string
		subject     string
		alias       string
		validity    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "alias",
		Short: "Mint a signed id alias",
		Long: `Mint a signed id alias binding --subject to --alias, signed by the
authority whose seed was produced by "devtool keys".`,
		Example: `  devtool alias --seed <seed> --subject 2mg2s-uqaaa-aaaaa-aaaaq-cai --alias jkk22-zqdxc`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			subjectP, err := domain.ParsePrincipal(subject)
			if err != nil {
				return fmt.Errorf("subject: %w", err)
			}
			aliasP, err := domain.ParsePrincipal(alias)
			if err != nil {
				return fmt.Errorf("alias: %w", err)
			}
			key, err := certifier.KeyFromSeed(seed)
			if err != nil {
				return err
			}
			authority, err := idalias.NewAuthorityFromSeed(authorityID, key.Seed())
			if err != nil {
				return err
			}
			signed, err := authority.Mint(subjectP, aliasP, time.Now(), validity)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), signed)
		},
	}
	cmd.Flags().StringVar(&authorityID, "authority-id", "https://identity.local", "Authority id (iss and kid)")
	cmd.Flags().StringVar(&seed, "seed", "", "Base64 Ed25519 seed of the authority")
	cmd.Flags().StringVar(&subject, "subject", "", "Subject principal (the caller)")
	cmd.Flags().StringVar(&alias, "alias", "", "Alias principal the credential is issued to")
	cmd.Flags().DurationVar(&validity, "validity", 15*time.Minute, "Alias validity")
	_ = cmd.MarkFlagRequired("seed")
	_ = cmd.MarkFlagRequired("subject")
	_ = cmd.MarkFlagRequired("alias")
	return cmd
}
