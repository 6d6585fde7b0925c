package main

import (
	"encoding/base64"

	"github.com/go-jose/go-jose/v4"
	"github.com/spf13/cobra"

	"vcissuer/internal/issuance/certifier"
)

type keysOutput struct {
	Seed      string             `json:"seed"`
	PublicJWK jose.JSONWebKey    `json:"public_jwk"`
	JWKS      jose.JSONWebKeySet `json:"jwks"`
}

func newKeysCmd() *cobra.Command {
	var keyID string
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Generate an Ed25519 key",
		Long: `Generate an Ed25519 key for the issuer (ISSUER_SIGNING_KEY) or for a
local id-alias authority. The seed is printed base64 encoded; the JWKS can be
used as ISSUER_ROOT_KEYS_JWKS.`,
		Example: `  devtool keys --kid https://identity.local`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := certifier.GenerateKey()
			if err != nil {
				return err
			}
			jwk := jose.JSONWebKey{
				Key:       key.Public(),
				KeyID:     keyID,
				Algorithm: string(jose.EdDSA),
				Use:       "sig",
			}
			return printJSON(cmd.OutOrStdout(), keysOutput{
				Seed:      base64.StdEncoding.EncodeToString(key.Seed()),
				PublicJWK: jwk,
				JWKS:      jose.JSONWebKeySet{Keys: []jose.JSONWebKey{jwk}},
			})
		},
	}
	cmd.Flags().StringVar(&keyID, "kid", "https://identity.local", "Key id; use the authority id for alias authorities")
	return cmd
}
