// Package main provides developer tooling for a local vcissuer: issuer and
// authority keys, signed id aliases and caller bearer tokens. The defaults
// match the server's development configuration and must not be used in
// production.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

const devCallerTokenKey = "dev-secret-key-change-in-production"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "devtool",
		Short:        "Developer tooling for vcissuer",
		SilenceUsage: true,
	}
	root.AddCommand(newKeysCmd(), newAliasCmd(), newTokenCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
