package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/navikt/synthproof/pkg/signer"
	"github.com/spf13/cobra"
)

type keyReport struct {
	PublicKey string `json:"publicKey" yaml:"public_key"`
	KeyID     string `json:"keyId" yaml:"key_id"`
	KeyFile   string `json:"keyFile,omitempty" yaml:"key_file,omitempty"`
}

func newKeygenCmd(opts *rootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a claim signer key for the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := signer.Generate(rand.Reader)
			if err != nil {
				return err
			}

			report := keyReport{
				PublicKey: hex.EncodeToString(s.PublicKey()),
				KeyID:     signer.KeyID(s.PublicKey()),
			}

			if out == "" {
				_, err = fmt.Fprintln(cmd.ErrOrStderr(), s.PrivateKeyHex())
				if err != nil {
					return err
				}

				return opts.write(cmd.OutOrStdout(), report)
			}

			err = os.WriteFile(out, []byte(s.PrivateKeyHex()+"\n"), 0o600)
			if err != nil {
				return fmt.Errorf("writing key file: %w", err)
			}

			report.KeyFile = out

			return opts.write(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "write the private key to this file instead of stderr")

	return cmd
}
