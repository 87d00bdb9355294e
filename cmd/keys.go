package cmd

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gwholdren-max/golfbook/internal/crypto"
)

func newKeysCmd() *cobra.Command {
	var encrypt string

	c := &cobra.Command{
		Use:   "keys",
		Short: "Generate a CRED_ENC_KEY, or encrypt the site password with one",
		RunE: func(cmd *cobra.Command, args []string) error {
			if encrypt != "" {
				key := os.Getenv("CRED_ENC_KEY")
				if key == "" {
					return fmt.Errorf("set CRED_ENC_KEY before encrypting")
				}
				aead, err := crypto.NewFromPassphrase(key)
				if err != nil {
					return err
				}
				ct, err := aead.EncryptToString(encrypt)
				if err != nil {
					return err
				}
				fmt.Fprintf(os.Stdout, "export BOOKING_PASSWORD_ENC=%s\n", ct)
				return nil
			}

			key := make([]byte, 32)
			if _, err := rand.Read(key); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "export CRED_ENC_KEY=%s\n", base64.StdEncoding.EncodeToString(key))
			return nil
		},
	}

	c.Flags().StringVar(&encrypt, "encrypt", "", "encrypt this password with CRED_ENC_KEY instead of generating a key")
	return c
}
