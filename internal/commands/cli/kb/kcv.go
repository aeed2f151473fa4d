// Package kb provides key check value command implementation.
package kb

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrei-cloud/go_paykit/pkg/cryptoutils"
	"github.com/andrei-cloud/go_paykit/pkg/tr31"
)

func newKcvCommand() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "kcv",
		Short: "Compute an AES key check value",
		Long: `Compute the CMAC key check value of an AES key: the AES-CMAC of one
zero block under the key, truncated to the requested length (5 bytes by
default, per the X9.24 convention).`,
		Example: `  # Five-byte check value
  go_paykit keyblock kcv --key 00112233445566778899AABBCCDDEEFF

  # Three-byte check value
  go_paykit keyblock kcv --key 00112233445566778899AABBCCDDEEFF --length 3`,
		RunE: runKcv,
	}

	// Add flags.
	cmd.Flags().String("key", "", "AES key in hex (16, 24 or 32 bytes)")
	cmd.Flags().Int("length", 5, "Check value length in bytes (1-16)")

	// Mark required flags.
	if err := cmd.MarkFlagRequired("key"); err != nil {
		return nil, fmt.Errorf("failed to mark key flag as required: %w", err)
	}

	return cmd, nil
}

func runKcv(cmd *cobra.Command, _ []string) error {
	keyHex, _ := cmd.Flags().GetString("key")
	length, _ := cmd.Flags().GetInt("length")

	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return fmt.Errorf("invalid key format: %w", err)
	}

	kcv, err := tr31.CheckValueN(key, length)
	if err != nil {
		return err
	}

	cmd.Printf("KCV: %s\n", cryptoutils.Raw2Str(kcv))

	return nil
}
