// Package kb provides key block unwrap command implementation.
package kb

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrei-cloud/go_paykit/pkg/cryptoutils"
	"github.com/andrei-cloud/go_paykit/pkg/tr31"
)

func newUnwrapCommand() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "unwrap",
		Short: "Unwrap a key from a TR-31 key block",
		Long: `Unwrap a TR-31 version D key block under its Key Block Protection Key
(KBPK). The block is authenticated before any decryption; a block that fails
the MAC check yields no key material. On success the recovered clear key and
its header attributes are printed.`,
		Example: `  # Recover a wrapped key
  go_paykit keyblock unwrap --kbpk 00112233445566778899AABBCCDDEEFF \
    --block D0112D0AE00N0000...`,
		RunE: runUnwrap,
	}

	// Add flags.
	cmd.Flags().String("kbpk", "", "Key Block Protection Key in hex (16, 24 or 32 bytes)")
	cmd.Flags().String("block", "", "Serialized key block to unwrap")

	// Mark required flags.
	if err := cmd.MarkFlagRequired("kbpk"); err != nil {
		return nil, fmt.Errorf("failed to mark kbpk flag as required: %w", err)
	}
	if err := cmd.MarkFlagRequired("block"); err != nil {
		return nil, fmt.Errorf("failed to mark block flag as required: %w", err)
	}

	return cmd, nil
}

func runUnwrap(cmd *cobra.Command, _ []string) error {
	kbpkHex, _ := cmd.Flags().GetString("kbpk")
	block, _ := cmd.Flags().GetString("block")

	kbpk, err := hex.DecodeString(kbpkHex)
	if err != nil {
		return fmt.Errorf("invalid kbpk format: %w", err)
	}

	key, header, err := tr31.Unwrap(block, kbpk)
	if err != nil {
		return err
	}

	cmd.Printf("Key Usage: %s (%s)\n", header.KeyUsage, usageMeaning(header.KeyUsage))
	cmd.Printf("Algorithm: %c (%s)\n", header.Algorithm, algorithmMeaning(header.Algorithm))
	cmd.Printf("Mode of Use: %c (%s)\n", header.ModeOfUse, modeOfUseMeaning(header.ModeOfUse))
	cmd.Printf("Key Version: %s\n", header.KeyVersionNum)
	cmd.Printf(
		"Exportability: %c (%s)\n",
		header.Exportability,
		exportabilityMeaning(header.Exportability),
	)
	cmd.Printf("Recovered Key: %s\n", cryptoutils.Raw2Str(key))

	return nil
}
