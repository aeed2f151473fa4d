// Package kb provides the interactive header builder command implementation.
package kb

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrei-cloud/go_paykit/pkg/tr31"
)

func newBuildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a key block header interactively",
		Long: `Walk through the TR-31 header fields interactively and produce a header
template. When --kbpk and --key are both given, the configured header is used
to wrap the key immediately and the resulting key block is printed.`,
		Example: `  # Configure a header template
  go_paykit keyblock build

  # Configure a header and wrap a key with it
  go_paykit keyblock build --kbpk 00112233445566778899AABBCCDDEEFF \
    --key 0123456789ABCDEFFEDCBA9876543210`,
		RunE: runBuild,
	}

	// Add flags.
	cmd.Flags().String("kbpk", "", "Key Block Protection Key in hex, to wrap immediately")
	cmd.Flags().String("key", "", "Clear key to protect in hex, to wrap immediately")

	return cmd
}

func runBuild(cmd *cobra.Command, _ []string) error {
	kbpkHex, _ := cmd.Flags().GetString("kbpk")
	keyHex, _ := cmd.Flags().GetString("key")
	if (kbpkHex == "") != (keyHex == "") {
		return fmt.Errorf("--kbpk and --key must be provided together")
	}

	header, ok, err := runHeaderTUI()
	if err != nil {
		return fmt.Errorf("header configuration failed: %w", err)
	}
	if !ok {
		cmd.Println("Cancelled.")

		return nil
	}

	cmd.Printf("Header Template: %s\n", header.String())

	if kbpkHex == "" {
		return nil
	}

	kbpk, err := hex.DecodeString(kbpkHex)
	if err != nil {
		return fmt.Errorf("invalid kbpk format: %w", err)
	}
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return fmt.Errorf("invalid key format: %w", err)
	}

	block, err := tr31.Wrap(header, key, kbpk)
	if err != nil {
		return err
	}

	cmd.Printf("Key Block: %s\n", block)

	return nil
}
