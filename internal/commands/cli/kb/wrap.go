// Package kb provides key block wrap command implementation.
package kb

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andrei-cloud/go_paykit/pkg/tr31"
)

func newWrapCommand() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "wrap",
		Short: "Wrap a key into a TR-31 key block",
		Long: `Wrap a clear key into a TR-31 version D key block under a
Key Block Protection Key (KBPK). Header fields describe the protected key:
its usage, algorithm, mode of use, version number and exportability.
Optional blocks are attached with --optblock ID=DATA and may repeat.`,
		Example: `  # Wrap a data encryption key
  go_paykit keyblock wrap --kbpk 00112233445566778899AABBCCDDEEFF \
    --key 0123456789ABCDEFFEDCBA9876543210 --usage D0 --algorithm A --mode E

  # Attach a key set identifier block and hide the key length
  go_paykit keyblock wrap --kbpk 00112233445566778899AABBCCDDEEFF \
    --key AABBCCDDEEFFAABB --usage K0 --optblock KS=00604B120F9292800000 \
    --masked-length 24`,
		RunE: runWrap,
	}

	// Add flags.
	cmd.Flags().String("kbpk", "", "Key Block Protection Key in hex (16, 24 or 32 bytes)")
	cmd.Flags().String("key", "", "Clear key to protect, in hex")
	cmd.Flags().String("usage", "", "Key usage code (e.g. D0, K0, P0)")
	cmd.Flags().String("algorithm", "A", "Algorithm of the protected key")
	cmd.Flags().String("mode", "N", "Mode of use of the protected key")
	cmd.Flags().String("kvn", "00", "Key version number (two characters)")
	cmd.Flags().String("exportability", "N", "Exportability of the protected key")
	cmd.Flags().StringArray("optblock", nil, "Optional block as ID=DATA (repeatable)")
	cmd.Flags().Int("masked-length", 0, "Pad the payload as if the key were this many bytes")

	// Mark required flags.
	if err := cmd.MarkFlagRequired("kbpk"); err != nil {
		return nil, fmt.Errorf("failed to mark kbpk flag as required: %w", err)
	}
	if err := cmd.MarkFlagRequired("key"); err != nil {
		return nil, fmt.Errorf("failed to mark key flag as required: %w", err)
	}
	if err := cmd.MarkFlagRequired("usage"); err != nil {
		return nil, fmt.Errorf("failed to mark usage flag as required: %w", err)
	}

	return cmd, nil
}

func runWrap(cmd *cobra.Command, _ []string) error {
	kbpkHex, _ := cmd.Flags().GetString("kbpk")
	keyHex, _ := cmd.Flags().GetString("key")
	usage, _ := cmd.Flags().GetString("usage")
	algorithm, _ := cmd.Flags().GetString("algorithm")
	mode, _ := cmd.Flags().GetString("mode")
	kvn, _ := cmd.Flags().GetString("kvn")
	exportability, _ := cmd.Flags().GetString("exportability")
	optBlocks, _ := cmd.Flags().GetStringArray("optblock")
	maskedLen, _ := cmd.Flags().GetInt("masked-length")

	kbpk, err := hex.DecodeString(kbpkHex)
	if err != nil {
		return fmt.Errorf("invalid kbpk format: %w", err)
	}
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return fmt.Errorf("invalid key format: %w", err)
	}

	header, err := tr31.NewHeader(
		strings.ToUpper(usage),
		strings.ToUpper(algorithm),
		strings.ToUpper(mode),
		kvn,
		strings.ToUpper(exportability),
	)
	if err != nil {
		return err
	}

	for _, arg := range optBlocks {
		id, data, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("invalid optional block %q: expected ID=DATA", arg)
		}
		if err := header.AddOptionalBlock(strings.ToUpper(id), data); err != nil {
			return err
		}
	}

	opts := []tr31.WrapOption{}
	if maskedLen > 0 {
		opts = append(opts, tr31.WithMaskedKeyLength(maskedLen))
	}

	block, err := tr31.Wrap(header, key, kbpk, opts...)
	if err != nil {
		return err
	}

	cmd.Printf("Key Block: %s\n", block)

	return nil
}
