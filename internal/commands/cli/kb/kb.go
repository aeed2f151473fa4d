// Package kb provides key block commands.
package kb

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewKeyBlockCommand creates the keyblock command with subcommands.
func NewKeyBlockCommand() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "keyblock",
		Short: "TR-31 key block operations",
		Long: `TR-31 version D key block operations.
Wraps keys into key blocks under a Key Block Protection Key (KBPK),
unwraps and inspects existing key blocks, and computes key check values.`,
		Example: `  # Wrap a key into a key block
  go_paykit keyblock wrap --kbpk 00112233445566778899AABBCCDDEEFF \
    --key 0123456789ABCDEFFEDCBA9876543210 --usage D0

  # Unwrap a key block
  go_paykit keyblock unwrap --kbpk 00112233445566778899AABBCCDDEEFF --block D0112D0AE00N0000...

  # Inspect a key block header without the KBPK
  go_paykit keyblock inspect --block D0112D0AE00N0000...

  # List the header field values
  go_paykit keyblock usages`,
	}

	// Add subcommands.
	wrapCmd, err := newWrapCommand()
	if err != nil {
		return nil, fmt.Errorf("failed to create 'wrap' subcommand: %w", err)
	}
	cmd.AddCommand(wrapCmd)

	unwrapCmd, err := newUnwrapCommand()
	if err != nil {
		return nil, fmt.Errorf("failed to create 'unwrap' subcommand: %w", err)
	}
	cmd.AddCommand(unwrapCmd)

	inspectCmd, err := newInspectCommand()
	if err != nil {
		return nil, fmt.Errorf("failed to create 'inspect' subcommand: %w", err)
	}
	cmd.AddCommand(inspectCmd)

	cmd.AddCommand(newBuildCommand())

	kcvCmd, err := newKcvCommand()
	if err != nil {
		return nil, fmt.Errorf("failed to create 'kcv' subcommand: %w", err)
	}
	cmd.AddCommand(kcvCmd)

	cmd.AddCommand(newUsagesCommand())

	return cmd, nil
}
