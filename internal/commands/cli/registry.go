// Package cli provides centralized command registration.
package cli

import (
	"fmt"

	"github.com/andrei-cloud/go_paykit/internal/commands/cli/kb"
	"github.com/andrei-cloud/go_paykit/internal/commands/cli/pb"
	"github.com/andrei-cloud/go_paykit/internal/commands/cli/server"
	"github.com/spf13/cobra"
)

// RegisterCommands registers all root commands.
func RegisterCommands(root *cobra.Command) error {
	// Root commands.
	keyblockCmd, err := kb.NewKeyBlockCommand()
	if err != nil {
		return fmt.Errorf("failed to create keyblock command: %w", err)
	}
	root.AddCommand(keyblockCmd)

	pinblockCmd, err := pb.NewPinBlockCommand()
	if err != nil {
		return fmt.Errorf("failed to create pinblock command: %w", err)
	}
	root.AddCommand(pinblockCmd)

	root.AddCommand(server.NewServeCommand())

	return nil
}
