// Package kb provides the header value listing command implementation.
package kb

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andrei-cloud/go_paykit/pkg/tr31"
)

func newUsagesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "usages",
		Short: "List accepted header field values",
		Long: `List all key usage, algorithm, mode of use, exportability and optional
block values accepted in TR-31 key block headers, with their meanings.`,
		Example: `  # List all accepted header values
  go_paykit keyblock usages`,
		RunE: runUsages,
	}

	return cmd
}

func runUsages(cmd *cobra.Command, _ []string) error {
	cmd.Println("Key Usages:")
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "Code\tMeaning")
	fmt.Fprintln(w, "----\t-------")
	for _, code := range tr31.KeyUsages() {
		fmt.Fprintf(w, "%s\t%s\n", code, usageMeaning(code))
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}

	cmd.Println("\nAlgorithms:")
	w = tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "Code\tMeaning")
	fmt.Fprintln(w, "----\t-------")
	for _, code := range tr31.Algorithms() {
		fmt.Fprintf(w, "%s\t%s\n", code, algorithmMeaning(code[0]))
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}

	cmd.Println("\nModes of Use:")
	w = tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "Code\tMeaning")
	fmt.Fprintln(w, "----\t-------")
	for _, code := range tr31.ModesOfUse() {
		fmt.Fprintf(w, "%s\t%s\n", code, modeOfUseMeaning(code[0]))
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}

	cmd.Println("\nExportability:")
	w = tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "Code\tMeaning")
	fmt.Fprintln(w, "----\t-------")
	for _, code := range tr31.Exportabilities() {
		fmt.Fprintf(w, "%s\t%s\n", code, exportabilityMeaning(code[0]))
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}

	cmd.Println("\nOptional Blocks:")
	w = tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tMeaning")
	fmt.Fprintln(w, "--\t-------")
	for _, id := range tr31.OptionalBlockIDs() {
		fmt.Fprintf(w, "%s\t%s\n", id, optionalBlockMeaning(id))
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}

	return nil
}
