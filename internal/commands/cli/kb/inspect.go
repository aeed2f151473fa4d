// Package kb provides key block inspect command implementation.
package kb

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andrei-cloud/go_paykit/pkg/tr31"
)

func newInspectCommand() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Inspect a key block header",
		Long: `Parse and display the header of a TR-31 key block without unwrapping it.
The KBPK is not required: only the plaintext header and its optional blocks
are decoded. The protected key stays opaque.`,
		Example: `  # Display the header fields of a key block
  go_paykit keyblock inspect --block D0112D0AE00N0000...`,
		RunE: runInspect,
	}

	// Add flags.
	cmd.Flags().String("block", "", "Serialized key block or bare header to inspect")

	// Mark required flags.
	if err := cmd.MarkFlagRequired("block"); err != nil {
		return nil, fmt.Errorf("failed to mark block flag as required: %w", err)
	}

	return cmd, nil
}

func runInspect(cmd *cobra.Command, _ []string) error {
	block, _ := cmd.Flags().GetString("block")

	header, err := tr31.ParseHeader(block)
	if err != nil {
		return err
	}

	// Display header fields as a table.
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "Field\tValue\tMeaning")
	fmt.Fprintf(w, "Version\t%c\tKey block version identifier.\n", header.Version)
	fmt.Fprintf(
		w,
		"Key Block Length\t%04d\tTotal length of the key block: %d characters.\n",
		header.KeyBlockLength(),
		header.KeyBlockLength(),
	)
	fmt.Fprintf(w, "Key Usage\t%s\t%s.\n", header.KeyUsage, usageMeaning(header.KeyUsage))
	fmt.Fprintf(w, "Algorithm\t%c\t%s.\n", header.Algorithm, algorithmMeaning(header.Algorithm))
	fmt.Fprintf(w, "Mode of Use\t%c\t%s.\n", header.ModeOfUse, modeOfUseMeaning(header.ModeOfUse))
	fmt.Fprintf(
		w,
		"Key Version Number\t%s\t%s.\n",
		header.KeyVersionNum,
		keyVersionMeaning(header.KeyVersionNum),
	)
	fmt.Fprintf(
		w,
		"Exportability\t%c\t%s.\n",
		header.Exportability,
		exportabilityMeaning(header.Exportability),
	)
	fmt.Fprintf(w, "Optional Blocks\t%02d\t%d optional blocks.\n",
		len(header.OptionalBlocks()), len(header.OptionalBlocks()))
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}

	// Display optional blocks, if any.
	if blocks := header.OptionalBlocks(); len(blocks) > 0 {
		cmd.Println()
		bw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(bw, "ID\tMeaning\tData")
		for _, b := range blocks {
			fmt.Fprintf(bw, "%s\t%s\t%s\n", b.ID, optionalBlockMeaning(b.ID), b.Data)
		}
		if err := bw.Flush(); err != nil {
			return fmt.Errorf("failed to flush output: %w", err)
		}
	}

	if declared := header.KeyBlockLength(); declared != len(block) {
		cmd.Printf(
			"\nDeclared length %d does not match input length %d: bare header or truncated block.\n",
			declared,
			len(block),
		)
	}

	return nil
}
