package cmd

import (
	"errors"
	"fmt"

	"github.com/andrewhowdencom/md2dita/internal/converter"
	"github.com/spf13/cobra"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [input...]",
	Short: "Check the heading structure of Markdown documents.",
	Long: `Check the heading structure of Markdown documents without converting them.

Every problem in a document is reported at once. With no arguments the
document is read from standard input.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := conversionOptions()
		if err != nil {
			return err
		}
		conv := converter.New(opts)

		inputs := args
		if len(inputs) == 0 {
			inputs = []string{""}
		}

		var errs []error
		for _, input := range inputs {
			text, source, err := readInput(input)
			if err != nil {
				errs = append(errs, err)
				continue
			}

			tree, err := conv.Outline(cmd.Context(), text)
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "invalid: %s\n", source)
				errs = append(errs, fmt.Errorf("%s: %w", source, err))
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %s (%d topics)\n", source, len(tree.Headings()))
		}
		return errors.Join(errs...)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
