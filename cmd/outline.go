package cmd

import (
	"github.com/andrewhowdencom/md2dita/internal/converter"
	"github.com/andrewhowdencom/md2dita/internal/formatter"
	"github.com/spf13/cobra"
)

var outlineFormat string

// outlineCmd represents the outline command
var outlineCmd = &cobra.Command{
	Use:   "outline [input]",
	Short: "Show the concept hierarchy a document converts to.",
	Long:  `Show the concept hierarchy a document converts to, with the id each concept gets.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var input string
		if len(args) == 1 {
			input = args[0]
		}
		text, _, err := readInput(input)
		if err != nil {
			return err
		}

		opts, err := conversionOptions()
		if err != nil {
			return err
		}
		tree, err := converter.New(opts).Outline(cmd.Context(), text)
		if err != nil {
			return err
		}

		return formatter.Outline(cmd.OutOrStdout(), formatter.FromTree(tree), outlineFormat)
	},
}

func init() {
	rootCmd.AddCommand(outlineCmd)
	outlineCmd.Flags().StringVarP(&outlineFormat, "format", "f", formatter.FormatTree, "Output format (tree, table, yaml)")
}
