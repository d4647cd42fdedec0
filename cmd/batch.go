package cmd

import (
	"fmt"

	"github.com/andrewhowdencom/md2dita/internal/sourcer"
	"github.com/andrewhowdencom/md2dita/internal/worker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [manifest]",
	Short: "Convert every document listed in a manifest.",
	Long: `Convert every document listed in a YAML manifest.

Documents are converted in parallel. A failing document does not stop the
others; the command fails if any of them did.

  defaults:
    shortdesc: no
    lang: en-US
    output_dir: dita
  jobs:
    - input: guide.md
    - input: https://example.com/faq.md
      output: "{{ .Slug }}.dita"
    - input: release.md
      data:
        version: "1.2"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		viper.BindPFlag("batch.workers", cmd.Flags().Lookup("workers"))

		data, _, err := buildFetcher().Fetch(args[0])
		if err != nil {
			return fmt.Errorf("failed to read manifest: %w", err)
		}
		manifest, err := sourcer.NewManifestParser().Parse(args[0], data)
		if err != nil {
			return err
		}

		opts, err := conversionOptions()
		if err != nil {
			return err
		}
		store, done := openCache()
		defer done()

		b := worker.NewBatch(buildSourcer(), store, opts, viper.GetInt("batch.workers"))
		results, err := b.Run(cmd.Context(), manifest)
		for _, r := range results {
			switch {
			case r.Err != nil:
				fmt.Fprintf(cmd.OutOrStdout(), "failed: %s\n", r.Job.Input)
			case r.Cached:
				fmt.Fprintf(cmd.OutOrStdout(), "cached: %s -> %s\n", r.Job.Input, r.Output)
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "converted: %s -> %s\n", r.Job.Input, r.Output)
			}
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().Int("workers", 4, "Number of documents converted at once")
}
