package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/andrewhowdencom/md2dita/internal/formatter"
	"github.com/andrewhowdencom/md2dita/internal/kv"
	"github.com/spf13/cobra"
)

var historyFormat string

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded conversions.",
	Long:  `Inspect recorded conversions. Conversions are recorded when the cache is enabled.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded conversions, most recent first.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := datastoreNewStore(true)
		if err != nil {
			return fmt.Errorf("failed to open the datastore: %w", err)
		}
		defer store.Close()

		records, err := store.ListRecords()
		if err != nil {
			return fmt.Errorf("failed to list conversions: %w", err)
		}
		return formatter.Records(cmd.OutOrStdout(), records, historyFormat)
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print the DITA document of a recorded conversion.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := datastoreNewStore(true)
		if err != nil {
			return fmt.Errorf("failed to open the datastore: %w", err)
		}
		defer store.Close()

		r, err := store.GetRecord(args[0])
		if err != nil {
			return notFound(args[0], err)
		}
		_, err = io.WriteString(cmd.OutOrStdout(), r.XML)
		return err
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a recorded conversion.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := datastoreNewStore(false)
		if err != nil {
			return fmt.Errorf("failed to open the datastore: %w", err)
		}
		defer store.Close()

		if err := store.DeleteRecord(args[0]); err != nil {
			return notFound(args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted conversion '%s'.\n", args[0])
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every recorded conversion.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := datastoreNewStore(false)
		if err != nil {
			return fmt.Errorf("failed to open the datastore: %w", err)
		}
		defer store.Close()

		if err := store.ClearRecords(); err != nil {
			return fmt.Errorf("failed to clear conversions: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Cleared all recorded conversions.")
		return nil
	},
}

func notFound(id string, err error) error {
	if errors.Is(err, kv.ErrNotFound) {
		return fmt.Errorf("could not find a conversion with ID '%s'", id)
	}
	return fmt.Errorf("failed to get conversion: %w", err)
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyDeleteCmd, historyClearCmd)
	historyListCmd.Flags().StringVarP(&historyFormat, "format", "f", formatter.FormatTable, "Output format (table, yaml)")
}
