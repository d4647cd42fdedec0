package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/andrewhowdencom/md2dita/internal/http"
	"github.com/andrewhowdencom/md2dita/internal/poller"
	"github.com/andrewhowdencom/md2dita/internal/worker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var watchOutputDir string

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch [input...]",
	Short: "Reconvert documents whenever they change.",
	Long: `Reconvert documents whenever they change.

Inputs are polled on the watch.schedule cron schedule and on SIGHUP. Each
document is written to <output-dir>/<name>.dita.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		viper.BindPFlag("watch.schedule", cmd.Flags().Lookup("schedule"))
		viper.BindPFlag("watch.port", cmd.Flags().Lookup("port"))

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runWatch(ctx, args)
	},
}

func runWatch(ctx context.Context, inputs []string) error {
	slog.Debug("running watch")

	conv, done, err := newConverter()
	if err != nil {
		return err
	}
	defer done()

	w, err := worker.New(poller.New(buildSourcer()), conv, inputs, watchOutputDir, viper.GetString("watch.schedule"))
	if err != nil {
		return fmt.Errorf("failed to create worker: %w", err)
	}

	if port := viper.GetInt("watch.port"); port > 0 {
		go http.Start(ctx, port, func() interface{} { return w.Status() })
	}
	return w.Run(ctx)
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVarP(&watchOutputDir, "output-dir", "d", ".", "Directory to write converted documents to")
	watchCmd.Flags().String("schedule", "@every 30s", "Cron schedule to poll inputs on")
	watchCmd.Flags().Int("port", 8080, "Port of the healthcheck server, 0 to disable")
}
