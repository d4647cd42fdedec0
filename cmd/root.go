/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/andrewhowdencom/md2dita/internal/model"
	"github.com/andrewhowdencom/md2dita/internal/otel"
	"github.com/andrewhowdencom/md2dita/internal/worker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string
var logLevel string
var inputFile string
var outputFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "md2dita [input]",
	Short: "Convert a Markdown document into a DITA concept.",
	Long: `Convert a Markdown document into a DITA concept.

The h1 heading becomes the root <concept> and every h2 to h4 becomes a
<concept> nested inside the concept of its parent heading. The input is read
from --input-file, the positional argument or standard input; the result is
written to --output-file or standard output.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		input := inputFile
		if input == "" && len(args) == 1 {
			input = args[0]
		}
		return runConvert(cmd.Context(), cmd.OutOrStdout(), input, outputFile)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Assigned here rather than in the literal to avoid an initialization
	// cycle (rootCmd -> InitConfig -> bindConfig -> rootCmd).
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		InitConfig()
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/md2dita/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("otel-endpoint", "", "OpenTelemetry endpoint")
	rootCmd.PersistentFlags().String("shortdesc", "yes", "Promote the first paragraph to <shortdesc> (yes, no)")
	rootCmd.PersistentFlags().String("lang", "", "xml:lang of the root concept")
	rootCmd.PersistentFlags().Bool("cache", false, "Record conversions and reuse identical ones")

	rootCmd.Flags().StringVarP(&inputFile, "input-file", "i", "", "Markdown file or URL to convert (default is standard input)")
	rootCmd.Flags().StringVarP(&outputFile, "output-file", "o", "", "File to write the DITA document to (default is standard output)")
}

// bindConfig registers defaults and flag bindings. It runs on every
// InitConfig so that a reset viper is usable again.
func bindConfig() {
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("otel.endpoint", rootCmd.PersistentFlags().Lookup("otel-endpoint"))
	viper.BindPFlag("shortdesc", rootCmd.PersistentFlags().Lookup("shortdesc"))
	viper.BindPFlag("lang", rootCmd.PersistentFlags().Lookup("lang"))
	viper.BindPFlag("cache.enabled", rootCmd.PersistentFlags().Lookup("cache"))

	viper.SetDefault("shortdesc", "yes")
	viper.SetDefault("lang", "")
	viper.SetDefault("cache.enabled", false)
	viper.SetDefault("datastore.type", "bbolt")
	viper.SetDefault("git.tokens", map[string]string{})
	viper.SetDefault("batch.workers", 4)
	viper.SetDefault("watch.schedule", "@every 30s")
	viper.SetDefault("watch.port", 8080)
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.headers", map[string]string{})
}

// InitConfig reads in config file and ENV variables if set.
func InitConfig() {
	bindConfig()

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find xdg config path and set it for viper if found.
		configPath, err := xdg.ConfigFile("md2dita/config.yaml")
		if err == nil {
			// Search config in the XDG config directory with name "config.yaml".
			viper.AddConfigPath(filepath.Dir(configPath))
			viper.SetConfigName(filepath.Base(configPath))
			viper.SetConfigType("yaml")
		}
	}

	viper.SetEnvPrefix("MD2DITA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	configReadErr := viper.ReadInConfig()

	// Initialise the logger
	var programLevel = new(slog.LevelVar)
	switch strings.ToLower(viper.GetString("log.level")) {
	case "debug":
		programLevel.Set(slog.LevelDebug)
	case "warn":
		programLevel.Set(slog.LevelWarn)
	case "error":
		programLevel.Set(slog.LevelError)
	default:
		programLevel.Set(slog.LevelInfo)
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: programLevel})
	slog.SetDefault(slog.New(handler))

	if configReadErr != nil {
		if _, ok := configReadErr.(viper.ConfigFileNotFoundError); ok {
			slog.Debug("config file not found")
		} else {
			slog.Warn("could not read config file, using defaults", "error", configReadErr)
		}
	}

	// Initialise OpenTelemetry
	if viper.GetString("otel.endpoint") != "" {
		otelShutdown, err := otel.SetupOTelSDK(context.Background(), viper.GetString("otel.endpoint"), viper.GetStringMapString("otel.headers"))
		if err != nil {
			slog.Error("could not setup OpenTelemetry", "error", err)
			os.Exit(1)
		}
		cobra.OnFinalize(func() {
			if err := otelShutdown(context.Background()); err != nil {
				slog.Error("could not shutdown OpenTelemetry", "error", err)
			}
		})
	}
}

// conversionOptions builds the pipeline options from the configuration.
func conversionOptions() (model.Options, error) {
	opts := model.DefaultOptions()
	shortdesc, err := model.ParseShortdesc(viper.GetString("shortdesc"))
	if err != nil {
		return opts, err
	}
	opts.Shortdesc = shortdesc
	opts.Lang = viper.GetString("lang")
	return opts, nil
}

func runConvert(ctx context.Context, stdout io.Writer, input, output string) error {
	text, source, err := readInput(input)
	if err != nil {
		return err
	}

	conv, done, err := newConverter()
	if err != nil {
		return err
	}
	defer done()

	record, _, err := conv.Convert(ctx, source, output, text)
	if err != nil {
		return err
	}

	if output == "" {
		_, err := io.WriteString(stdout, record.XML)
		return err
	}
	if err := worker.WriteFile(output, []byte(record.XML)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	slog.Info("converted document", "input", source, "output", output, "topics", record.Topics)
	return nil
}
