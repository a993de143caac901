// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the docmerge CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/docmerge/internal/config"
	"github.com/pdiddy/docmerge/internal/logging"
	"github.com/pdiddy/docmerge/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// cfg is decoded from viper before any command runs.
	cfg types.Config

	// logger is built from cfg.Log before any command runs.
	logger = zap.NewNop()

	// initErr holds a failure from initConfig, reported by the first command.
	initErr error
)

// rootCmd is the base command. Invoked without a subcommand it merges.
var rootCmd = &cobra.Command{
	Use:   "docmerge",
	Short: "Convert a folder of documents to PDF and merge them into one file",
	Long: `docmerge converts every presentation, word-processing document, image
and plain-text file in the input folder to PDF, passes existing PDFs through
unchanged, and merges the results in directory order into
merged_all_files.pdf in the output folder.

Folders come from INPUT_FOLDER and OUTPUT_FOLDER (a .env file in the
working directory is read first), docmerge.yaml, DOCMERGE_* variables,
or the --input and --output flags.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if initErr != nil {
			return initErr
		}
		c, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		log, err := logging.New(c.Log, os.Stderr)
		if err != nil {
			return err
		}
		cfg, logger = c, log
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: runMerge,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./docmerge.yaml or ~/.config/docmerge/docmerge.yaml)")
	flags.String("input", "", "folder of files to convert (overrides INPUT_FOLDER)")
	flags.String("output", "", "folder for merged_all_files.pdf (overrides OUTPUT_FOLDER)")

	_ = viper.BindPFlag("input_folder", flags.Lookup("input"))
	_ = viper.BindPFlag("output_folder", flags.Lookup("output"))
}

func initConfig() {
	if err := config.LoadDotenv(".env"); err != nil {
		initErr = err
		return
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	config.Setup(viper.GetViper(), cfgFile)

	used, err := config.Read(viper.GetViper())
	if err != nil {
		initErr = err
		return
	}
	if used != "" {
		fmt.Fprintln(os.Stderr, "Using config file:", used)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
