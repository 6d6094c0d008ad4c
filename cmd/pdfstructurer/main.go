package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/pdf-structurer/internal/app"
	"github.com/joseph-ayodele/pdf-structurer/internal/common"
)

var version = "dev"

// cli carries state shared by every subcommand once flags are parsed.
type cli struct {
	configPath string
	logLevel   string

	cfg    *common.Config
	logger *slog.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		msg := common.UserMessage(err)
		if msg == common.ErrInternal.Error() {
			msg = err.Error()
		}
		_, _ = fmt.Fprintln(os.Stderr, "error:", msg)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "pdfstructurer",
		Short: "Turn PDF documents into normalized key/value spreadsheets",
		Long: `pdfstructurer extracts the text of a PDF, asks a language model to turn it into
normalized key/value entries and writes them to an XLSX spreadsheet.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.load()
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "YAML config file (env vars override it)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "info", "Log level: debug, info, warn, error")

	root.AddCommand(
		newExtractCmd(c),
		newBatchCmd(c),
		newWatchCmd(c),
		newInspectCmd(c),
		newMCPCmd(c),
	)
	return root
}

func (c *cli) load() error {
	c.logger = app.NewLogger(os.Stderr, c.logLevel)
	slog.SetDefault(c.logger)

	cfg, err := common.LoadConfigFile(c.configPath)
	if err != nil {
		c.logger.Error("config.load_failed", "path", c.configPath, "error", err)
		return err
	}
	c.cfg = cfg
	return nil
}

// requireValid is called by commands that talk to the model.
func (c *cli) requireValid() error {
	if err := c.cfg.Validate(); err != nil {
		c.logger.Error("config.invalid", "error", err)
		return err
	}
	return nil
}
