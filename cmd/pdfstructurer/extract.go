package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/pdf-structurer/internal/app"
	"github.com/joseph-ayodele/pdf-structurer/internal/common"
	"github.com/joseph-ayodele/pdf-structurer/internal/pipeline"
)

func newExtractCmd(c *cli) *cobra.Command {
	var (
		outputPath string
		rawPath    string
	)
	cmd := &cobra.Command{
		Use:   "extract <input.pdf|gs://bucket/object.pdf>",
		Short: "Convert one PDF into a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireValid(); err != nil {
				return err
			}
			return c.runExtract(cmd.Context(), cmd, args[0], outputPath, rawPath)
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output XLSX path or gs:// URI (default: next to the input)")
	cmd.Flags().StringVar(&rawPath, "raw", "", "Also write the model's JSON response to this path")
	return cmd
}

func (c *cli) runExtract(ctx context.Context, cmd *cobra.Command, src, outputPath, rawPath string) error {
	if err := pipeline.CheckInput(src, 0, 0); err != nil {
		return err
	}

	store := app.NewStore(c.cfg, c.logger)
	defer func() { _ = store.Close() }()

	doc, err := store.Read(ctx, src)
	if err != nil {
		return err
	}
	if err := pipeline.CheckInput(src, int64(len(doc)), c.cfg.Extract.MaxBytes); err != nil {
		return err
	}

	proc, closeFn, err := app.NewProcessor(ctx, c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()

	ctx, cancel := context.WithTimeout(common.WithDocument(ctx, src), c.cfg.Batch.ProcessTimeout)
	defer cancel()
	art, err := proc.Process(ctx, doc)
	if err != nil {
		return err
	}

	if outputPath == "" {
		outputPath = pipeline.ArtifactPath(src, c.cfg.Output.Dir)
	}
	if err := store.Write(ctx, outputPath, art.Data); err != nil {
		return err
	}
	if rawPath != "" {
		if err := store.Write(ctx, rawPath, art.Raw); err != nil {
			return err
		}
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d rows\t%d pages\n", outputPath, art.Rows, art.Pages)
	return nil
}
