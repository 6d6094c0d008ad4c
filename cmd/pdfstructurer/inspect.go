package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/pdf-structurer/internal/app"
	"github.com/joseph-ayodele/pdf-structurer/internal/extract"
)

type inspectReport struct {
	Path            string   `json:"path"`
	Bytes           int      `json:"bytes"`
	Pages           int      `json:"pages"`
	Valid           bool     `json:"valid"`
	ValidationError string   `json:"validation_error,omitempty"`
	Method          string   `json:"method"`
	Readable        bool     `json:"readable"`
	TextChars       int      `json:"text_chars"`
	Warnings        []string `json:"warnings,omitempty"`
	Error           string   `json:"error,omitempty"`
}

func newInspectCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <input.pdf|gs://bucket/object.pdf>",
		Short: "Report page count, validity and text extraction diagnostics without calling the model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := c.inspect(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rep)
		},
	}
}

func (c *cli) inspect(ctx context.Context, src string) (inspectReport, error) {
	store := app.NewStore(c.cfg, c.logger)
	defer func() { _ = store.Close() }()

	doc, err := store.Read(ctx, src)
	if err != nil {
		return inspectReport{}, err
	}
	rep := inspectReport{Path: src, Bytes: len(doc)}

	info, err := extract.Inspect(doc)
	if err != nil {
		rep.Error = err.Error()
	} else {
		rep.Pages = info.Pages
		rep.Valid = info.Valid
		if info.ValidationError != nil {
			rep.ValidationError = info.ValidationError.Error()
		}
	}

	tx, err := app.NewExtractor(c.cfg, c.logger)
	if err != nil {
		return inspectReport{}, err
	}
	text := tx.Extract(ctx, doc)
	rep.Method = text.Method
	rep.Readable = text.Readable
	rep.TextChars = len([]rune(text.Text))
	rep.Warnings = text.Warnings
	if rep.Error == "" && text.Readable && rep.Pages != text.Pages {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("page count mismatch: pdfcpu=%d reader=%d", rep.Pages, text.Pages))
	}
	if text.Cause != nil && rep.Error == "" {
		rep.Error = text.Cause.Error()
	}
	return rep, nil
}
