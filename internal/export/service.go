package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/pdf-structurer/constants"
	"github.com/joseph-ayodele/pdf-structurer/internal/common"
	"github.com/joseph-ayodele/pdf-structurer/internal/llm"
)

// maxCellChars is the XLSX per-cell text limit.
const maxCellChars = excelize.TotalCellChars

var headers = []string{"#", "Key", "Value", "Comments"}

// TableRow is one record projected for display. Index is 1-based and carries no identity.
type TableRow struct {
	Index    int
	Key      string
	Value    string
	Comments string
}

// Rows numbers the records in encounter order.
func Rows(res llm.ExtractionResult) []TableRow {
	rows := make([]TableRow, 0, len(res.Entries))
	for i, e := range res.Entries {
		rows = append(rows, TableRow{Index: i + 1, Key: e.Key, Value: e.Value, Comments: e.Comments})
	}
	return rows
}

// Service renders extraction results as XLSX workbooks, entirely in memory.
type Service struct {
	sheet  string
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{sheet: constants.SheetName, logger: logger}
}

// ToSpreadsheet returns the workbook bytes for res: a header row plus one row per entry.
func (s *Service) ToSpreadsheet(ctx context.Context, res llm.ExtractionResult) ([]byte, error) {
	start := time.Now()
	rid := common.RequestIDFromContext(ctx)

	if res.Entries == nil {
		s.logger.Error("export.xlsx.no_entries", "req_id", rid)
		return nil, common.NewExportError("entries collection is absent", nil)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("export.xlsx.close_error", "req_id", rid, "error", err)
		}
	}()

	if err := f.SetSheetName("Sheet1", s.sheet); err != nil {
		return nil, common.NewExportError("name sheet", err)
	}
	index, err := f.GetSheetIndex(s.sheet)
	if err != nil {
		return nil, common.NewExportError("locate sheet", err)
	}
	f.SetActiveSheet(index)

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(s.sheet, cell, h); err != nil {
			return nil, common.NewExportError("write header", err)
		}
	}

	truncated := 0
	rows := Rows(res)
	for _, r := range rows {
		line := r.Index + 1
		values := []any{r.Index, s.fit(r.Key, &truncated), s.fit(r.Value, &truncated), s.fit(r.Comments, &truncated)}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, line)
			if err := f.SetCellValue(s.sheet, cell, v); err != nil {
				return nil, common.NewExportError(fmt.Sprintf("write row %d", r.Index), err)
			}
		}
	}
	if truncated > 0 {
		s.logger.Warn("export.xlsx.truncated", "req_id", rid, "cells", truncated, "limit", maxCellChars)
	}

	_ = f.SetColWidth(s.sheet, "A", "A", 6)
	_ = f.SetColWidth(s.sheet, "B", "B", 40)
	_ = f.SetColWidth(s.sheet, "C", "C", 32)
	_ = f.SetColWidth(s.sheet, "D", "D", 60)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, common.NewExportError("xlsx write", err)
	}

	s.logger.Info("export.xlsx.ok",
		"req_id", rid,
		"rows", len(rows),
		"bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func (s *Service) fit(v string, truncated *int) string {
	if utf8.RuneCountInString(v) <= maxCellChars {
		return v
	}
	*truncated++
	return truncate(v, maxCellChars)
}

// truncate cuts s to at most n runes, ending with an ellipsis.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return string(r[:1])
	}
	return string(r[:n-1]) + "…"
}
