package parser

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
	"github.com/yourusername/parts-catalog/internal/domain/entity"
	"github.com/yourusername/parts-catalog/internal/domain/repository"
)

type excelParser struct {
	logger zerolog.Logger
}

// NewExcelParser parser for the sheet's .xlsx export
func NewExcelParser(logger zerolog.Logger) repository.FeedParser {
	return &excelParser{logger: logger.With().Str("component", "excel_parser").Logger()}
}

// ParseProducts reads an .xlsx export from disk
func (e *excelParser) ParseProducts(ctx context.Context, filePath string) ([]entity.Product, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer f.Close()

	return e.parseExcelFile(f, filePath)
}

// ParseProductsFromBytes decodes an .xlsx export already in memory
func (e *excelParser) ParseProductsFromBytes(ctx context.Context, data []byte, filename string) ([]entity.Product, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open excel from bytes: %w", err)
	}
	defer f.Close()

	return e.parseExcelFile(f, filename)
}

func (e *excelParser) parseExcelFile(f *excelize.File, source string) ([]entity.Product, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("excel file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}

	raw, err := rawRowsFromGrid(rows)
	if err != nil {
		return nil, err
	}

	products := MapRecords(raw)
	e.logger.Debug().
		Str("source", source).
		Str("sheet", sheets[0]).
		Int("rows", len(raw)).
		Msg("excel feed decoded")

	return products, nil
}

// rawRowsFromGrid applies the CSV document rules to an already split grid:
// blank rows are dropped, the first remaining row names the columns.
func rawRowsFromGrid(rows [][]string) ([]entity.RawRow, error) {
	var kept [][]string
	for _, row := range rows {
		if !isEmptyRow(row) {
			kept = append(kept, row)
		}
	}
	if len(kept) < 2 {
		return nil, entity.ErrEmptyDocument
	}

	headers := make([]string, len(kept[0]))
	for i, h := range kept[0] {
		headers[i] = cleanCell(h)
	}

	out := make([]entity.RawRow, 0, len(kept)-1)
	for _, row := range kept[1:] {
		out = append(out, zipRow(headers, row))
	}
	return out, nil
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
