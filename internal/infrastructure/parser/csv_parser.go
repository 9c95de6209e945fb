package parser

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yourusername/parts-catalog/internal/domain/entity"
	"github.com/yourusername/parts-catalog/internal/domain/repository"
)

type csvParser struct {
	logger zerolog.Logger
}

// NewCSVParser parser for the sheet's CSV export
func NewCSVParser(logger zerolog.Logger) repository.FeedParser {
	return &csvParser{logger: logger.With().Str("component", "csv_parser").Logger()}
}

// ParseProducts reads a CSV export from disk
func (p *csvParser) ParseProducts(ctx context.Context, filePath string) ([]entity.Product, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read csv file: %w", err)
	}
	return p.ParseProductsFromBytes(ctx, data, filePath)
}

// ParseProductsFromBytes decodes CSV text into products
func (p *csvParser) ParseProductsFromBytes(ctx context.Context, data []byte, filename string) ([]entity.Product, error) {
	rows, err := ParseDocument(string(data))
	if err != nil {
		return nil, err
	}

	products := MapRecords(rows)
	p.logger.Debug().
		Str("source", filename).
		Int("rows", len(rows)).
		Msg("csv feed decoded")

	return products, nil
}

// ParseDocument splits text into non-blank lines, takes the first as headers
// and zips every following line against them by position.
func ParseDocument(text string) ([]entity.RawRow, error) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) < 2 {
		return nil, entity.ErrEmptyDocument
	}

	headers := ParseLine(lines[0])
	for i, h := range headers {
		headers[i] = cleanCell(h)
	}

	rows := make([]entity.RawRow, 0, len(lines)-1)
	for _, line := range lines[1:] {
		rows = append(rows, zipRow(headers, ParseLine(line)))
	}
	return rows, nil
}

// zipRow pairs header[i] with values[i]; missing trailing values become ""
func zipRow(headers, values []string) entity.RawRow {
	row := make(entity.RawRow, len(headers))
	for i, h := range headers {
		if i < len(values) {
			row[h] = cleanCell(values[i])
		} else {
			row[h] = ""
		}
	}
	return row
}

// cleanCell drops every residual quote character and trims
func cleanCell(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, `"`, ""))
}
