package parser

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yourusername/parts-catalog/internal/domain/repository"
)

// Export formats of the sheet
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// New returns the parser for an export format
func New(format string, logger zerolog.Logger) (repository.FeedParser, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatCSV, "":
		return NewCSVParser(logger), nil
	case FormatXLSX:
		return NewExcelParser(logger), nil
	default:
		return nil, fmt.Errorf("unsupported feed format %q", format)
	}
}
