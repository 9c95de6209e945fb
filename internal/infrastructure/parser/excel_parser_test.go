package parser

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"github.com/yourusername/parts-catalog/internal/domain/entity"
)

// workbookFromFeed writes the non-blank CSV lines of text into a workbook,
// leaving an empty spreadsheet row wherever the text had a blank line.
func workbookFromFeed(t *testing.T, text string) *excelize.File {
	t.Helper()

	f := excelize.NewFile()
	t.Cleanup(func() { f.Close() })

	rowNum := 1
	start := 0
	for i := 0; i <= len(text); i++ {
		if i < len(text) && text[i] != '\n' {
			continue
		}
		line := text[start:i]
		start = i + 1
		if line == "" && i == len(text) {
			break
		}

		fields := ParseLine(line)
		cells := make([]interface{}, len(fields))
		for j, v := range fields {
			cells[j] = v
		}
		if line != "" {
			cell, err := excelize.CoordinatesToCellName(1, rowNum)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow("Sheet1", cell, &cells))
		}
		rowNum++
	}
	return f
}

func TestExcelParserMatchesCSV(t *testing.T) {
	f := workbookFromFeed(t, sampleFeed)
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	ctx := context.Background()
	fromXLSX, err := NewExcelParser(zerolog.Nop()).ParseProductsFromBytes(ctx, buf.Bytes(), "catalog.xlsx")
	require.NoError(t, err)
	fromCSV, err := NewCSVParser(zerolog.Nop()).ParseProductsFromBytes(ctx, []byte(sampleFeed), "catalog.csv")
	require.NoError(t, err)

	assert.Equal(t, fromCSV, fromXLSX)
}

func TestExcelParserFromFile(t *testing.T) {
	f := workbookFromFeed(t, "product_id,nombre\n5,Bujía\n")
	path := filepath.Join(t.TempDir(), "catalog.xlsx")
	require.NoError(t, f.SaveAs(path))

	products, err := NewExcelParser(zerolog.Nop()).ParseProducts(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 5, products[0].ProductID)
	assert.Equal(t, "Bujía", products[0].Name)
	assert.Equal(t, entity.Uncategorized, products[0].Category)
}

func TestExcelParserEmptyDocument(t *testing.T) {
	f := workbookFromFeed(t, "product_id,nombre\n")
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	_, err = NewExcelParser(zerolog.Nop()).ParseProductsFromBytes(context.Background(), buf.Bytes(), "empty.xlsx")
	assert.ErrorIs(t, err, entity.ErrEmptyDocument)
}

func TestExcelParserRejectsGarbage(t *testing.T) {
	_, err := NewExcelParser(zerolog.Nop()).ParseProductsFromBytes(context.Background(), []byte("not a zip"), "bad.xlsx")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, entity.ErrEmptyDocument)
}

func TestNewByFormat(t *testing.T) {
	for _, format := range []string{"", "csv", "CSV", "xlsx"} {
		p, err := New(format, zerolog.Nop())
		require.NoError(t, err, format)
		assert.NotNil(t, p)
	}

	_, err := New("ods", zerolog.Nop())
	assert.Error(t, err)
}
