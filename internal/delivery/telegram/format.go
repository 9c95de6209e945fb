package telegram

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/parts-catalog/internal/domain/entity"
)

// maxMessageLen stays under Telegram's 4096 character limit
const maxMessageLen = 4000

func formatProductLine(p entity.Product) string {
	return fmt.Sprintf("#%d %s · %s · %s · %s",
		p.ProductID, p.Name, p.Brand, entity.FormatPrice(p.SalePrice), p.StockStatus().Label())
}

func formatProductList(title string, products []entity.Product) string {
	if len(products) == 0 {
		return title + "\n\nNo products found."
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%d)\n\n", title, len(products))
	for _, p := range products {
		sb.WriteString(formatProductLine(p))
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatProductDetail(p entity.Product) string {
	vat := "no"
	if p.VATIncluded {
		vat = "yes"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📦 %s\n\n", p.Name)
	fmt.Fprintf(&sb, "ID: %d\n", p.ProductID)
	fmt.Fprintf(&sb, "SKU: %s\n", p.SKU)
	fmt.Fprintf(&sb, "OEM: %s\n", p.OEMCode)
	fmt.Fprintf(&sb, "Category: %s / %s\n", p.Category, p.Subcategory)
	fmt.Fprintf(&sb, "Brand: %s\n", p.Brand)
	fmt.Fprintf(&sb, "Fits: %s (%s)\n", p.CompatibleModel, formatYears(p.YearFrom, p.YearTo))
	fmt.Fprintf(&sb, "Price: %s (VAT included: %s)\n", entity.FormatPrice(p.SalePrice), vat)
	fmt.Fprintf(&sb, "Stock: %d %s, min %d · %s\n", p.CurrentStock, p.UnitOfMeasure, p.MinimumStock, p.StockStatus().Label())
	fmt.Fprintf(&sb, "Location: %s\n", p.WarehouseLocation)
	fmt.Fprintf(&sb, "Supplier: %s\n", p.Supplier)
	fmt.Fprintf(&sb, "Status: %s\n", p.Status)
	fmt.Fprintf(&sb, "Updated: %s", p.LastUpdated)
	return sb.String()
}

// productReply product card, or the not-found text for a missing id; any
// other failure gets the generic catalog error reply
func productReply(id int, p *entity.Product, err error) string {
	switch {
	case errors.Is(err, entity.ErrProductNotFound):
		return fmt.Sprintf("❌ Product #%d not found. See /products or /search.", id)
	case err != nil:
		return errorReply(err)
	case p == nil:
		return fmt.Sprintf("❌ Product #%d not found. See /products or /search.", id)
	}
	return formatProductDetail(*p)
}

func formatYears(from, to int) string {
	switch {
	case from == 0 && to == 0:
		return "all years"
	case to == 0 || from == to:
		return strconv.Itoa(from)
	case from == 0:
		return strconv.Itoa(to)
	}
	return fmt.Sprintf("%d-%d", from, to)
}

func formatCategories(categories []string) string {
	if len(categories) == 0 {
		return "No categories found."
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "🗂 Categories (%d)\n\n", len(categories))
	for _, c := range categories {
		fmt.Fprintf(&sb, "• %s\n", c)
	}
	sb.WriteString("\nUse /category <name> to list one.")
	return sb.String()
}

func formatFetchHistory(attempts []entity.FetchAttempt) string {
	if len(attempts) == 0 {
		return "No fetch attempts yet."
	}
	var sb strings.Builder
	sb.WriteString("Recent fetches:\n")
	for _, a := range attempts {
		fmt.Fprintf(&sb, "• %s %s", a.StartedAt.Format(time.TimeOnly), a.State)
		switch a.State {
		case entity.FetchSuccess:
			fmt.Fprintf(&sb, " (%d records, %s)", a.Records, a.Duration().Round(time.Millisecond))
		case entity.FetchFailure:
			fmt.Fprintf(&sb, ": %s", a.Err)
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// errorReply user facing text for a failed catalog operation
func errorReply(err error) string {
	var transportErr *entity.TransportError
	switch {
	case errors.Is(err, entity.ErrEmptyDocument):
		return "❌ The catalog sheet is empty. Try /refresh later."
	case errors.As(err, &transportErr) && transportErr.StatusCode != 0:
		return fmt.Sprintf("❌ The catalog source answered with HTTP %d. Try /refresh.", transportErr.StatusCode)
	case errors.As(err, &transportErr):
		return "❌ Could not reach the catalog source. Try /refresh."
	}
	return "❌ Could not load the catalog. Try /refresh."
}

func parseProductID(arg string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(arg), "#"))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid product id %q", arg)
	}
	return id, nil
}

// splitMessage cuts text into chunks of at most limit bytes, on line
// boundaries where possible.
func splitMessage(text string, limit int) []string {
	if limit <= 0 || len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, strings.TrimRight(current.String(), "\n"))
			current.Reset()
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		for len(line) > limit {
			flush()
			cut := runeBoundary(line, limit)
			chunks = append(chunks, line[:cut])
			line = line[cut:]
		}
		if current.Len()+len(line) > limit {
			flush()
		}
		current.WriteString(line)
	}
	flush()
	return chunks
}

// runeBoundary largest index <= limit that does not split a UTF-8 sequence
func runeBoundary(s string, limit int) int {
	for i := limit; i > 0; i-- {
		if s[i]&0xC0 != 0x80 {
			return i
		}
	}
	return limit
}
