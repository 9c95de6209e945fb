package entity

import (
	"sort"
	"strconv"
	"strings"
)

// StockStatus three-state stock classification
type StockStatus string

const (
	StockAvailable StockStatus = "available"
	StockLow       StockStatus = "low"
	StockOut       StockStatus = "out"
)

// StockStatusOf classifies current stock against the minimum
func StockStatusOf(current, minimum int) StockStatus {
	if current == 0 {
		return StockOut
	}
	if current <= minimum {
		return StockLow
	}
	return StockAvailable
}

// Label human readable status
func (s StockStatus) Label() string {
	switch s {
	case StockAvailable:
		return "In stock"
	case StockLow:
		return "Last units"
	case StockOut:
		return "Out of stock"
	}
	return string(s)
}

// FormatPrice formats a whole-peso amount as "$12.345"
func FormatPrice(amount int64) string {
	neg := amount < 0
	s := strconv.FormatInt(amount, 10)
	if neg {
		s = s[1:]
	}
	n := len(s)
	if n > 3 {
		rem := n % 3
		if rem == 0 {
			rem = 3
		}
		out := s[:rem]
		for i := rem; i < n; i += 3 {
			out += "." + s[i:i+3]
		}
		s = out
	}
	if neg {
		return "-$" + s
	}
	return "$" + s
}

// Categories sorted distinct non-empty category names
func Categories(products []Product) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out
}

// MatchesQuery reports whether p is a search hit for query; an empty query
// matches everything.
func MatchesQuery(p Product, query string) bool {
	return matchesQuery(p, strings.ToLower(strings.TrimSpace(query)))
}

func matchesQuery(p Product, query string) bool {
	if query == "" {
		return true
	}
	for _, field := range []string{p.Name, p.Brand, p.CompatibleModel, p.SKU, p.OEMCode} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}
