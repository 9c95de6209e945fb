package entity

import "time"

// Fallback literals used when a source cell is empty or missing
const (
	NotAvailable  = "Not available"
	Unnamed       = "Unnamed"
	Uncategorized = "Uncategorized"
	DefaultUnit   = "unit"
)

// Product one inventory line of the catalog feed
type Product struct {
	ProductID         int
	SKU               string
	OEMCode           string
	Name              string
	Category          string
	Subcategory       string
	Brand             string
	CompatibleModel   string
	YearFrom          int
	YearTo            int
	WarehouseLocation string
	UnitOfMeasure     string
	CurrentStock      int
	MinimumStock      int
	PurchasePrice     int64 // whole CLP, no minor unit
	SalePrice         int64 // whole CLP, no minor unit
	VATIncluded       bool
	Supplier          string
	Status            string
	LastPurchaseDate  string
	LastUpdated       string
}

// StockStatus derived from current vs. minimum stock
func (p Product) StockStatus() StockStatus {
	return StockStatusOf(p.CurrentStock, p.MinimumStock)
}

// RawRow one source row before coercion, keyed by header name
type RawRow map[string]string

// Get returns the raw cell for header, "" when the row has no such column
func (r RawRow) Get(header string) string {
	return r[header]
}

// ProductCatalog one complete load of the feed or of an imported export
type ProductCatalog struct {
	Products  []Product
	FetchedAt time.Time
	Source    string // feed URL or imported file name
	Imported  bool   // loaded from a file; kept until an explicit refresh
}

// Len number of records in the catalog
func (c *ProductCatalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Products)
}
