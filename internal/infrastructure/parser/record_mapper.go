package parser

import (
	"strconv"
	"strings"

	"github.com/yourusername/parts-catalog/internal/domain/entity"
)

// Sheet column headers
const (
	ColProductID         = "product_id"
	ColSKU               = "sku"
	ColOEMCode           = "codigo_oem"
	ColName              = "nombre"
	ColCategory          = "categoria"
	ColSubcategory       = "subcategoria"
	ColBrand             = "marca"
	ColCompatibleModel   = "modelo_compatible"
	ColYearFrom          = "anio_desde"
	ColYearTo            = "anio_hasta"
	ColWarehouseLocation = "ubicacion_bodega"
	ColUnitOfMeasure     = "unidad_medida"
	ColCurrentStock      = "stock_actual"
	ColMinimumStock      = "stock_minimo"
	ColPurchasePrice     = "precio_compra_clp"
	ColSalePrice         = "precio_venta_clp"
	ColVATIncluded       = "iva_incluido"
	ColSupplier          = "proveedor_principal"
	ColStatus            = "estado_producto"
	ColLastPurchaseDate  = "fecha_ultima_compra"
	ColLastUpdated       = "ultima_actualizacion"
)

// Headers every column the mapper reads, in schema order
var Headers = []string{
	ColProductID, ColSKU, ColOEMCode, ColName, ColCategory, ColSubcategory,
	ColBrand, ColCompatibleModel, ColYearFrom, ColYearTo, ColWarehouseLocation,
	ColUnitOfMeasure, ColCurrentStock, ColMinimumStock, ColPurchasePrice,
	ColSalePrice, ColVATIncluded, ColSupplier, ColStatus, ColLastPurchaseDate,
	ColLastUpdated,
}

// checkMark spelling of a ticked checkbox in the sheet
const checkMark = "✔"

// MapRecord coerces one raw row. Never fails: bad numbers become 0 and empty
// strings become the field's fallback literal.
func MapRecord(row entity.RawRow) entity.Product {
	return entity.Product{
		ProductID:         parseInt(row.Get(ColProductID)),
		SKU:               orDefault(row.Get(ColSKU), entity.NotAvailable),
		OEMCode:           orDefault(row.Get(ColOEMCode), entity.NotAvailable),
		Name:              orDefault(row.Get(ColName), entity.Unnamed),
		Category:          orDefault(row.Get(ColCategory), entity.Uncategorized),
		Subcategory:       orDefault(row.Get(ColSubcategory), entity.NotAvailable),
		Brand:             orDefault(row.Get(ColBrand), entity.NotAvailable),
		CompatibleModel:   orDefault(row.Get(ColCompatibleModel), entity.NotAvailable),
		YearFrom:          parseInt(row.Get(ColYearFrom)),
		YearTo:            parseInt(row.Get(ColYearTo)),
		WarehouseLocation: orDefault(row.Get(ColWarehouseLocation), entity.NotAvailable),
		UnitOfMeasure:     orDefault(row.Get(ColUnitOfMeasure), entity.DefaultUnit),
		CurrentStock:      parseInt(row.Get(ColCurrentStock)),
		MinimumStock:      parseInt(row.Get(ColMinimumStock)),
		PurchasePrice:     parseInt64(row.Get(ColPurchasePrice)),
		SalePrice:         parseInt64(row.Get(ColSalePrice)),
		VATIncluded:       parseFlag(row.Get(ColVATIncluded)),
		Supplier:          orDefault(row.Get(ColSupplier), entity.NotAvailable),
		Status:            orDefault(row.Get(ColStatus), entity.NotAvailable),
		LastPurchaseDate:  orDefault(row.Get(ColLastPurchaseDate), entity.NotAvailable),
		LastUpdated:       orDefault(row.Get(ColLastUpdated), entity.NotAvailable),
	}
}

// MapRecords maps every row independently, keeping row order
func MapRecords(rows []entity.RawRow) []entity.Product {
	products := make([]entity.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, MapRecord(row))
	}
	return products
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// parseFlag only the check mark and "true" count as set
func parseFlag(s string) bool {
	return s == checkMark || s == "true"
}

func parseInt(s string) int {
	return int(parseInt64(s))
}

// parseInt64 reads an optional sign and the leading run of digits, so
// "12abc" is 12 and "3.7" is 3. Anything else, including overflow, is 0.
func parseInt64(s string) int64 {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return n
}
