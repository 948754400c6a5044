package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ElectronicResponse campos de la variante electrónica.
type ElectronicResponse struct {
	Brand                string `json:"brand"`
	WarrantyPeriodMonths int    `json:"warranty_period_months"`
}

// BookResponse campos de la variante libro.
type BookResponse struct {
	Author    string `json:"author"`
	ISBN      string `json:"isbn"`
	Pages     int    `json:"pages"`
	Publisher string `json:"publisher"`
}

// ProductResponse salida de un producto del catálogo. Solo uno de Electronic/Book viene informado.
type ProductResponse struct {
	SKU                string              `json:"sku"`
	Kind               string              `json:"kind"`
	Name               string              `json:"name"`
	Description        string              `json:"description"`
	Category           string              `json:"category"`
	Price              decimal.Decimal     `json:"price"`
	QuantityInStock    int                 `json:"quantity_in_stock"`
	AvailabilityStatus string              `json:"availability_status"`
	Electronic         *ElectronicResponse `json:"electronic,omitempty"`
	Book               *BookResponse       `json:"book,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
	LastModifiedAt     time.Time           `json:"last_modified_at"`
}

// ProductListResponse listado de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Total int               `json:"total"`
}

// StockChangeResponse resultado de un ajuste de stock.
type StockChangeResponse struct {
	SKU                string `json:"sku"`
	OldQuantity        int    `json:"old_quantity"`
	NewQuantity        int    `json:"new_quantity"`
	AvailabilityStatus string `json:"availability_status"`
}
