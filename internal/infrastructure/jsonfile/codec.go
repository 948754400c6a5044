package jsonfile

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/catalogo-productos/internal/domain"
	"github.com/jhoicas/catalogo-productos/internal/domain/entity"
)

// productRecord esquema común persistido. availabilityStatus se escribe como conveniencia
// para lectores humanos y se ignora al leer (se recalcula desde la cantidad).
type productRecord struct {
	SKU                string          `json:"sku"`
	Name               string          `json:"name"`
	Description        string          `json:"description"`
	QuantityInStock    int             `json:"quantityInStock"`
	Price              decimal.Decimal `json:"price"`
	Category           string          `json:"category"`
	AvailabilityStatus string          `json:"availabilityStatus,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
	LastModifiedAt     time.Time       `json:"lastModifiedAt"`
}

type electronicRecord struct {
	productRecord
	Brand                string `json:"brand"`
	WarrantyPeriodMonths int    `json:"warrantyPeriodMonths"`
}

type bookRecord struct {
	productRecord
	Author    string `json:"author"`
	ISBN      string `json:"isbn"`
	Pages     int    `json:"pages"`
	Publisher string `json:"publisher"`
}

func (r productRecord) input() entity.ProductInput {
	return entity.ProductInput{
		SKU:            r.SKU,
		Name:           r.Name,
		Description:    r.Description,
		Price:          r.Price,
		Quantity:       r.QuantityInStock,
		Category:       entity.Category(r.Category),
		CreatedAt:      r.CreatedAt,
		LastModifiedAt: r.LastModifiedAt,
	}
}

func baseRecord(p *entity.Product) productRecord {
	return productRecord{
		SKU:                p.SKU(),
		Name:               p.Name(),
		Description:        p.Description(),
		QuantityInStock:    p.Quantity(),
		Price:              p.Price(),
		Category:           string(p.Category()),
		AvailabilityStatus: string(p.Status()),
		CreatedAt:          p.CreatedAt(),
		LastModifiedAt:     p.LastModifiedAt(),
	}
}

// EncodeProduct devuelve el valor serializable con el conjunto completo de campos de la variante concreta.
func EncodeProduct(p *entity.Product) any {
	base := baseRecord(p)
	if d, ok := p.Electronic(); ok {
		return electronicRecord{productRecord: base, Brand: d.Brand, WarrantyPeriodMonths: d.WarrantyPeriodMonths}
	}
	if d, ok := p.Book(); ok {
		return bookRecord{productRecord: base, Author: d.Author, ISBN: d.ISBN, Pages: d.Pages, Publisher: d.Publisher}
	}
	return base
}

// DecodeProduct reconstruye la variante correcta según el discriminador category:
// Electronics → electrónico, Books → libro, cualquier otro valor → producto base (con warning).
func DecodeProduct(raw json.RawMessage, log zerolog.Logger) (*entity.Product, error) {
	var head struct {
		Category string `json:"category"`
		SKU      string `json:"sku"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("%w: registro de producto: %w", domain.ErrPersistence, err)
	}

	switch entity.Category(head.Category) {
	case entity.CategoryElectronics:
		var rec electronicRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("%w: producto electrónico %s: %w", domain.ErrPersistence, head.SKU, err)
		}
		return entity.NewElectronicProduct(rec.input(), entity.ElectronicDetails{
			Brand:                rec.Brand,
			WarrantyPeriodMonths: rec.WarrantyPeriodMonths,
		})
	case entity.CategoryBooks:
		var rec bookRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("%w: libro %s: %w", domain.ErrPersistence, head.SKU, err)
		}
		return entity.NewBookProduct(rec.input(), entity.BookDetails{
			Author:    rec.Author,
			ISBN:      rec.ISBN,
			Pages:     rec.Pages,
			Publisher: rec.Publisher,
		})
	}

	if !entity.Category(head.Category).IsKnown() {
		log.Warn().
			Str("sku", head.SKU).
			Str("category", head.Category).
			Msg("categoría desconocida, se carga como producto base")
	}
	var rec productRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("%w: producto %s: %w", domain.ErrPersistence, head.SKU, err)
	}
	return entity.NewProduct(rec.input())
}
