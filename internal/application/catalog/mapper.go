package catalog

import (
	"github.com/jhoicas/catalogo-productos/internal/application/dto"
	"github.com/jhoicas/catalogo-productos/internal/domain/entity"
)

// ToProductResponse convierte la entidad a su DTO de salida.
func ToProductResponse(p *entity.Product) dto.ProductResponse {
	out := dto.ProductResponse{
		SKU:                p.SKU(),
		Kind:               string(p.Kind()),
		Name:               p.Name(),
		Description:        p.Description(),
		Category:           string(p.Category()),
		Price:              p.Price(),
		QuantityInStock:    p.Quantity(),
		AvailabilityStatus: string(p.Status()),
		CreatedAt:          p.CreatedAt(),
		LastModifiedAt:     p.LastModifiedAt(),
	}
	if d, ok := p.Electronic(); ok {
		out.Electronic = &dto.ElectronicResponse{Brand: d.Brand, WarrantyPeriodMonths: d.WarrantyPeriodMonths}
	}
	if d, ok := p.Book(); ok {
		out.Book = &dto.BookResponse{Author: d.Author, ISBN: d.ISBN, Pages: d.Pages, Publisher: d.Publisher}
	}
	return out
}

// ToProductList convierte una lista de entidades.
func ToProductList(list []*entity.Product) dto.ProductListResponse {
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, ToProductResponse(p))
	}
	return dto.ProductListResponse{Items: items, Total: len(items)}
}
