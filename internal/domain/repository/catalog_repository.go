package repository

import (
	"context"

	"github.com/jhoicas/catalogo-productos/internal/domain/entity"
)

// CatalogRepository define el puerto de persistencia del catálogo completo (DIP).
// Load ante un origen inexistente devuelve un catálogo vacío sin error; ante datos corruptos
// devuelve un catálogo vacío junto con un error envuelto en domain.ErrPersistence.
type CatalogRepository interface {
	Load(ctx context.Context) ([]*entity.Product, error)
	Save(ctx context.Context, products []*entity.Product) error
}
