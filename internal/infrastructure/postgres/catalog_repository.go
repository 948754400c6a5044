package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/catalogo-productos/internal/domain"
	"github.com/jhoicas/catalogo-productos/internal/domain/entity"
	"github.com/jhoicas/catalogo-productos/internal/domain/repository"
	"github.com/jhoicas/catalogo-productos/internal/infrastructure/jsonfile"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

const schemaSQL = `
	CREATE TABLE IF NOT EXISTS catalog_products (
		sku               TEXT PRIMARY KEY,
		category          TEXT NOT NULL,
		name              TEXT NOT NULL,
		price             NUMERIC NOT NULL CHECK (price >= 0),
		quantity_in_stock INTEGER NOT NULL CHECK (quantity_in_stock >= 0),
		attributes        JSONB NOT NULL,
		created_at        TIMESTAMPTZ NOT NULL,
		last_modified_at  TIMESTAMPTZ NOT NULL
	)`

const insertSQL = `
	INSERT INTO catalog_products (sku, category, name, price, quantity_in_stock, attributes, created_at, last_modified_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

// CatalogRepo implementación del puerto CatalogRepository sobre PostgreSQL.
// Cada fila guarda columnas consultables más el registro completo de la variante en attributes (jsonb),
// decodificado con las mismas reglas de discriminador que el repositorio de archivo.
// price es NUMERIC sin escala fija para no redondear respecto de attributes.
type CatalogRepo struct {
	db  DB
	tx  *TxRunner
	log zerolog.Logger
}

// NewCatalogRepository construye el adaptador. Pasar el pool.
func NewCatalogRepository(db DB, log zerolog.Logger) *CatalogRepo {
	return &CatalogRepo{db: db, tx: NewTxRunner(db), log: log.With().Str("component", "postgres").Logger()}
}

// EnsureSchema crea la tabla si no existe.
func (r *CatalogRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("%w: crear tabla catalog_products: %w", domain.ErrPersistence, err)
	}
	return nil
}

// Load lee todas las filas ordenadas por SKU. Una tabla vacía es un catálogo vacío.
func (r *CatalogRepo) Load(ctx context.Context) ([]*entity.Product, error) {
	rows, err := r.db.Query(ctx, `SELECT attributes FROM catalog_products ORDER BY sku`)
	if err != nil {
		return []*entity.Product{}, fmt.Errorf("%w: listar productos: %w", domain.ErrPersistence, err)
	}
	defer rows.Close()

	products := make([]*entity.Product, 0)
	for rows.Next() {
		var attrs []byte
		if err := rows.Scan(&attrs); err != nil {
			return []*entity.Product{}, fmt.Errorf("%w: scan producto: %w", domain.ErrPersistence, err)
		}
		p, err := jsonfile.DecodeProduct(attrs, r.log)
		if err != nil {
			r.log.Warn().Err(err).Msg("fila de producto omitida")
			continue
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return []*entity.Product{}, fmt.Errorf("%w: leer filas: %w", domain.ErrPersistence, err)
	}
	return products, nil
}

// Save reemplaza el contenido de la tabla en una sola transacción; ante cualquier fallo hace Rollback.
func (r *CatalogRepo) Save(ctx context.Context, products []*entity.Product) error {
	batch := &pgx.Batch{}
	for _, p := range products {
		row, err := newProductRow(p)
		if err != nil {
			return err
		}
		batch.Queue(insertSQL, row.args()...)
	}

	err := r.tx.Run(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM catalog_products`); err != nil {
			return fmt.Errorf("%w: vaciar catálogo: %w", domain.ErrPersistence, err)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %w", domain.ErrDuplicate, err)
			}
			return fmt.Errorf("%w: insertar productos: %w", domain.ErrPersistence, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	r.log.Debug().Int("products", len(products)).Msg("catálogo guardado")
	return nil
}

// productRow columnas de catalog_products para un producto.
type productRow struct {
	SKU            string
	Category       string
	Name           string
	Price          decimal.Decimal
	Quantity       int
	Attributes     []byte
	CreatedAt      time.Time
	LastModifiedAt time.Time
}

func newProductRow(p *entity.Product) (productRow, error) {
	attrs, err := json.Marshal(jsonfile.EncodeProduct(p))
	if err != nil {
		return productRow{}, fmt.Errorf("%w: serializar %s: %w", domain.ErrPersistence, p.SKU(), err)
	}
	return productRow{
		SKU:            p.SKU(),
		Category:       string(p.Category()),
		Name:           p.Name(),
		Price:          p.Price(),
		Quantity:       p.Quantity(),
		Attributes:     attrs,
		CreatedAt:      p.CreatedAt(),
		LastModifiedAt: p.LastModifiedAt(),
	}, nil
}

func (r productRow) args() []any {
	return []any{r.SKU, r.Category, r.Name, r.Price, r.Quantity, r.Attributes, r.CreatedAt, r.LastModifiedAt}
}
