package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/jhoicas/catalogo-productos/internal/domain"
	"github.com/jhoicas/catalogo-productos/internal/domain/entity"
	"github.com/jhoicas/catalogo-productos/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo implementación del puerto CatalogRepository sobre un único documento JSON
// (arreglo plano de productos heterogéneos, indentado, UTF-8).
type CatalogRepo struct {
	path string
	log  zerolog.Logger
}

// NewCatalogRepository construye el adaptador para el archivo indicado.
func NewCatalogRepository(path string, log zerolog.Logger) *CatalogRepo {
	return &CatalogRepo{path: path, log: log.With().Str("component", "jsonfile").Str("path", path).Logger()}
}

// Path ruta del documento.
func (r *CatalogRepo) Path() string { return r.path }

// Load lee el documento completo. Archivo inexistente = primer arranque (catálogo vacío, sin error).
// JSON malformado o error de E/S = catálogo vacío y error envuelto en domain.ErrPersistence.
// Registros individuales inválidos se omiten con warning.
func (r *CatalogRepo) Load(ctx context.Context) ([]*entity.Product, error) {
	if err := ctx.Err(); err != nil {
		return []*entity.Product{}, err
	}
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.log.Info().Msg("archivo de catálogo inexistente, se inicia vacío")
			return []*entity.Product{}, nil
		}
		return []*entity.Product{}, fmt.Errorf("%w: leer catálogo: %w", domain.ErrPersistence, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []*entity.Product{}, nil
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return []*entity.Product{}, fmt.Errorf("%w: documento de catálogo malformado: %w", domain.ErrPersistence, err)
	}

	products := make([]*entity.Product, 0, len(raws))
	for i, raw := range raws {
		p, err := DecodeProduct(raw, r.log)
		if err != nil {
			r.log.Warn().Err(err).Int("index", i).Msg("registro de producto omitido")
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

// Save escribe el catálogo completo de forma atómica: archivo temporal en el mismo directorio,
// fsync y rename. Si algo falla el documento anterior queda intacto.
func (r *CatalogRepo) Save(ctx context.Context, products []*entity.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	records := make([]any, 0, len(products))
	for _, p := range products {
		records = append(records, EncodeProduct(p))
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: serializar catálogo: %w", domain.ErrPersistence, err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: crear directorio: %w", domain.ErrPersistence, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: crear temporal: %w", domain.ErrPersistence, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: escribir temporal: %w", domain.ErrPersistence, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: permisos temporal: %w", domain.ErrPersistence, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: sync temporal: %w", domain.ErrPersistence, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: cerrar temporal: %w", domain.ErrPersistence, err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("%w: reemplazar catálogo: %w", domain.ErrPersistence, err)
	}
	r.log.Debug().Int("products", len(products)).Msg("catálogo guardado")
	return nil
}
