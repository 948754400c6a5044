package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/text/cases"

	"github.com/jhoicas/catalogo-productos/internal/application/dto"
	"github.com/jhoicas/catalogo-productos/internal/domain"
	"github.com/jhoicas/catalogo-productos/internal/domain/entity"
	"github.com/jhoicas/catalogo-productos/internal/domain/repository"
)

type entry struct {
	product *entity.Product
	sub     entity.SubscriptionID
}

// Manager administra el catálogo en memoria (clave: SKU normalizado) y media todas las operaciones.
// Se suscribe a los cambios de inventario de cada producto que contiene para registrarlos en el log.
// No es seguro para uso concurrente: el llamador debe sincronizar si comparte la instancia.
type Manager struct {
	repo        repository.CatalogRepository
	log         zerolog.Logger
	products    map[string]entry
	listeners   []entity.InventoryListener
	initialized bool
}

// NewManager construye el gestor. El catálogo inicia vacío hasta llamar Load.
func NewManager(repo repository.CatalogRepository, log zerolog.Logger) *Manager {
	return &Manager{
		repo:     repo,
		log:      log.With().Str("component", "catalog").Logger(),
		products: make(map[string]entry),
	}
}

// Initialized indica si ya se intentó cargar el catálogo desde el repositorio.
func (m *Manager) Initialized() bool { return m.initialized }

// Len cantidad de productos en el catálogo.
func (m *Manager) Len() int { return len(m.products) }

// OnInventoryChange registra un observador adicional que recibe los cambios de todos los productos.
func (m *Manager) OnInventoryChange(l entity.InventoryListener) {
	m.listeners = append(m.listeners, l)
}

// Load reemplaza el catálogo en memoria con el contenido del repositorio.
// Si el repositorio falla el catálogo queda vacío y el error se registra y devuelve (no es fatal).
func (m *Manager) Load(ctx context.Context) error {
	m.clear()
	m.initialized = true

	products, err := m.repo.Load(ctx)
	if err != nil {
		m.log.Error().Err(err).Msg("no se pudo cargar el catálogo, se continúa con catálogo vacío")
		return err
	}
	for _, p := range products {
		key := p.SKU()
		if _, exists := m.products[key]; exists {
			m.log.Warn().Str("sku", key).Msg("SKU duplicado en el origen, se conserva el primero")
			continue
		}
		m.insert(p)
	}
	m.log.Info().Int("products", len(m.products)).Msg("catálogo cargado")
	return nil
}

// Save persiste el catálogo completo ordenado por SKU. Un fallo se informa una vez, sin reintentos.
func (m *Manager) Save(ctx context.Context) error {
	products := make([]*entity.Product, 0, len(m.products))
	for _, e := range m.products {
		products = append(products, e.product)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].SKU() < products[j].SKU() })

	if err := m.repo.Save(ctx, products); err != nil {
		m.log.Error().Err(err).Msg("no se pudo guardar el catálogo")
		return err
	}
	m.log.Info().Int("products", len(products)).Msg("catálogo guardado")
	return nil
}

// AddProduct agrega un producto y se suscribe a sus cambios de inventario.
// Rechaza SKUs duplicados (sin distinguir mayúsculas) sin modificar el catálogo.
func (m *Manager) AddProduct(p *entity.Product) error {
	if p == nil {
		return fmt.Errorf("%w: producto nulo", domain.ErrInvalidInput)
	}
	if _, exists := m.products[p.SKU()]; exists {
		m.log.Warn().Str("sku", p.SKU()).Msg("producto duplicado")
		return fmt.Errorf("%w: sku %s", domain.ErrDuplicate, p.SKU())
	}
	m.insert(p)
	m.log.Info().Str("sku", p.SKU()).Str("kind", string(p.Kind())).Msg("producto agregado")
	return nil
}

// GetBySKU busca un producto sin distinguir mayúsculas.
func (m *Manager) GetBySKU(sku string) (*entity.Product, bool) {
	e, ok := m.products[entity.NormalizeSKU(sku)]
	if !ok {
		return nil, false
	}
	return e.product, true
}

// UpdateDetails actualiza nombre, descripción y categoría. Precio y SKU son inmutables.
func (m *Manager) UpdateDetails(sku, name, description string, category entity.Category) error {
	p, ok := m.GetBySKU(sku)
	if !ok {
		return m.notFound(sku)
	}
	if err := p.UpdateDetails(name, description, category); err != nil {
		m.log.Warn().Err(err).Str("sku", p.SKU()).Msg("actualización rechazada")
		return err
	}
	m.log.Info().Str("sku", p.SKU()).Msg("detalles actualizados")
	return nil
}

// AdjustStock aplica delta al stock del producto. La notificación la emite el propio producto.
func (m *Manager) AdjustStock(sku string, delta int) error {
	p, ok := m.GetBySKU(sku)
	if !ok {
		return m.notFound(sku)
	}
	if err := p.UpdateStock(delta); err != nil {
		m.log.Warn().Err(err).Str("sku", p.SKU()).Int("delta", delta).Msg("ajuste de stock rechazado")
		return err
	}
	return nil
}

// RemoveProduct elimina el producto y cancela la suscripción a sus notificaciones.
func (m *Manager) RemoveProduct(sku string) error {
	key := entity.NormalizeSKU(sku)
	e, ok := m.products[key]
	if !ok {
		return m.notFound(sku)
	}
	e.product.Unsubscribe(e.sub)
	delete(m.products, key)
	m.log.Info().Str("sku", key).Msg("producto eliminado")
	return nil
}

// ListAll devuelve los productos ordenados por nombre, opcionalmente filtrados por categoría.
// Un resultado vacío es válido.
func (m *Manager) ListAll(filter *entity.Category) []*entity.Product {
	out := make([]*entity.Product, 0, len(m.products))
	for _, e := range m.products {
		if filter != nil && e.product.Category() != *filter {
			continue
		}
		out = append(out, e.product)
	}
	sortByName(out)
	return out
}

// Search coincidencia por subcadena, sin distinguir mayúsculas, sobre nombre, descripción y SKU.
func (m *Manager) Search(term string) ([]*entity.Product, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, fmt.Errorf("%w: término de búsqueda vacío", domain.ErrInvalidInput)
	}
	fold := cases.Fold()
	needle := fold.String(term)
	out := make([]*entity.Product, 0)
	for _, e := range m.products {
		p := e.product
		if strings.Contains(fold.String(p.Name()), needle) ||
			strings.Contains(fold.String(p.Description()), needle) ||
			strings.Contains(fold.String(p.SKU()), needle) {
			out = append(out, p)
		}
	}
	sortByName(out)
	return out, nil
}

// LowStock productos en LowStock u OutOfStock, de menor a mayor cantidad.
func (m *Manager) LowStock() []*entity.Product {
	out := make([]*entity.Product, 0)
	for _, e := range m.products {
		if e.product.Status() != entity.StatusInStock {
			out = append(out, e.product)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Quantity() != out[j].Quantity() {
			return out[i].Quantity() < out[j].Quantity()
		}
		return out[i].SKU() < out[j].SKU()
	})
	return out
}

// Snapshot representación DTO del catálogo completo, ordenada por nombre.
func (m *Manager) Snapshot() dto.ProductListResponse {
	return ToProductList(m.ListAll(nil))
}

func (m *Manager) insert(p *entity.Product) {
	sub := p.Subscribe(m.handleInventoryChange)
	m.products[p.SKU()] = entry{product: p, sub: sub}
}

func (m *Manager) clear() {
	for key, e := range m.products {
		e.product.Unsubscribe(e.sub)
		delete(m.products, key)
	}
}

func (m *Manager) notFound(sku string) error {
	m.log.Warn().Str("sku", sku).Msg("producto no encontrado")
	return fmt.Errorf("%w: sku %s", domain.ErrNotFound, entity.NormalizeSKU(sku))
}

// handleInventoryChange único efecto transversal: registro de observabilidad y reenvío a observadores.
func (m *Manager) handleInventoryChange(c entity.InventoryChange) {
	m.log.Info().
		Str("event_id", uuid.New().String()).
		Str("sku", c.SKU).
		Str("name", c.ProductName).
		Int("old_quantity", c.OldQuantity).
		Int("new_quantity", c.NewQuantity).
		Int("delta", c.Delta()).
		Str("status", string(entity.AvailabilityFor(c.NewQuantity))).
		Time("occurred_at", c.OccurredAt).
		Msg("inventario actualizado")
	for _, l := range m.listeners {
		l(c)
	}
}

func sortByName(list []*entity.Product) {
	fold := cases.Fold()
	sort.SliceStable(list, func(i, j int) bool {
		a, b := fold.String(list[i].Name()), fold.String(list[j].Name())
		if a != b {
			return a < b
		}
		return list[i].SKU() < list[j].SKU()
	})
}
