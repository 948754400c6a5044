package entity

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/catalogo-productos/internal/domain"
)

// Kind variante concreta de un producto.
type Kind string

const (
	KindBase       Kind = "base"
	KindElectronic Kind = "electronic"
	KindBook       Kind = "book"
)

// ElectronicDetails campos propios de un producto electrónico.
type ElectronicDetails struct {
	Brand                string
	WarrantyPeriodMonths int
}

// BookDetails campos propios de un libro.
type BookDetails struct {
	Author    string
	ISBN      string
	Pages     int
	Publisher string
}

// ProductInput datos comunes para construir cualquier variante de producto.
// CreatedAt/LastModifiedAt en cero se inicializan con la hora actual (se informan al restaurar desde persistencia).
type ProductInput struct {
	SKU            string
	Name           string
	Description    string
	Price          decimal.Decimal
	Quantity       int
	Category       Category
	CreatedAt      time.Time
	LastModifiedAt time.Time
}

// Product producto del catálogo. Es una variante etiquetada: campos comunes más, como mucho,
// un payload de electrónica o de libro. SKU y precio son inmutables tras la construcción.
type Product struct {
	sku            string
	name           string
	description    string
	quantity       int
	price          decimal.Decimal
	category       Category
	createdAt      time.Time
	lastModifiedAt time.Time

	electronic *ElectronicDetails
	book       *BookDetails

	subs   []subscription
	nextID SubscriptionID
}

// NormalizeSKU recorta espacios y pasa a mayúsculas. Es la clave del catálogo.
func NormalizeSKU(sku string) string {
	return cases.Upper(language.Und).String(strings.TrimSpace(sku))
}

// NewProduct construye un producto base. Las categorías Electronics y Books requieren su constructor de variante.
func NewProduct(in ProductInput) (*Product, error) {
	if in.Category == "" {
		in.Category = CategoryGeneral
	}
	if in.Category.IsVariant() {
		return nil, fmt.Errorf("%w: la categoría %s requiere datos de variante", domain.ErrInvalidInput, in.Category)
	}
	return newProduct(in)
}

// NewElectronicProduct construye un producto electrónico (categoría Electronics).
func NewElectronicProduct(in ProductInput, d ElectronicDetails) (*Product, error) {
	d.Brand = strings.TrimSpace(d.Brand)
	if d.Brand == "" {
		return nil, fmt.Errorf("%w: marca vacía", domain.ErrInvalidInput)
	}
	if d.WarrantyPeriodMonths < 0 {
		return nil, fmt.Errorf("%w: garantía negativa", domain.ErrInvalidInput)
	}
	in.Category = CategoryElectronics
	p, err := newProduct(in)
	if err != nil {
		return nil, err
	}
	p.electronic = &d
	return p, nil
}

// NewBookProduct construye un libro (categoría Books).
func NewBookProduct(in ProductInput, d BookDetails) (*Product, error) {
	d.Author = strings.TrimSpace(d.Author)
	d.ISBN = strings.TrimSpace(d.ISBN)
	d.Publisher = strings.TrimSpace(d.Publisher)
	switch {
	case d.Author == "":
		return nil, fmt.Errorf("%w: autor vacío", domain.ErrInvalidInput)
	case d.ISBN == "":
		return nil, fmt.Errorf("%w: isbn vacío", domain.ErrInvalidInput)
	case d.Publisher == "":
		return nil, fmt.Errorf("%w: editorial vacía", domain.ErrInvalidInput)
	case d.Pages <= 0:
		return nil, fmt.Errorf("%w: el número de páginas debe ser mayor que cero", domain.ErrInvalidInput)
	}
	in.Category = CategoryBooks
	p, err := newProduct(in)
	if err != nil {
		return nil, err
	}
	p.book = &d
	return p, nil
}

func newProduct(in ProductInput) (*Product, error) {
	sku := NormalizeSKU(in.SKU)
	name := strings.TrimSpace(in.Name)
	switch {
	case sku == "":
		return nil, fmt.Errorf("%w: sku vacío", domain.ErrInvalidInput)
	case name == "":
		return nil, fmt.Errorf("%w: nombre vacío", domain.ErrInvalidInput)
	case in.Price.IsNegative():
		return nil, fmt.Errorf("%w: precio negativo", domain.ErrInvalidInput)
	case in.Quantity < 0:
		return nil, fmt.Errorf("%w: cantidad negativa", domain.ErrInvalidInput)
	}
	now := time.Now().UTC()
	created := in.CreatedAt
	if created.IsZero() {
		created = now
	}
	modified := in.LastModifiedAt
	if modified.IsZero() {
		modified = created
	}
	return &Product{
		sku:            sku,
		name:           name,
		description:    strings.TrimSpace(in.Description),
		quantity:       in.Quantity,
		price:          in.Price,
		category:       in.Category,
		createdAt:      created,
		lastModifiedAt: modified,
	}, nil
}

func (p *Product) SKU() string                { return p.sku }
func (p *Product) Name() string               { return p.name }
func (p *Product) Description() string        { return p.description }
func (p *Product) Quantity() int              { return p.quantity }
func (p *Product) Price() decimal.Decimal     { return p.price }
func (p *Product) Category() Category         { return p.category }
func (p *Product) CreatedAt() time.Time       { return p.createdAt }
func (p *Product) LastModifiedAt() time.Time  { return p.lastModifiedAt }
func (p *Product) Status() AvailabilityStatus { return AvailabilityFor(p.quantity) }

// Kind devuelve la variante concreta.
func (p *Product) Kind() Kind {
	switch {
	case p.electronic != nil:
		return KindElectronic
	case p.book != nil:
		return KindBook
	default:
		return KindBase
	}
}

// Electronic devuelve los datos de electrónica si el producto es de esa variante.
func (p *Product) Electronic() (ElectronicDetails, bool) {
	if p.electronic == nil {
		return ElectronicDetails{}, false
	}
	return *p.electronic, true
}

// Book devuelve los datos de libro si el producto es de esa variante.
func (p *Product) Book() (BookDetails, bool) {
	if p.book == nil {
		return BookDetails{}, false
	}
	return *p.book, true
}

// UpdateStock aplica delta a la cantidad. Falla con ErrInvalidOperation si el resultado sería negativo
// y con ErrInvalidInput si desborda; en ambos casos no modifica nada.
// Notifica a los suscriptores solo si la cantidad cambió.
func (p *Product) UpdateStock(delta int) error {
	old := p.quantity
	if delta > 0 && old > math.MaxInt-delta {
		return fmt.Errorf("%w: delta %d desborda el stock de %s", domain.ErrInvalidInput, delta, p.sku)
	}
	next := old + delta
	if next < 0 {
		return fmt.Errorf("%w: stock de %s quedaría en %d", domain.ErrInvalidOperation, p.sku, next)
	}
	p.quantity = next
	p.lastModifiedAt = time.Now().UTC()
	if next == old {
		return nil
	}
	change := InventoryChange{
		SKU:         p.sku,
		ProductName: p.name,
		OldQuantity: old,
		NewQuantity: next,
		OccurredAt:  p.lastModifiedAt,
	}
	// Copia para que el despacho no dependa de la lista viva.
	subs := append([]subscription(nil), p.subs...)
	for _, s := range subs {
		s.listener(change)
	}
	return nil
}

// UpdateDetails modifica nombre, descripción y categoría. Precio y SKU no se tocan.
// Una variante no puede cambiar a una categoría de otra variante.
func (p *Product) UpdateDetails(name, description string, category Category) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: nombre vacío", domain.ErrInvalidInput)
	}
	if category == "" {
		category = p.category
	}
	switch p.Kind() {
	case KindElectronic:
		if category != CategoryElectronics {
			return fmt.Errorf("%w: un producto electrónico debe permanecer en %s", domain.ErrInvalidInput, CategoryElectronics)
		}
	case KindBook:
		if category != CategoryBooks {
			return fmt.Errorf("%w: un libro debe permanecer en %s", domain.ErrInvalidInput, CategoryBooks)
		}
	default:
		if category.IsVariant() {
			return fmt.Errorf("%w: la categoría %s requiere datos de variante", domain.ErrInvalidInput, category)
		}
	}
	p.name = name
	p.description = strings.TrimSpace(description)
	p.category = category
	p.lastModifiedAt = time.Now().UTC()
	return nil
}

// Subscribe registra un listener de cambios de inventario.
func (p *Product) Subscribe(l InventoryListener) SubscriptionID {
	p.nextID++
	p.subs = append(p.subs, subscription{id: p.nextID, listener: l})
	return p.nextID
}

// Unsubscribe cancela una suscripción. Devuelve false si no existía.
func (p *Product) Unsubscribe(id SubscriptionID) bool {
	for i, s := range p.subs {
		if s.id == id {
			p.subs = append(p.subs[:i:i], p.subs[i+1:]...)
			return true
		}
	}
	return false
}

// Subscribers cantidad de suscripciones activas.
func (p *Product) Subscribers() int { return len(p.subs) }

// Details representación legible: primero los campos comunes y luego los de la variante.
func (p *Product) Details() string {
	var b strings.Builder
	fmt.Fprintf(&b, "SKU: %s\n", p.sku)
	fmt.Fprintf(&b, "Nombre: %s\n", p.name)
	if p.description != "" {
		fmt.Fprintf(&b, "Descripción: %s\n", p.description)
	}
	fmt.Fprintf(&b, "Categoría: %s\n", p.category)
	fmt.Fprintf(&b, "Precio: %s\n", p.price.StringFixed(2))
	fmt.Fprintf(&b, "Existencias: %d (%s)\n", p.quantity, p.Status())
	switch {
	case p.electronic != nil:
		fmt.Fprintf(&b, "Marca: %s\n", p.electronic.Brand)
		fmt.Fprintf(&b, "Garantía: %d meses\n", p.electronic.WarrantyPeriodMonths)
	case p.book != nil:
		fmt.Fprintf(&b, "Autor: %s\n", p.book.Author)
		fmt.Fprintf(&b, "ISBN: %s\n", p.book.ISBN)
		fmt.Fprintf(&b, "Páginas: %d\n", p.book.Pages)
		fmt.Fprintf(&b, "Editorial: %s\n", p.book.Publisher)
	}
	return b.String()
}
