package entity

import "strings"

// Category clasifica un producto del catálogo y actúa como discriminador al persistir.
// Valores desconocidos se conservan tal cual (producto base).
type Category string

// Categorías conocidas.
const (
	CategoryElectronics Category = "Electronics"
	CategoryBooks       Category = "Books"
	CategoryClothing    Category = "Clothing"
	CategoryHome        Category = "Home"
	CategoryGeneral     Category = "General"
)

// KnownCategories lista las categorías reconocidas en orden estable.
var KnownCategories = []Category{
	CategoryElectronics,
	CategoryBooks,
	CategoryClothing,
	CategoryHome,
	CategoryGeneral,
}

// ParseCategory resuelve un nombre de categoría sin distinguir mayúsculas.
// Devuelve false si no es una categoría conocida.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range KnownCategories {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}
	return Category(s), false
}

// IsKnown indica si es exactamente una de las categorías conocidas.
func (c Category) IsKnown() bool {
	for _, k := range KnownCategories {
		if c == k {
			return true
		}
	}
	return false
}

// IsVariant indica si la categoría exige un payload de variante (electrónica o libro).
func (c Category) IsVariant() bool {
	return c == CategoryElectronics || c == CategoryBooks
}

func (c Category) String() string { return string(c) }
