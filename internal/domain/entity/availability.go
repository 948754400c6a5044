package entity

// AvailabilityStatus estado de disponibilidad derivado de la cantidad en stock.
// Nunca se persiste como fuente de verdad; siempre se recalcula.
type AvailabilityStatus string

const (
	StatusOutOfStock AvailabilityStatus = "OutOfStock"
	StatusLowStock   AvailabilityStatus = "LowStock"
	StatusInStock    AvailabilityStatus = "InStock"
)

// LowStockThreshold umbral plano (en unidades) para considerar stock bajo, igual para todas las categorías.
const LowStockThreshold = 5

// AvailabilityFor calcula el estado para una cantidad dada.
func AvailabilityFor(quantity int) AvailabilityStatus {
	switch {
	case quantity <= 0:
		return StatusOutOfStock
	case quantity <= LowStockThreshold:
		return StatusLowStock
	default:
		return StatusInStock
	}
}
