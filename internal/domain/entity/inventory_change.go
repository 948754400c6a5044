package entity

import "time"

// InventoryChange notificación emitida cuando cambia la cantidad en stock de un producto.
type InventoryChange struct {
	SKU         string
	ProductName string
	OldQuantity int
	NewQuantity int
	OccurredAt  time.Time
}

// Delta diferencia aplicada (nueva - anterior).
func (c InventoryChange) Delta() int { return c.NewQuantity - c.OldQuantity }

// InventoryListener recibe notificaciones de cambio de inventario de forma síncrona.
// No debe suscribir ni desuscribir listeners del mismo producto durante el despacho.
type InventoryListener func(InventoryChange)

// SubscriptionID identifica una suscripción para poder cancelarla.
type SubscriptionID int

type subscription struct {
	id       SubscriptionID
	listener InventoryListener
}
