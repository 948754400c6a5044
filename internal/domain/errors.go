package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrInvalidInput     = errors.New("entrada inválida")
	ErrDuplicate        = errors.New("recurso duplicado")
	ErrInvalidOperation = errors.New("operación inválida para el estado actual")
	ErrPersistence      = errors.New("error de persistencia")
)
