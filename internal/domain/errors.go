package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrDuplicate              = errors.New("recurso duplicado")
	ErrConflict               = errors.New("conflicto con el estado actual")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrConcurrentModification = errors.New("el stock cambió desde el conteo; reintentar con conteo fresco")
	ErrAlreadyUndone          = errors.New("el movimiento ya fue revertido")
	ErrNotUndoable            = errors.New("el movimiento no es reversible")
)
