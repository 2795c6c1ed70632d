package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")

	// Motor de inventario y cuentas de socios.
	ErrConcurrentConflict  = errors.New("conflicto de escritura concurrente: reintentos agotados")
	ErrUnavailable         = errors.New("almacenamiento no disponible")
	ErrPartialCommit       = errors.New("venta registrada sin asiento en la cuenta del socio")
	ErrAlreadyConverted    = errors.New("la proforma ya fue convertida en venta")
	ErrInvalidState        = errors.New("el documento no admite esta operación en su estado actual")
	ErrPartnerTypeMismatch = errors.New("el tipo de socio no corresponde a la operación")
	ErrCreditLimitExceeded = errors.New("límite de crédito del cliente excedido")
)
