package domain

import "errors"

// Errores de dominio (sin dependencias externas). Todos recuperables por el
// llamador; el núcleo nunca termina el proceso.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInsufficientStock  = errors.New("stock insuficiente")

	// ErrInvalidTransition: transición de estado fuera de la tabla permitida.
	ErrInvalidTransition = errors.New("transición de estado no permitida")
	// ErrInvalidExpenseState: aprobar o rechazar un gasto que no está pendiente.
	ErrInvalidExpenseState = errors.New("el gasto no está pendiente")
	ErrCashCutAlreadyOpen  = errors.New("ya existe un corte de caja abierto para la bodega")
	ErrCashCutClosed       = errors.New("el corte de caja ya está cerrado")
	ErrNoOpenCashCut       = errors.New("no hay corte de caja abierto para la bodega")

	// ErrTransient: conflicto de concurrencia que persistió tras los
	// reintentos acotados; el llamador puede reintentar la operación completa.
	ErrTransient = errors.New("conflicto transitorio, reintente la operación")
)
