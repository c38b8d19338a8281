package domain

import "errors"

// Business errors keep the user-facing Spanish messages of the comedor app.
// Handlers map them to HTTP status codes; anything else is a store failure.

// Not-found conditions.
var (
	ErrMenuNotFound  = errors.New("menú no encontrado")
	ErrOrderNotFound = errors.New("pedido no encontrado")
	ErrUserNotFound  = errors.New("usuario no encontrado")
	ErrDishNotFound  = errors.New("plato no encontrado")
)

// Auth conditions.
var (
	ErrNotAuthenticated = errors.New("usuario no autenticado")
	ErrNotAuthorized    = errors.New("operación reservada para administradores")
)

// Business-rule violations.
var (
	ErrDuplicateOrder      = errors.New("ya tienes un pedido para este menú")
	ErrActiveOrderSameDay  = errors.New("ya tienes un pedido activo para ese día")
	ErrMenuNotAccepting    = errors.New("este menú no está aceptando pedidos")
	ErrInvalidComposition  = errors.New("composición de menú inválida")
	ErrMenuHasOrders       = errors.New("no se puede eliminar un menú que ya tiene pedidos")
	ErrOrderFinalized      = errors.New("el pedido ya está finalizado")
	ErrInvalidTransition   = errors.New("transición de estado no permitida")
	ErrQRCodeMismatch      = errors.New("código QR no válido")
	ErrAccountLocked       = errors.New("cuenta bloqueada por intentos fallidos")
	ErrUserInactive        = errors.New("usuario inactivo")
	ErrUserHasActiveOrders = errors.New("no se puede eliminar un usuario con pedidos activos")
	ErrInvalidCategory     = errors.New("categoría de plato inválida")
)
