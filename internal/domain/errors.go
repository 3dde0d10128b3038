package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
)

// Errores del ciclo de vida del presupuesto y sus tokens públicos.
// Se mantienen separados para que el handler público pueda colapsarlos
// en una sola respuesta genérica sin perder el detalle en los logs.
var (
	ErrTokenNoEncontrado  = errors.New("token no encontrado")
	ErrTokenExpirado      = errors.New("token expirado")
	ErrTokenUsado         = errors.New("token ya utilizado")
	ErrAccionToken        = errors.New("el token no corresponde a esta acción")
	ErrYaRespondido       = errors.New("el presupuesto ya fue respondido")
	ErrPresupuestoVencido = errors.New("el presupuesto está vencido")
)
