package dto

import "time"

// CreateClienteRequest entrada para crear un cliente.
type CreateClienteRequest struct {
	Nombre    string `json:"nombre" validate:"required,min=1,max=200"`
	Documento string `json:"documento" validate:"required,min=3,max=30"`
	Email     string `json:"email" validate:"omitempty,email"`
	Telefono  string `json:"telefono" validate:"omitempty,max=30"`
	Direccion string `json:"direccion" validate:"omitempty,max=300"`
}

// UpdateClienteRequest entrada para actualizar un cliente (campos opcionales).
type UpdateClienteRequest struct {
	Nombre    *string `json:"nombre"`
	Email     *string `json:"email"`
	Telefono  *string `json:"telefono"`
	Direccion *string `json:"direccion"`
}

// ClienteResponse salida de un cliente.
type ClienteResponse struct {
	ID        string    `json:"id"`
	Nombre    string    `json:"nombre"`
	Documento string    `json:"documento"`
	Email     string    `json:"email"`
	Telefono  string    `json:"telefono"`
	Direccion string    `json:"direccion"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClienteListResponse listado paginado de clientes.
type ClienteListResponse struct {
	Items  []ClienteResponse `json:"items"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}
