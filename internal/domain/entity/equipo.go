package entity

import "time"

// Equipo es el aparato que el cliente deja en el taller (celular, portátil, etc.).
type Equipo struct {
	ID          string
	ClienteID   string
	Tipo        string // celular, portatil, consola...
	Marca       string
	Modelo      string
	Serie       string // serial/IMEI, puede venir vacío
	Descripcion string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
