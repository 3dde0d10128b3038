package entity

import "time"

// Cliente es el dueño de los equipos que entran al taller.
type Cliente struct {
	ID        string
	Nombre    string
	Documento string // NIT o cédula, único
	Email     string
	Telefono  string
	Direccion string
	CreatedAt time.Time
	UpdatedAt time.Time
}
