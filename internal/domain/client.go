package domain

import (
	"strings"
	"time"
)

// Client is a visitable physician or pharmacy contact.
type Client struct {
	ID           string    `json:"id"`
	Colegiado    string    `json:"colegiado,omitempty"`
	Especialidad string    `json:"especialidad"`
	Nombre       string    `json:"nombre" validate:"required"`
	Apellido     string    `json:"apellido" validate:"required"`
	Direccion    string    `json:"direccion"`
	Municipio    string    `json:"municipio"`
	Departamento string    `json:"departamento"`
	Telefono     string    `json:"telefono"`
	Activo       bool      `json:"activo"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FullName returns "nombre apellido", the form plan entries denormalize.
func (c *Client) FullName() string {
	return strings.TrimSpace(c.Nombre + " " + c.Apellido)
}
