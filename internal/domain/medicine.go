package domain

import "time"

// PriceTier selects which of the three catalog prices applies to a sale line.
type PriceTier string

const (
	TierFarmacia PriceTier = "farmacia"
	TierMedico   PriceTier = "medico"
	// TierPublico is the reference price shown to the public. Selecting it
	// for a sale is still allowed, matching the historical behavior.
	TierPublico PriceTier = "publico"
)

func (t PriceTier) Valid() bool {
	switch t {
	case TierFarmacia, TierMedico, TierPublico:
		return true
	}
	return false
}

type Medicine struct {
	ID                string    `json:"id"`
	Nombre            string    `json:"nombre" validate:"required"`
	Presentacion      string    `json:"presentacion"`
	PrecioPublico     float64   `json:"precio_publico" validate:"gte=0"`
	PrecioFarmacia    float64   `json:"precio_farmacia" validate:"gte=0"`
	PrecioMedico      float64   `json:"precio_medico" validate:"gte=0"`
	Bonificacion2a9   string    `json:"bonificacion_2a9,omitempty"`
	Bonificacion10Mas string    `json:"bonificacion_10mas,omitempty"`
	Stock             int       `json:"stock" validate:"gte=0"`
	Oferta            bool      `json:"oferta"`
	DescripcionOferta string    `json:"descripcion_oferta,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// PriceFor returns the unit price for the given tier.
func (m *Medicine) PriceFor(tier PriceTier) float64 {
	switch tier {
	case TierFarmacia:
		return m.PrecioFarmacia
	case TierMedico:
		return m.PrecioMedico
	default:
		return m.PrecioPublico
	}
}
