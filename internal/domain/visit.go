package domain

import "time"

// Visit is the execution record of a client encounter. Once Completada is
// set the record is immutable; an incomplete visit never carries a Sale.
type Visit struct {
	ID            string    `json:"id"`
	ClienteID     string    `json:"cliente_id"`
	ClienteNombre string    `json:"cliente_nombre"`
	Fecha         string    `json:"fecha"` // YYYY-MM-DD
	Hora          string    `json:"hora"`  // HH:MM
	Gira          string    `json:"gira"`
	Notas         string    `json:"notas,omitempty"`
	Completada    bool      `json:"completada"`
	Venta         *Sale     `json:"venta,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// SaleItem is one cart line. Precio is the unit price captured when the
// line was first added; Subtotal is recomputed from Cantidad*Precio on
// every mutation and never stored independently.
type SaleItem struct {
	MedicamentoID     string  `json:"medicamento_id"`
	MedicamentoNombre string  `json:"medicamento_nombre"`
	Cantidad          int     `json:"cantidad"`
	Precio            float64 `json:"precio"`
	Subtotal          float64 `json:"subtotal"`
}

// Sale is created exactly once, atomically with visit finalization.
type Sale struct {
	ID       string     `json:"id"`
	VisitaID string     `json:"visita_id"`
	Fecha    string     `json:"fecha"`
	Items    []SaleItem `json:"items"`
	Total    float64    `json:"total"`
}

// DateKey formats a wall-clock day the way visit and sale records store it.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
