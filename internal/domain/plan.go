package domain

import "time"

// PlanEntry is a scheduled, not-yet-executed visit slot.
//
// Dia/Mes/Anio are kept as three independent integers, exactly as the
// planning screens capture them. Only range checks apply (dia 1..31,
// mes 1..12); the system never validates the triple against a real
// calendar, so dia=31/mes=2 is stored as entered.
type PlanEntry struct {
	ID           string    `json:"id"`
	Gira         string    `json:"gira"`
	Dia          int       `json:"dia" validate:"min=1,max=31"`
	Mes          int       `json:"mes" validate:"min=1,max=12"`
	Anio         int       `json:"anio" validate:"min=2000"`
	Horario      string    `json:"horario"`
	Direccion    string    `json:"direccion"`
	NombreMedico string    `json:"nombre_medico"`
	ClienteID    string    `json:"cliente_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MatchesDate reports whether the entry targets the given triple exactly.
func (p *PlanEntry) MatchesDate(dia, mes, anio int) bool {
	return p.Dia == dia && p.Mes == mes && p.Anio == anio
}

// VisitTarget is a plan entry joined to the live client it resolved to.
// Entries that resolve to no client never become targets.
type VisitTarget struct {
	Entry  PlanEntry `json:"entry"`
	Client Client    `json:"client"`
}
