package domain

import "time"

// Appointment is a scheduled meeting with a client, independent of the
// planning board. Notificado flips once the reminder ticker has fired
// for it so it is never announced twice.
type Appointment struct {
	ID            string    `json:"id"`
	ClienteID     string    `json:"cliente_id"`
	ClienteNombre string    `json:"cliente_nombre"`
	Fecha         string    `json:"fecha"` // YYYY-MM-DD
	Hora          string    `json:"hora"`  // HH:MM
	Motivo        string    `json:"motivo"`
	Recordatorio  bool      `json:"recordatorio"`
	Notificado    bool      `json:"notificado"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
