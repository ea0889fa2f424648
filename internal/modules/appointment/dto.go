package appointment

type CreateAppointmentRequest struct {
	ClienteID     string `json:"cliente_id"`
	ClienteNombre string `json:"cliente_nombre"`
	Fecha         string `json:"fecha" binding:"required"`
	Hora          string `json:"hora" binding:"required"`
	Motivo        string `json:"motivo"`
	Recordatorio  bool   `json:"recordatorio"`
}

type UpdateAppointmentRequest struct {
	ClienteID     string `json:"cliente_id"`
	ClienteNombre string `json:"cliente_nombre"`
	Fecha         string `json:"fecha" binding:"required"`
	Hora          string `json:"hora" binding:"required"`
	Motivo        string `json:"motivo"`
	Recordatorio  bool   `json:"recordatorio"`
}
