package planning

type CreatePlanRequest struct {
	Gira         string `json:"gira"`
	Dia          int    `json:"dia" binding:"required"`
	Mes          int    `json:"mes" binding:"required"`
	Anio         int    `json:"anio" binding:"required"`
	Horario      string `json:"horario"`
	Direccion    string `json:"direccion"`
	NombreMedico string `json:"nombre_medico"`
	ClienteID    string `json:"cliente_id"`
}

type GenerateWeekRequest struct {
	// Any date inside the target week; generation covers its Mon..Fri.
	Fecha string     `json:"fecha" binding:"required"` // YYYY-MM-DD
	Gira  string     `json:"gira"`
	Slots []WeekSlot `json:"slots" binding:"required"`
}
