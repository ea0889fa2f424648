package visit

type StartVisitRequest struct {
	ClienteID    string `json:"cliente_id"`
	NombreMedico string `json:"nombre_medico"`
	Gira         string `json:"gira"`
}

type SetTierRequest struct {
	Tier string `json:"tier" binding:"required"`
}

type AddItemRequest struct {
	MedicamentoID string `json:"medicamento_id" binding:"required"`
	Cantidad      int    `json:"cantidad"`
}

type UpdateQuantityRequest struct {
	MedicamentoID string `json:"medicamento_id" binding:"required"`
	Delta         int    `json:"delta" binding:"required"`
}

type FinalizeRequest struct {
	Notas string `json:"notas"`
}
