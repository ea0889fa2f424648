package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// The six sub-tables the mirror maintains, in sync order.
const (
	SheetClientes        = "Clientes"
	SheetMedicamentos    = "Medicamentos"
	SheetVisitas         = "Visitas"
	SheetVentas          = "Ventas"
	SheetCitas           = "Citas"
	SheetPlanificaciones = "Planificaciones"
)

// SheetNames lists the sub-tables in the order they are created and synced.
var SheetNames = []string{
	SheetClientes,
	SheetMedicamentos,
	SheetVisitas,
	SheetVentas,
	SheetCitas,
	SheetPlanificaciones,
}

// Headers gives the header row per sub-table. Column A is always the id;
// the append-or-update scan depends on that.
var Headers = map[string][]string{
	SheetClientes:        {"ID", "Colegiado", "Especialidad", "Nombre", "Apellido", "Direccion", "Municipio", "Departamento", "Telefono"},
	SheetMedicamentos:    {"ID", "Nombre", "Presentacion", "Precio Publico", "Precio Farmacia", "Precio Medico", "Bonificacion 2-9", "Bonificacion 10+", "Stock", "Oferta"},
	SheetVisitas:         {"ID", "Cliente ID", "Cliente", "Fecha", "Hora", "Gira", "Notas", "Completada", "Total Venta"},
	SheetVentas:          {"ID", "Visita ID", "Fecha", "Items", "Total"},
	SheetCitas:           {"ID", "Cliente ID", "Cliente", "Fecha", "Hora", "Motivo", "Recordatorio"},
	SheetPlanificaciones: {"ID", "Gira", "Dia", "Mes", "Anio", "Horario", "Direccion", "Medico", "Cliente ID"},
}

type createSpreadsheetRequest struct {
	Properties struct {
		Title string `json:"title"`
	} `json:"properties"`
	Sheets []struct {
		Properties struct {
			Title string `json:"title"`
		} `json:"properties"`
	} `json:"sheets"`
}

type createSpreadsheetResponse struct {
	SpreadsheetID string `json:"spreadsheetId"`
}

// EnsureSpreadsheet returns the document id, lazily creating the document
// with the six named sub-tables and their header rows on first use.
func (c *Client) EnsureSpreadsheet(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.spreadsheetID != "" {
		id := c.spreadsheetID
		c.mu.Unlock()
		return id, nil
	}
	c.mu.Unlock()

	var req createSpreadsheetRequest
	req.Properties.Title = "FarmaVisitas Backup"
	for _, name := range SheetNames {
		var s struct {
			Properties struct {
				Title string `json:"title"`
			} `json:"properties"`
		}
		s.Properties.Title = name
		req.Sheets = append(req.Sheets, s)
	}

	body, err := c.do(ctx, http.MethodPost, c.baseURL+"/spreadsheets", req)
	if err != nil {
		return "", fmt.Errorf("create spreadsheet: %w", err)
	}

	var resp createSpreadsheetResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("create spreadsheet: decode: %w", err)
	}
	if resp.SpreadsheetID == "" {
		return "", fmt.Errorf("create spreadsheet: empty spreadsheetId")
	}

	c.mu.Lock()
	c.spreadsheetID = resp.SpreadsheetID
	c.mu.Unlock()

	for _, name := range SheetNames {
		if err := c.UpdateValues(ctx, name+"!A1", [][]string{Headers[name]}); err != nil {
			return "", fmt.Errorf("seed header %s: %w", name, err)
		}
	}

	return resp.SpreadsheetID, nil
}
