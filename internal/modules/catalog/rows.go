package catalog

import (
	"fmt"
	"strconv"

	"farmavisitas/internal/domain"
)

// Decoders for the mirror's Clientes and Medicamentos rows, the inverse
// of the encodings the sync module writes. Trailing cells the remote
// drops from short rows read as empty strings.

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func decodeClientRow(row []string) domain.Client {
	return domain.Client{
		ID:           cell(row, 0),
		Colegiado:    cell(row, 1),
		Especialidad: cell(row, 2),
		Nombre:       cell(row, 3),
		Apellido:     cell(row, 4),
		Direccion:    cell(row, 5),
		Municipio:    cell(row, 6),
		Departamento: cell(row, 7),
		Telefono:     cell(row, 8),
		Activo:       true,
	}
}

func decodeMedicineRow(row []string) (domain.Medicine, error) {
	m := domain.Medicine{
		ID:                cell(row, 0),
		Nombre:            cell(row, 1),
		Presentacion:      cell(row, 2),
		Bonificacion2a9:   cell(row, 6),
		Bonificacion10Mas: cell(row, 7),
	}

	var err error
	if m.PrecioPublico, err = parsePrice(cell(row, 3)); err != nil {
		return m, fmt.Errorf("medicamento %s: precio publico: %w", m.ID, err)
	}
	if m.PrecioFarmacia, err = parsePrice(cell(row, 4)); err != nil {
		return m, fmt.Errorf("medicamento %s: precio farmacia: %w", m.ID, err)
	}
	if m.PrecioMedico, err = parsePrice(cell(row, 5)); err != nil {
		return m, fmt.Errorf("medicamento %s: precio medico: %w", m.ID, err)
	}

	if s := cell(row, 8); s != "" {
		if m.Stock, err = strconv.Atoi(s); err != nil {
			return m, fmt.Errorf("medicamento %s: stock: %w", m.ID, err)
		}
	}

	// The Oferta cell is "NO", "SI" or the offer description itself.
	switch oferta := cell(row, 9); oferta {
	case "", "NO":
	case "SI":
		m.Oferta = true
	default:
		m.Oferta = true
		m.DescripcionOferta = oferta
	}
	return m, nil
}

func parsePrice(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
