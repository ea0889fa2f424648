package sync

import (
	"fmt"
	"strconv"
	"strings"

	"farmavisitas/internal/domain"
)

// Row encodings for the six sub-tables. Column A is always the entity id;
// the append-or-update scan in the coordinator relies on that.

func clientRow(c domain.Client) []string {
	return []string{
		c.ID, c.Colegiado, c.Especialidad, c.Nombre, c.Apellido,
		c.Direccion, c.Municipio, c.Departamento, c.Telefono,
	}
}

func medicineRow(m domain.Medicine) []string {
	oferta := "NO"
	if m.Oferta {
		oferta = "SI"
		if m.DescripcionOferta != "" {
			oferta = m.DescripcionOferta
		}
	}
	return []string{
		m.ID, m.Nombre, m.Presentacion,
		money(m.PrecioPublico), money(m.PrecioFarmacia), money(m.PrecioMedico),
		m.Bonificacion2a9, m.Bonificacion10Mas,
		strconv.Itoa(m.Stock), oferta,
	}
}

func visitRow(v domain.Visit) []string {
	completada := "NO"
	if v.Completada {
		completada = "SI"
	}
	total := ""
	if v.Venta != nil {
		total = money(v.Venta.Total)
	}
	return []string{
		v.ID, v.ClienteID, v.ClienteNombre, v.Fecha, v.Hora,
		v.Gira, v.Notas, completada, total,
	}
}

func saleRow(s domain.Sale) []string {
	items := make([]string, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, fmt.Sprintf("%s x%d @%s", it.MedicamentoNombre, it.Cantidad, money(it.Precio)))
	}
	return []string{s.ID, s.VisitaID, s.Fecha, strings.Join(items, "; "), money(s.Total)}
}

func appointmentRow(a domain.Appointment) []string {
	recordatorio := "NO"
	if a.Recordatorio {
		recordatorio = "SI"
	}
	return []string{a.ID, a.ClienteID, a.ClienteNombre, a.Fecha, a.Hora, a.Motivo, recordatorio}
}

func planRow(p domain.PlanEntry) []string {
	return []string{
		p.ID, p.Gira,
		strconv.Itoa(p.Dia), strconv.Itoa(p.Mes), strconv.Itoa(p.Anio),
		p.Horario, p.Direccion, p.NombreMedico, p.ClienteID,
	}
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
