package report

import (
	"context"
	"errors"
	"math"
	"sort"

	"farmavisitas/internal/domain"
)

var ErrValidation = errors.New("validation error")

// VisitSource supplies the visit records a summary folds over.
type VisitSource interface {
	FindByDate(ctx context.Context, fecha string) ([]domain.Visit, error)
	FindByRange(ctx context.Context, desde, hasta string) ([]domain.Visit, error)
}

// MedicineCount is one row of the top-sellers ranking.
type MedicineCount struct {
	MedicamentoID     string `json:"medicamento_id"`
	MedicamentoNombre string `json:"medicamento_nombre"`
	Cantidad          int    `json:"cantidad"`
}

// Summary aggregates a set of visits into the figures the end-of-day
// screen shows.
type Summary struct {
	Desde           string          `json:"desde"`
	Hasta           string          `json:"hasta"`
	TotalVisitas    int             `json:"total_visitas"`
	Completadas     int             `json:"completadas"`
	ConVenta        int             `json:"con_venta"`
	TotalVentas     float64         `json:"total_ventas"`
	TopMedicamentos []MedicineCount `json:"top_medicamentos"`
	GiraBreakdown   map[string]int  `json:"gira_breakdown"`
}

type Service struct {
	visits VisitSource
}

func NewService(visits VisitSource) *Service {
	return &Service{visits: visits}
}

func (s *Service) Daily(ctx context.Context, fecha string) (*Summary, error) {
	if fecha == "" {
		return nil, ErrValidation
	}
	visits, err := s.visits.FindByDate(ctx, fecha)
	if err != nil {
		return nil, err
	}
	sum := Build(visits, 5)
	sum.Desde, sum.Hasta = fecha, fecha
	return sum, nil
}

func (s *Service) Range(ctx context.Context, desde, hasta string) (*Summary, error) {
	if desde == "" || hasta == "" || desde > hasta {
		return nil, ErrValidation
	}
	visits, err := s.visits.FindByRange(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}
	sum := Build(visits, 5)
	sum.Desde, sum.Hasta = desde, hasta
	return sum, nil
}

// Build folds visits into a Summary, keeping at most topN medicines in
// the ranking. Ties break alphabetically so output is stable.
func Build(visits []domain.Visit, topN int) *Summary {
	sum := &Summary{
		TotalVisitas:    len(visits),
		TopMedicamentos: []MedicineCount{},
		GiraBreakdown:   map[string]int{},
	}

	counts := map[string]*MedicineCount{}
	for _, v := range visits {
		if v.Completada {
			sum.Completadas++
		}
		if v.Gira != "" {
			sum.GiraBreakdown[v.Gira]++
		}
		if v.Venta == nil {
			continue
		}
		sum.ConVenta++
		sum.TotalVentas += v.Venta.Total
		for _, it := range v.Venta.Items {
			mc, ok := counts[it.MedicamentoID]
			if !ok {
				mc = &MedicineCount{
					MedicamentoID:     it.MedicamentoID,
					MedicamentoNombre: it.MedicamentoNombre,
				}
				counts[it.MedicamentoID] = mc
			}
			mc.Cantidad += it.Cantidad
		}
	}
	sum.TotalVentas = math.Round(sum.TotalVentas*100) / 100

	ranked := make([]MedicineCount, 0, len(counts))
	for _, mc := range counts {
		ranked = append(ranked, *mc)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Cantidad != ranked[j].Cantidad {
			return ranked[i].Cantidad > ranked[j].Cantidad
		}
		return ranked[i].MedicamentoNombre < ranked[j].MedicamentoNombre
	})
	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	sum.TopMedicamentos = ranked
	return sum
}
