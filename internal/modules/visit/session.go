package visit

import (
	"math"
	"time"

	"github.com/google/uuid"

	"farmavisitas/internal/domain"
)

// State of one visit session. Finalized and Abandoned are terminal.
type State string

const (
	StateInProgress State = "in_progress"
	StateFinalized  State = "finalized"
	StateAbandoned  State = "abandoned"
)

// Session is one active visit: the selected client, the chosen price
// tier and the accumulating cart. It owns the cart exclusively until
// Finalize hands the resulting Visit/Sale pair over.
type Session struct {
	ID         string           `json:"id"`
	Client     domain.Client    `json:"client"`
	Gira       string           `json:"gira"`
	Fecha      string           `json:"fecha"`
	Hora       string           `json:"hora"`
	Tier       domain.PriceTier `json:"tier"`
	Items      []domain.SaleItem `json:"items"`
	Suggestion string           `json:"suggestion"`
	State      State            `json:"state"`
}

// NewSession starts an in-progress visit for a resolved client. Gira
// falls back to "General" when the plan entry carried none.
func NewSession(client domain.Client, gira string, now time.Time) *Session {
	if gira == "" {
		gira = "General"
	}
	return &Session{
		ID:         uuid.NewString(),
		Client:     client,
		Gira:       gira,
		Fecha:      domain.DateKey(now),
		Hora:       now.Format("15:04"),
		Tier:       domain.TierFarmacia,
		Suggestion: SuggestForSpecialty(client.Especialidad),
		State:      StateInProgress,
	}
}

// Snapshot returns a detached copy with its own items slice, safe to
// serialize outside the service lock.
func (s *Session) Snapshot() *Session {
	cp := *s
	cp.Items = append([]domain.SaleItem(nil), s.Items...)
	return &cp
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// SetPriceTier changes the tier for items added from now on. Lines
// already in the cart keep the price quoted when they were added; a tier
// switch never reprices them. The public tier is accepted all the way to
// finalization, matching the historical permissive behavior.
func (s *Session) SetPriceTier(tier domain.PriceTier) error {
	if s.State != StateInProgress {
		return ErrSessionClosed
	}
	if !tier.Valid() {
		return ErrInvalidTier
	}
	s.Tier = tier
	return nil
}

// AddItem puts qty units of med into the cart. An existing line grows by
// qty at its original captured price; a new line captures the price of
// the current tier.
func (s *Session) AddItem(med domain.Medicine, qty int) error {
	if s.State != StateInProgress {
		return ErrSessionClosed
	}
	if qty <= 0 {
		return ErrInvalidQuantity
	}

	for i := range s.Items {
		if s.Items[i].MedicamentoID == med.ID {
			s.Items[i].Cantidad += qty
			s.Items[i].Subtotal = round2(float64(s.Items[i].Cantidad) * s.Items[i].Precio)
			return nil
		}
	}

	precio := med.PriceFor(s.Tier)
	s.Items = append(s.Items, domain.SaleItem{
		MedicamentoID:     med.ID,
		MedicamentoNombre: med.Nombre,
		Cantidad:          qty,
		Precio:            precio,
		Subtotal:          round2(float64(qty) * precio),
	})
	return nil
}

// UpdateQuantity adds delta (possibly negative) to a line's cantidad,
// clamping at zero. A line reaching zero is removed; the cart never
// holds zero-quantity items.
func (s *Session) UpdateQuantity(medID string, delta int) error {
	if s.State != StateInProgress {
		return ErrSessionClosed
	}

	for i := range s.Items {
		if s.Items[i].MedicamentoID != medID {
			continue
		}
		q := s.Items[i].Cantidad + delta
		if q <= 0 {
			s.Items = append(s.Items[:i], s.Items[i+1:]...)
			return nil
		}
		s.Items[i].Cantidad = q
		s.Items[i].Subtotal = round2(float64(q) * s.Items[i].Precio)
		return nil
	}
	return ErrMedicineNotFound
}

// Total is the running cart total.
func (s *Session) Total() float64 {
	var t float64
	for _, it := range s.Items {
		t += it.Subtotal
	}
	return round2(t)
}

// Finalize closes the session into an immutable Visit. An empty cart is
// valid: the visit concludes without a sale. This is the single atomic
// commit point; nothing partial is ever observable.
func (s *Session) Finalize(notas string, now time.Time) (*domain.Visit, error) {
	if s.State != StateInProgress {
		return nil, ErrSessionClosed
	}
	s.State = StateFinalized

	v := &domain.Visit{
		ID:            s.ID,
		ClienteID:     s.Client.ID,
		ClienteNombre: s.Client.FullName(),
		Fecha:         s.Fecha,
		Hora:          s.Hora,
		Gira:          s.Gira,
		Notas:         notas,
		Completada:    true,
		CreatedAt:     now,
	}

	if len(s.Items) > 0 {
		items := make([]domain.SaleItem, len(s.Items))
		copy(items, s.Items)
		v.Venta = &domain.Sale{
			ID:       uuid.NewString(),
			VisitaID: v.ID,
			Fecha:    domain.DateKey(now),
			Items:    items,
			Total:    s.Total(),
		}
	}
	return v, nil
}

// Abandon terminates the session without committing anything.
func (s *Session) Abandon() error {
	if s.State != StateInProgress {
		return ErrSessionClosed
	}
	s.State = StateAbandoned
	return nil
}

// ComputeBonus picks the advisory bonus text for a quantity and tier.
// Bonus bands only exist on the pharmacy tier; the 10+ band wins over
// the 2-9 band. Never applied to subtotal math.
func ComputeBonus(med domain.Medicine, qty int, tier domain.PriceTier) string {
	if tier != domain.TierFarmacia {
		return "N/A (solo farmacia)"
	}
	switch {
	case qty >= 10 && med.Bonificacion10Mas != "":
		return med.Bonificacion10Mas
	case qty >= 10:
		return "N/A"
	case qty >= 2 && med.Bonificacion2a9 != "":
		return med.Bonificacion2a9
	default:
		return "N/A"
	}
}
