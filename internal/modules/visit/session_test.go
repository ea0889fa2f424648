package visit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"farmavisitas/internal/domain"
)

var testNow = time.Date(2026, 8, 31, 10, 30, 0, 0, time.UTC)

func testClient() domain.Client {
	return domain.Client{
		ID:           "CL-001",
		Nombre:       "María",
		Apellido:     "González",
		Especialidad: "Pediatría",
		Activo:       true,
	}
}

func testMedicine() domain.Medicine {
	return domain.Medicine{
		ID:                "MED-001",
		Nombre:            "Amoxicilina 500mg",
		PrecioPublico:     15.00,
		PrecioFarmacia:    10.00,
		PrecioMedico:      12.00,
		Bonificacion2a9:   "10+1",
		Bonificacion10Mas: "10+2",
	}
}

func TestNewSession_Defaults(t *testing.T) {
	sess := NewSession(testClient(), "", testNow)

	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, "General", sess.Gira)
	assert.Equal(t, "2026-08-31", sess.Fecha)
	assert.Equal(t, "10:30", sess.Hora)
	assert.Equal(t, domain.TierFarmacia, sess.Tier)
	assert.Equal(t, StateInProgress, sess.State)
	assert.Equal(t, "Sugerir presentaciones pediátricas en jarabe y gotas.", sess.Suggestion)
}

func TestSession_AddItem_CapturesTierPrice(t *testing.T) {
	sess := NewSession(testClient(), "Gira Occidente", testNow)

	assert.NoError(t, sess.AddItem(testMedicine(), 3))
	assert.Len(t, sess.Items, 1)
	assert.Equal(t, 10.00, sess.Items[0].Precio)
	assert.Equal(t, 30.00, sess.Items[0].Subtotal)
}

func TestSession_AddItem_ExistingLineGrowsAtCapturedPrice(t *testing.T) {
	sess := NewSession(testClient(), "", testNow)
	med := testMedicine()

	assert.NoError(t, sess.AddItem(med, 3))

	// Switching the tier must not touch the line already in the cart.
	assert.NoError(t, sess.SetPriceTier(domain.TierMedico))
	assert.NoError(t, sess.AddItem(med, 2))

	assert.Len(t, sess.Items, 1)
	assert.Equal(t, 5, sess.Items[0].Cantidad)
	assert.Equal(t, 10.00, sess.Items[0].Precio)
	assert.Equal(t, 50.00, sess.Items[0].Subtotal)
	assert.Equal(t, 50.00, sess.Total())
}

func TestSession_AddItem_NewLineUsesCurrentTier(t *testing.T) {
	sess := NewSession(testClient(), "", testNow)

	assert.NoError(t, sess.SetPriceTier(domain.TierMedico))
	assert.NoError(t, sess.AddItem(testMedicine(), 2))

	assert.Equal(t, 12.00, sess.Items[0].Precio)
	assert.Equal(t, 24.00, sess.Total())
}

func TestSession_AddItem_RejectsNonPositiveQuantity(t *testing.T) {
	sess := NewSession(testClient(), "", testNow)

	assert.ErrorIs(t, sess.AddItem(testMedicine(), 0), ErrInvalidQuantity)
	assert.ErrorIs(t, sess.AddItem(testMedicine(), -1), ErrInvalidQuantity)
	assert.Empty(t, sess.Items)
}

func TestSession_SetPriceTier_PublicAllowed(t *testing.T) {
	sess := NewSession(testClient(), "", testNow)

	assert.NoError(t, sess.SetPriceTier(domain.TierPublico))
	assert.NoError(t, sess.AddItem(testMedicine(), 1))
	assert.Equal(t, 15.00, sess.Items[0].Precio)

	_, err := sess.Finalize("", testNow)
	assert.NoError(t, err)
}

func TestSession_SetPriceTier_Invalid(t *testing.T) {
	sess := NewSession(testClient(), "", testNow)
	assert.ErrorIs(t, sess.SetPriceTier("mayorista"), ErrInvalidTier)
}

func TestSession_UpdateQuantity_ClampsAndRemoves(t *testing.T) {
	sess := NewSession(testClient(), "", testNow)
	med := testMedicine()

	assert.NoError(t, sess.AddItem(med, 3))
	assert.NoError(t, sess.UpdateQuantity(med.ID, -1))
	assert.Equal(t, 2, sess.Items[0].Cantidad)
	assert.Equal(t, 20.00, sess.Items[0].Subtotal)

	// Dropping to zero or below removes the line entirely.
	assert.NoError(t, sess.UpdateQuantity(med.ID, -5))
	assert.Empty(t, sess.Items)

	assert.ErrorIs(t, sess.UpdateQuantity(med.ID, 1), ErrMedicineNotFound)
}

func TestSession_Finalize_EmptyCartNoSale(t *testing.T) {
	sess := NewSession(testClient(), "", testNow)

	v, err := sess.Finalize("sin pedido", testNow)
	assert.NoError(t, err)
	assert.True(t, v.Completada)
	assert.Nil(t, v.Venta)
	assert.Equal(t, "sin pedido", v.Notas)
	assert.Equal(t, StateFinalized, sess.State)
}

func TestSession_Finalize_WithSale(t *testing.T) {
	sess := NewSession(testClient(), "Gira Occidente", testNow)
	med := testMedicine()

	assert.NoError(t, sess.AddItem(med, 3))
	assert.NoError(t, sess.AddItem(med, 2))

	v, err := sess.Finalize("", testNow)
	assert.NoError(t, err)
	assert.NotNil(t, v.Venta)
	assert.Equal(t, v.ID, v.Venta.VisitaID)
	assert.Equal(t, 50.00, v.Venta.Total)
	assert.Len(t, v.Venta.Items, 1)
	assert.Equal(t, "María González", v.ClienteNombre)

	// Terminal: nothing else is accepted.
	assert.ErrorIs(t, sess.AddItem(med, 1), ErrSessionClosed)
	_, err = sess.Finalize("", testNow)
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestSession_Abandon(t *testing.T) {
	sess := NewSession(testClient(), "", testNow)
	assert.NoError(t, sess.AddItem(testMedicine(), 4))

	assert.NoError(t, sess.Abandon())
	assert.Equal(t, StateAbandoned, sess.State)
	assert.ErrorIs(t, sess.Abandon(), ErrSessionClosed)
}

func TestComputeBonus(t *testing.T) {
	med := testMedicine()

	tests := []struct {
		name string
		qty  int
		tier domain.PriceTier
		want string
	}{
		{"pharmacy 10+", 10, domain.TierFarmacia, "10+2"},
		{"pharmacy 2-9", 2, domain.TierFarmacia, "10+1"},
		{"pharmacy single unit", 1, domain.TierFarmacia, "N/A"},
		{"medico tier", 10, domain.TierMedico, "N/A (solo farmacia)"},
		{"publico tier", 10, domain.TierPublico, "N/A (solo farmacia)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeBonus(med, tt.qty, tt.tier))
		})
	}
}

func TestComputeBonus_EmptyBands(t *testing.T) {
	med := testMedicine()
	med.Bonificacion2a9 = ""
	med.Bonificacion10Mas = ""

	assert.Equal(t, "N/A", ComputeBonus(med, 5, domain.TierFarmacia))
	assert.Equal(t, "N/A", ComputeBonus(med, 15, domain.TierFarmacia))
}

func TestSuggestForSpecialty_FirstMatchWins(t *testing.T) {
	assert.Equal(t,
		"Sugerir línea cardiovascular: antihipertensivos y estatinas.",
		SuggestForSpecialty("Cardiología"))
	assert.Equal(t,
		"Revisar ofertas vigentes y bonificaciones por volumen.",
		SuggestForSpecialty("Farmacia"))
	assert.Equal(t,
		"Presentar el vademécum general y las ofertas del mes.",
		SuggestForSpecialty("Neurología"))
	assert.Equal(t,
		"Presentar el vademécum general y las ofertas del mes.",
		SuggestForSpecialty(""))
}
