package planning

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"farmavisitas/internal/domain"
)

type MockPlanRepository struct {
	mock.Mock
}

func (m *MockPlanRepository) Create(ctx context.Context, p *domain.PlanEntry) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPlanRepository) GetByID(ctx context.Context, id string) (*domain.PlanEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PlanEntry), args.Error(1)
}

func (m *MockPlanRepository) Update(ctx context.Context, p *domain.PlanEntry) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPlanRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPlanRepository) FindByDate(ctx context.Context, dia, mes, anio int) ([]domain.PlanEntry, error) {
	args := m.Called(ctx, dia, mes, anio)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PlanEntry), args.Error(1)
}

func (m *MockPlanRepository) ListAll(ctx context.Context) ([]domain.PlanEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PlanEntry), args.Error(1)
}

type MockClientResolver struct {
	mock.Mock
}

func (m *MockClientResolver) ResolveClientByID(id string) (domain.Client, bool) {
	args := m.Called(id)
	return args.Get(0).(domain.Client), args.Bool(1)
}

func (m *MockClientResolver) ResolveClientByName(name string) (domain.Client, bool) {
	args := m.Called(name)
	return args.Get(0).(domain.Client), args.Bool(1)
}

type MockVisitFinder struct {
	mock.Mock
}

func (m *MockVisitFinder) FindByDate(ctx context.Context, fecha string) ([]domain.Visit, error) {
	args := m.Called(ctx, fecha)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Visit), args.Error(1)
}

type MockMirror struct {
	mock.Mock
	planDone    chan struct{}
	rewriteDone chan struct{}
}

func (m *MockMirror) MirrorPlan(ctx context.Context, entry domain.PlanEntry) error {
	args := m.Called(ctx, entry)
	if m.planDone != nil {
		close(m.planDone)
	}
	return args.Error(0)
}

func (m *MockMirror) RewritePlans(ctx context.Context, entries []domain.PlanEntry) error {
	args := m.Called(ctx, entries)
	if m.rewriteDone != nil {
		close(m.rewriteDone)
	}
	return args.Error(0)
}

func validEntry() *domain.PlanEntry {
	return &domain.PlanEntry{
		Gira:         "Gira Occidente",
		Dia:          2,
		Mes:          9,
		Anio:         2026,
		Horario:      "09:00",
		NombreMedico: "María González",
		ClienteID:    "CL-001",
	}
}

func TestService_Add_RangeChecksOnly(t *testing.T) {
	mockPlans := new(MockPlanRepository)
	mockPlans.On("Create", mock.Anything, mock.Anything).Return(nil)

	service := NewService(mockPlans, nil, nil, nil)

	// dia=31/mes=2 is not a real date but passes: only ranges are checked.
	p := validEntry()
	p.Dia, p.Mes = 31, 2
	assert.NoError(t, service.Add(context.Background(), p))
	assert.NotEmpty(t, p.ID)

	bad := validEntry()
	bad.Dia = 32
	assert.ErrorIs(t, service.Add(context.Background(), bad), ErrValidation)

	bad = validEntry()
	bad.Mes = 0
	assert.ErrorIs(t, service.Add(context.Background(), bad), ErrValidation)

	bad = validEntry()
	bad.Anio = 1999
	assert.ErrorIs(t, service.Add(context.Background(), bad), ErrValidation)
}

func TestService_Add_RequiresSomeClientReference(t *testing.T) {
	service := NewService(new(MockPlanRepository), nil, nil, nil)

	p := validEntry()
	p.NombreMedico, p.ClienteID = "", ""
	assert.ErrorIs(t, service.Add(context.Background(), p), ErrValidation)
}

func TestService_Add_MirrorsEntry(t *testing.T) {
	mockPlans := new(MockPlanRepository)
	mockPlans.On("Create", mock.Anything, mock.Anything).Return(nil)

	mirror := &MockMirror{planDone: make(chan struct{})}
	mirror.On("MirrorPlan", mock.Anything, mock.Anything).Return(nil)

	service := NewService(mockPlans, nil, nil, mirror)

	assert.NoError(t, service.Add(context.Background(), validEntry()))

	select {
	case <-mirror.planDone:
	case <-time.After(2 * time.Second):
		t.Fatal("mirror was never called")
	}
}

func TestService_Remove_RewritesSurvivors(t *testing.T) {
	survivors := []domain.PlanEntry{*validEntry()}
	survivors[0].ID = "PL-002"

	mockPlans := new(MockPlanRepository)
	mockPlans.On("GetByID", mock.Anything, "PL-001").Return(validEntry(), nil)
	mockPlans.On("Delete", mock.Anything, "PL-001").Return(nil)
	mockPlans.On("ListAll", mock.Anything).Return(survivors, nil)

	mirror := &MockMirror{rewriteDone: make(chan struct{})}
	mirror.On("RewritePlans", mock.Anything, survivors).Return(nil)

	service := NewService(mockPlans, nil, nil, mirror)

	assert.NoError(t, service.Remove(context.Background(), "PL-001"))

	select {
	case <-mirror.rewriteDone:
	case <-time.After(2 * time.Second):
		t.Fatal("remote rewrite was never called")
	}
	mockPlans.AssertExpectations(t)
}

func TestService_Remove_NotFound(t *testing.T) {
	mockPlans := new(MockPlanRepository)
	mockPlans.On("GetByID", mock.Anything, "PL-404").Return(nil, gorm.ErrRecordNotFound)

	service := NewService(mockPlans, nil, nil, nil)

	assert.ErrorIs(t, service.Remove(context.Background(), "PL-404"), ErrNotFound)
	mockPlans.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestService_GenerateWeek_ExpandsMondayToFriday(t *testing.T) {
	mockPlans := new(MockPlanRepository)
	var created []domain.PlanEntry
	mockPlans.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		created = append(created, *args.Get(1).(*domain.PlanEntry))
	}).Return(nil)

	service := NewService(mockPlans, nil, nil, nil)

	// 2026-09-02 is a Wednesday; the containing week starts Monday the 31st.
	start := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	slots := []WeekSlot{
		{Weekday: 1, Horario: "09:00", NombreMedico: "María González"},
		{Weekday: 3, Horario: "11:00", NombreMedico: "Jorge Ramírez"},
		{Weekday: 5, Horario: "15:30", NombreMedico: "Farmacia La Bendición"},
	}

	out, err := service.GenerateWeek(context.Background(), start, "Gira Occidente", slots)
	assert.NoError(t, err)
	assert.Len(t, out, 3)
	assert.Len(t, created, 3)

	assert.Equal(t, 31, out[0].Dia)
	assert.Equal(t, 8, out[0].Mes)
	assert.Equal(t, 2026, out[0].Anio)

	assert.Equal(t, 2, out[1].Dia)
	assert.Equal(t, 9, out[1].Mes)

	assert.Equal(t, 4, out[2].Dia)
	assert.Equal(t, 9, out[2].Mes)

	for _, e := range out {
		assert.Equal(t, "Gira Occidente", e.Gira)
		assert.NotEmpty(t, e.ID)
	}
}

func TestService_GenerateWeek_RejectsBadSlots(t *testing.T) {
	service := NewService(new(MockPlanRepository), nil, nil, nil)

	_, err := service.GenerateWeek(context.Background(), time.Now(), "G", nil)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = service.GenerateWeek(context.Background(), time.Now(), "G",
		[]WeekSlot{{Weekday: 6, NombreMedico: "X"}})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_ResolveTargetsForToday_DropsDoneAndStale(t *testing.T) {
	now := time.Date(2026, 9, 2, 8, 0, 0, 0, time.UTC)

	entries := []domain.PlanEntry{
		{ID: "PL-001", Dia: 2, Mes: 9, Anio: 2026, ClienteID: "CL-001", NombreMedico: "María González"},
		{ID: "PL-002", Dia: 2, Mes: 9, Anio: 2026, NombreMedico: "Jorge Ramírez"},
		{ID: "PL-003", Dia: 2, Mes: 9, Anio: 2026, NombreMedico: "Doctor Inexistente"},
	}

	maria := domain.Client{ID: "CL-001", Nombre: "María", Apellido: "González", Activo: true}
	jorge := domain.Client{ID: "CL-002", Nombre: "Jorge", Apellido: "Ramírez", Activo: true}

	mockPlans := new(MockPlanRepository)
	mockPlans.On("FindByDate", mock.Anything, 2, 9, 2026).Return(entries, nil)

	mockClients := new(MockClientResolver)
	mockClients.On("ResolveClientByID", "CL-001").Return(maria, true)
	mockClients.On("ResolveClientByName", "Jorge Ramírez").Return(jorge, true)
	mockClients.On("ResolveClientByName", "Doctor Inexistente").Return(domain.Client{}, false)

	// María was already visited today, Jorge was not.
	mockVisits := new(MockVisitFinder)
	mockVisits.On("FindByDate", mock.Anything, "2026-09-02").Return([]domain.Visit{
		{ID: "V-001", ClienteID: "CL-001", Fecha: "2026-09-02", Completada: true},
	}, nil)

	service := NewService(mockPlans, mockClients, mockVisits, nil)

	targets, err := service.ResolveTargetsForToday(context.Background(), now)
	assert.NoError(t, err)
	assert.Len(t, targets, 1)
	assert.Equal(t, "CL-002", targets[0].Client.ID)
	assert.Equal(t, "PL-002", targets[0].Entry.ID)
}

func TestDeduplicateAgainstCompletedVisits_IgnoresIncomplete(t *testing.T) {
	targets := []domain.VisitTarget{
		{Entry: domain.PlanEntry{ID: "PL-001"}, Client: domain.Client{ID: "CL-001"}},
	}
	visits := []domain.Visit{
		{ClienteID: "CL-001", Fecha: "2026-09-02", Completada: false},
	}

	out := DeduplicateAgainstCompletedVisits(targets, visits, "2026-09-02")
	assert.Len(t, out, 1)
}
