package visit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"farmavisitas/internal/domain"
)

type MockVisitRepository struct {
	mock.Mock
}

func (m *MockVisitRepository) CreateCompleted(ctx context.Context, v *domain.Visit) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockVisitRepository) GetByID(ctx context.Context, id string) (*domain.Visit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Visit), args.Error(1)
}

func (m *MockVisitRepository) FindByDate(ctx context.Context, fecha string) ([]domain.Visit, error) {
	args := m.Called(ctx, fecha)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Visit), args.Error(1)
}

func (m *MockVisitRepository) FindByRange(ctx context.Context, desde, hasta string) ([]domain.Visit, error) {
	args := m.Called(ctx, desde, hasta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Visit), args.Error(1)
}

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) ResolveClientByID(id string) (domain.Client, bool) {
	args := m.Called(id)
	return args.Get(0).(domain.Client), args.Bool(1)
}

func (m *MockCatalog) ResolveClientByName(name string) (domain.Client, bool) {
	args := m.Called(name)
	return args.Get(0).(domain.Client), args.Bool(1)
}

func (m *MockCatalog) MedicineByID(id string) (domain.Medicine, bool) {
	args := m.Called(id)
	return args.Get(0).(domain.Medicine), args.Bool(1)
}

type MockMirror struct {
	mock.Mock
	done chan struct{}
}

func (m *MockMirror) MirrorVisit(ctx context.Context, v domain.Visit) error {
	args := m.Called(ctx, v)
	if m.done != nil {
		close(m.done)
	}
	return args.Error(0)
}

func TestService_Start_ResolvesByID(t *testing.T) {
	mockRepo := new(MockVisitRepository)
	mockCatalog := new(MockCatalog)
	mockCatalog.On("ResolveClientByID", "CL-001").Return(testClient(), true)

	service := NewService(mockRepo, mockCatalog, nil)

	sess, err := service.Start("CL-001", "", "Gira Occidente")
	assert.NoError(t, err)
	assert.Equal(t, "CL-001", sess.Client.ID)
	assert.Equal(t, "Gira Occidente", sess.Gira)
}

func TestService_Start_NameFallback(t *testing.T) {
	mockRepo := new(MockVisitRepository)
	mockCatalog := new(MockCatalog)
	mockCatalog.On("ResolveClientByID", "CL-GONE").Return(domain.Client{}, false)
	mockCatalog.On("ResolveClientByName", "María González").Return(testClient(), true)

	service := NewService(mockRepo, mockCatalog, nil)

	sess, err := service.Start("CL-GONE", "María González", "")
	assert.NoError(t, err)
	assert.Equal(t, "CL-001", sess.Client.ID)
}

func TestService_Start_Unresolvable(t *testing.T) {
	mockRepo := new(MockVisitRepository)
	mockCatalog := new(MockCatalog)
	mockCatalog.On("ResolveClientByID", "CL-GONE").Return(domain.Client{}, false)
	mockCatalog.On("ResolveClientByName", "Desconocido").Return(domain.Client{}, false)

	service := NewService(mockRepo, mockCatalog, nil)

	_, err := service.Start("CL-GONE", "Desconocido", "")
	assert.ErrorIs(t, err, ErrClientResolution)
}

func TestService_Start_OneSessionPerClient(t *testing.T) {
	mockRepo := new(MockVisitRepository)
	mockCatalog := new(MockCatalog)
	mockCatalog.On("ResolveClientByID", "CL-001").Return(testClient(), true)

	service := NewService(mockRepo, mockCatalog, nil)

	_, err := service.Start("CL-001", "", "")
	assert.NoError(t, err)

	_, err = service.Start("CL-001", "", "")
	assert.ErrorIs(t, err, ErrSessionActive)
}

func TestService_Finalize_PersistsAndMirrors(t *testing.T) {
	mockRepo := new(MockVisitRepository)
	mockCatalog := new(MockCatalog)
	mockCatalog.On("ResolveClientByID", "CL-001").Return(testClient(), true)
	mockCatalog.On("MedicineByID", "MED-001").Return(testMedicine(), true)

	mirror := &MockMirror{done: make(chan struct{})}
	mirror.On("MirrorVisit", mock.Anything, mock.Anything).Return(nil)

	service := NewService(mockRepo, mockCatalog, mirror)
	service.now = func() time.Time { return testNow }

	sess, err := service.Start("CL-001", "", "")
	assert.NoError(t, err)
	_, err = service.AddItem(sess.ID, "MED-001", 3)
	assert.NoError(t, err)
	_, err = service.AddItem(sess.ID, "MED-001", 2)
	assert.NoError(t, err)

	mockRepo.On("CreateCompleted", mock.Anything, mock.MatchedBy(func(v *domain.Visit) bool {
		return v.Venta != nil && v.Venta.Total == 50.00 && v.Completada
	})).Return(nil)

	v, err := service.Finalize(context.Background(), sess.ID, "pedido completo")
	assert.NoError(t, err)
	assert.Equal(t, 50.00, v.Venta.Total)

	select {
	case <-mirror.done:
	case <-time.After(2 * time.Second):
		t.Fatal("mirror was never called")
	}
	mockRepo.AssertExpectations(t)

	// Session is retired; the client can start a fresh one.
	_, err = service.Get(sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = service.Start("CL-001", "", "")
	assert.NoError(t, err)
}

func TestService_Abandon_NoSideEffects(t *testing.T) {
	mockRepo := new(MockVisitRepository)
	mockCatalog := new(MockCatalog)
	mockCatalog.On("ResolveClientByID", "CL-001").Return(testClient(), true)
	mockCatalog.On("MedicineByID", "MED-001").Return(testMedicine(), true)

	service := NewService(mockRepo, mockCatalog, nil)

	sess, err := service.Start("CL-001", "", "")
	assert.NoError(t, err)
	_, err = service.AddItem(sess.ID, "MED-001", 4)
	assert.NoError(t, err)

	assert.NoError(t, service.Abandon(sess.ID))
	mockRepo.AssertNotCalled(t, "CreateCompleted", mock.Anything, mock.Anything)

	_, err = service.Start("CL-001", "", "")
	assert.NoError(t, err)
}

func TestService_BonusPreview_UsesSessionTier(t *testing.T) {
	mockRepo := new(MockVisitRepository)
	mockCatalog := new(MockCatalog)
	mockCatalog.On("ResolveClientByID", "CL-001").Return(testClient(), true)
	mockCatalog.On("MedicineByID", "MED-001").Return(testMedicine(), true)

	service := NewService(mockRepo, mockCatalog, nil)

	sess, err := service.Start("CL-001", "", "")
	assert.NoError(t, err)

	bonus, err := service.BonusPreview(sess.ID, "MED-001", 10)
	assert.NoError(t, err)
	assert.Equal(t, "10+2", bonus)

	_, err = service.SetPriceTier(sess.ID, domain.TierMedico)
	assert.NoError(t, err)

	bonus, err = service.BonusPreview(sess.ID, "MED-001", 10)
	assert.NoError(t, err)
	assert.Equal(t, "N/A (solo farmacia)", bonus)
}

func TestService_Finalize_StoreFailureKeepsSession(t *testing.T) {
	mockRepo := new(MockVisitRepository)
	mockCatalog := new(MockCatalog)
	mockCatalog.On("ResolveClientByID", "CL-001").Return(testClient(), true)
	mockCatalog.On("MedicineByID", "MED-001").Return(testMedicine(), true)

	mirror := &MockMirror{done: make(chan struct{})}
	mirror.On("MirrorVisit", mock.Anything, mock.Anything).Return(nil)

	service := NewService(mockRepo, mockCatalog, mirror)
	service.now = func() time.Time { return testNow }

	sess, err := service.Start("CL-001", "", "")
	assert.NoError(t, err)
	_, err = service.AddItem(sess.ID, "MED-001", 3)
	assert.NoError(t, err)

	mockRepo.On("CreateCompleted", mock.Anything, mock.Anything).
		Return(errors.New("database is locked")).Once()

	_, err = service.Finalize(context.Background(), sess.ID, "")
	assert.Error(t, err)

	// The cart survived the failed write and stays editable.
	got, err := service.Get(sess.ID)
	assert.NoError(t, err)
	assert.Len(t, got.Items, 1)
	assert.Equal(t, 3, got.Items[0].Cantidad)
	_, err = service.AddItem(sess.ID, "MED-001", 2)
	assert.NoError(t, err)

	// A retry commits the accumulated cart.
	mockRepo.On("CreateCompleted", mock.Anything, mock.MatchedBy(func(v *domain.Visit) bool {
		return v.Venta != nil && v.Venta.Total == 50.00
	})).Return(nil).Once()

	v, err := service.Finalize(context.Background(), sess.ID, "segundo intento")
	assert.NoError(t, err)
	assert.Equal(t, 50.00, v.Venta.Total)

	select {
	case <-mirror.done:
	case <-time.After(2 * time.Second):
		t.Fatal("mirror was never called")
	}
	mockRepo.AssertExpectations(t)
}

func TestService_Accessors_ReturnDetachedCopies(t *testing.T) {
	mockRepo := new(MockVisitRepository)
	mockCatalog := new(MockCatalog)
	mockCatalog.On("ResolveClientByID", "CL-001").Return(testClient(), true)
	mockCatalog.On("MedicineByID", "MED-001").Return(testMedicine(), true)

	service := NewService(mockRepo, mockCatalog, nil)

	sess, err := service.Start("CL-001", "", "")
	assert.NoError(t, err)
	snap, err := service.AddItem(sess.ID, "MED-001", 3)
	assert.NoError(t, err)

	// Writing through a returned session must not touch the live one.
	snap.Items[0].Cantidad = 999
	snap.Tier = domain.TierPublico
	snap.State = StateAbandoned

	got, err := service.Get(sess.ID)
	assert.NoError(t, err)
	assert.Equal(t, 3, got.Items[0].Cantidad)
	assert.Equal(t, domain.TierFarmacia, got.Tier)
	assert.Equal(t, StateInProgress, got.State)
}
