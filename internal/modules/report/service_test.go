package report

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"farmavisitas/internal/domain"
)

type MockVisitSource struct {
	mock.Mock
}

func (m *MockVisitSource) FindByDate(ctx context.Context, fecha string) ([]domain.Visit, error) {
	args := m.Called(ctx, fecha)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Visit), args.Error(1)
}

func (m *MockVisitSource) FindByRange(ctx context.Context, desde, hasta string) ([]domain.Visit, error) {
	args := m.Called(ctx, desde, hasta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Visit), args.Error(1)
}

func sampleVisits() []domain.Visit {
	return []domain.Visit{
		{
			ID: "V-001", Fecha: "2026-09-02", Gira: "Gira Occidente", Completada: true,
			Venta: &domain.Sale{
				ID: "S-001", Total: 50.00,
				Items: []domain.SaleItem{
					{MedicamentoID: "MED-001", MedicamentoNombre: "Amoxicilina 500mg", Cantidad: 5},
				},
			},
		},
		{
			ID: "V-002", Fecha: "2026-09-02", Gira: "Gira Occidente", Completada: true,
			Venta: &domain.Sale{
				ID: "S-002", Total: 66.00,
				Items: []domain.SaleItem{
					{MedicamentoID: "MED-002", MedicamentoNombre: "Ibuprofeno 400mg", Cantidad: 12},
					{MedicamentoID: "MED-001", MedicamentoNombre: "Amoxicilina 500mg", Cantidad: 2},
				},
			},
		},
		{ID: "V-003", Fecha: "2026-09-02", Gira: "General", Completada: true},
		{ID: "V-004", Fecha: "2026-09-02", Completada: false},
	}
}

func TestBuild_Folds(t *testing.T) {
	sum := Build(sampleVisits(), 5)

	assert.Equal(t, 4, sum.TotalVisitas)
	assert.Equal(t, 3, sum.Completadas)
	assert.Equal(t, 2, sum.ConVenta)
	assert.Equal(t, 116.00, sum.TotalVentas)
	assert.Equal(t, 2, sum.GiraBreakdown["Gira Occidente"])
	assert.Equal(t, 1, sum.GiraBreakdown["General"])
}

func TestBuild_TopMedicinesRankedByQuantity(t *testing.T) {
	sum := Build(sampleVisits(), 5)

	assert.Len(t, sum.TopMedicamentos, 2)
	assert.Equal(t, "MED-002", sum.TopMedicamentos[0].MedicamentoID)
	assert.Equal(t, 12, sum.TopMedicamentos[0].Cantidad)
	// MED-001 accumulates across both sales.
	assert.Equal(t, "MED-001", sum.TopMedicamentos[1].MedicamentoID)
	assert.Equal(t, 7, sum.TopMedicamentos[1].Cantidad)
}

func TestBuild_TopNLimitAndTies(t *testing.T) {
	visits := []domain.Visit{
		{
			ID: "V-001", Completada: true,
			Venta: &domain.Sale{Items: []domain.SaleItem{
				{MedicamentoID: "B", MedicamentoNombre: "Beta", Cantidad: 3},
				{MedicamentoID: "A", MedicamentoNombre: "Alfa", Cantidad: 3},
				{MedicamentoID: "C", MedicamentoNombre: "Gamma", Cantidad: 1},
			}},
		},
	}

	sum := Build(visits, 2)
	assert.Len(t, sum.TopMedicamentos, 2)
	// Tied quantities break alphabetically by name.
	assert.Equal(t, "Alfa", sum.TopMedicamentos[0].MedicamentoNombre)
	assert.Equal(t, "Beta", sum.TopMedicamentos[1].MedicamentoNombre)
}

func TestBuild_Empty(t *testing.T) {
	sum := Build(nil, 5)
	assert.Equal(t, 0, sum.TotalVisitas)
	assert.Equal(t, 0.0, sum.TotalVentas)
	assert.Empty(t, sum.TopMedicamentos)
}

func TestService_Daily(t *testing.T) {
	mockVisits := new(MockVisitSource)
	mockVisits.On("FindByDate", mock.Anything, "2026-09-02").Return(sampleVisits(), nil)

	service := NewService(mockVisits)

	sum, err := service.Daily(context.Background(), "2026-09-02")
	assert.NoError(t, err)
	assert.Equal(t, "2026-09-02", sum.Desde)
	assert.Equal(t, "2026-09-02", sum.Hasta)
	assert.Equal(t, 4, sum.TotalVisitas)

	_, err = service.Daily(context.Background(), "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_Range_OrderedBounds(t *testing.T) {
	mockVisits := new(MockVisitSource)
	mockVisits.On("FindByRange", mock.Anything, "2026-09-01", "2026-09-05").Return(sampleVisits(), nil)

	service := NewService(mockVisits)

	sum, err := service.Range(context.Background(), "2026-09-01", "2026-09-05")
	assert.NoError(t, err)
	assert.Equal(t, 4, sum.TotalVisitas)

	_, err = service.Range(context.Background(), "2026-09-05", "2026-09-01")
	assert.ErrorIs(t, err, ErrValidation)
}
