package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"farmavisitas/internal/domain"
	"farmavisitas/internal/repository"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	if u != nil {
		u.ID = 42
	}
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockJWT struct {
	mock.Mock
}

func (m *MockJWT) GenerateToken(userID int64, role string) (string, error) {
	args := m.Called(userID, role)
	return args.String(0), args.Error(1)
}

func TestService_Register_HashesAndDefaultsToRep(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockUsers.On("Create", mock.Anything, mock.Anything).Return(nil)

	service := NewService(mockUsers, new(MockJWT))

	u, err := service.Register(context.Background(), RegisterRequest{
		Email:    "Visitador@FarmaVisitas.GT",
		Password: "visita123",
		Nombre:   "Carlos Visitador",
	})
	assert.NoError(t, err)
	assert.Equal(t, "visitador@farmavisitas.gt", u.Email)
	assert.Equal(t, domain.RoleRep, u.Role)
	assert.NotEqual(t, "visita123", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("visita123")))
}

func TestService_Register_ShortPassword(t *testing.T) {
	service := NewService(new(MockUserRepository), new(MockJWT))

	_, err := service.Register(context.Background(), RegisterRequest{
		Email:    "x@y.gt",
		Password: "corta",
		Nombre:   "X",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_Register_EmailTaken(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockUsers.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicateID)

	service := NewService(mockUsers, new(MockJWT))

	_, err := service.Register(context.Background(), RegisterRequest{
		Email:    "visitador@farmavisitas.gt",
		Password: "visita123",
		Nombre:   "Carlos",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestService_Login(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("visita123"), bcrypt.DefaultCost)
	stored := &domain.User{
		ID:           42,
		Email:        "visitador@farmavisitas.gt",
		PasswordHash: string(hash),
		Role:         domain.RoleRep,
	}

	mockUsers := new(MockUserRepository)
	mockUsers.On("GetByEmail", mock.Anything, "visitador@farmavisitas.gt").Return(stored, nil)

	mockJWT := new(MockJWT)
	mockJWT.On("GenerateToken", int64(42), "rep").Return("signed-token", nil)

	service := NewService(mockUsers, mockJWT)

	u, token, err := service.Login(context.Background(), LoginRequest{
		Email:    "visitador@farmavisitas.gt",
		Password: "visita123",
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(42), u.ID)
	assert.Equal(t, "signed-token", token)
}

func TestService_Login_WrongPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("visita123"), bcrypt.DefaultCost)
	stored := &domain.User{ID: 42, PasswordHash: string(hash)}

	mockUsers := new(MockUserRepository)
	mockUsers.On("GetByEmail", mock.Anything, "visitador@farmavisitas.gt").Return(stored, nil)

	service := NewService(mockUsers, new(MockJWT))

	_, _, err := service.Login(context.Background(), LoginRequest{
		Email:    "visitador@farmavisitas.gt",
		Password: "incorrecta",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Login_UnknownEmail(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockUsers.On("GetByEmail", mock.Anything, "nadie@farmavisitas.gt").Return(nil, gorm.ErrRecordNotFound)

	service := NewService(mockUsers, new(MockJWT))

	_, _, err := service.Login(context.Background(), LoginRequest{
		Email:    "nadie@farmavisitas.gt",
		Password: "visita123",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
