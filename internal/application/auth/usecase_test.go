package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/costeo-importaciones/internal/application/auth"
	"github.com/jhoicas/costeo-importaciones/internal/application/dto"
	"github.com/jhoicas/costeo-importaciones/internal/domain"
	"github.com/jhoicas/costeo-importaciones/internal/domain/entity"
	"github.com/jhoicas/costeo-importaciones/pkg/jwt"
)

type memUsers struct {
	byEmail map[string]*entity.User
}

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	if _, ok := m.byEmail[u.Email]; ok {
		return domain.ErrEmailAlreadyExists
	}
	m.byEmail[u.Email] = u
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return m.byEmail[email], nil
}

const secret = "test-secret"

func newUseCase() (*auth.AuthUseCase, *memUsers) {
	repo := &memUsers{byEmail: map[string]*entity.User{}}
	uc := auth.NewAuthUseCase(repo, auth.JWTConfig{Secret: secret, ExpMinutes: 5, Issuer: "test"}).
		WithBcryptCost(bcrypt.MinCost)
	return uc, repo
}

func TestRegisterAndLogin(t *testing.T) {
	uc, repo := newUseCase()
	ctx := context.Background()

	u, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: " Ana@Example.com ", Password: "secreto123", Role: entity.RoleVentas})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.Equal(t, "ana@example.com", u.Name, "sin nombre usa el email")
	assert.NotEqual(t, "secreto123", repo.byEmail["ana@example.com"].PasswordHash)

	out, err := uc.Login(ctx, dto.LoginRequest{Email: "ANA@example.com", Password: "secreto123"})
	require.NoError(t, err)
	userID, role, err := jwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, userID)
	assert.Equal(t, entity.RoleVentas, role)
}

func TestRegister_Errores(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "a@b.co", Password: "secreto123"})
	require.NoError(t, err)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "a@b.co", Password: "otro12345"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "c@b.co", Password: "secreto123", Role: "root"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin_Rechazos(t *testing.T) {
	uc, repo := newUseCase()
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "a@b.co", Password: "secreto123"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "a@b.co", Password: "mala"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@b.co", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	repo.byEmail["a@b.co"].Status = "inactive"
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "a@b.co", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
