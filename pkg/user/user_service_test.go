package user

import (
	"StockScan-Backend/domain"
	"StockScan-Backend/entities"
	"StockScan-Backend/pkg/jwt"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeUserRepository struct {
	users map[string]*entities.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[string]*entities.User)}
}

func (f *fakeUserRepository) CreateUser(_ context.Context, user *entities.User) error {
	f.users[user.ID.String()] = user
	return nil
}

func (f *fakeUserRepository) GetUserByID(_ context.Context, id string) (*entities.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepository) GetUserByEmail(_ context.Context, email string) (*entities.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) UpdateUser(_ context.Context, user *entities.User) error {
	f.users[user.ID.String()] = user
	return nil
}

func newUserService(repo *fakeUserRepository) UserService {
	return NewUserService(repo, jwt.NewJWTService())
}

func TestRegister(t *testing.T) {
	repo := newFakeUserRepository()
	service := newUserService(repo)

	res, err := service.Register(context.Background(), domain.RegisterRequest{
		Name:     "Ayu",
		Email:    "ayu@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ayu", res.Name)
	assert.NotEmpty(t, res.ID)

	stored := repo.users[res.ID]
	require.NotNil(t, stored)
	assert.NotEqual(t, "correct horse", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("correct horse")))
	assert.Equal(t, domain.RoleUser, stored.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepository()
	service := newUserService(repo)

	_, err := service.Register(context.Background(), domain.RegisterRequest{
		Name: "Ayu", Email: "ayu@example.com", Password: "correct horse",
	})
	require.NoError(t, err)

	_, err = service.Register(context.Background(), domain.RegisterRequest{
		Name: "Other", Email: "ayu@example.com", Password: "battery staple",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepository()
	service := newUserService(repo)

	_, err := service.Register(context.Background(), domain.RegisterRequest{
		Name: "Ayu", Email: "ayu@example.com", Password: "correct horse",
	})
	require.NoError(t, err)

	res, err := service.Login(context.Background(), domain.LoginRequest{
		Email: "ayu@example.com", Password: "correct horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, domain.RoleUser, res.Role)

	_, err = service.Login(context.Background(), domain.LoginRequest{
		Email: "ayu@example.com", Password: "wrong",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = service.Login(context.Background(), domain.LoginRequest{
		Email: "nobody@example.com", Password: "correct horse",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestMe(t *testing.T) {
	repo := newFakeUserRepository()
	service := newUserService(repo)

	registered, err := service.Register(context.Background(), domain.RegisterRequest{
		Name: "Ayu", Email: "ayu@example.com", Password: "correct horse",
	})
	require.NoError(t, err)

	res, err := service.Me(context.Background(), registered.ID)
	require.NoError(t, err)
	assert.Equal(t, "ayu@example.com", res.Email)
	assert.False(t, res.IsPremium)

	_, err = service.Me(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
