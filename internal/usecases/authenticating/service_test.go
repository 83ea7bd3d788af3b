package authenticating

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/gym-manager-api/internal/domain"
	"github.com/vfg2006/gym-manager-api/pkg/apiErrors"
	"golang.org/x/crypto/bcrypt"
)

type stubUserRepo struct {
	userByEmail *domain.User
	emailErr    error
	createCalls int
}

func (s *stubUserRepo) CreateUser(user *domain.User) (*domain.User, error) {
	s.createCalls++
	return user, nil
}

func (s *stubUserRepo) UpdateUser(user *domain.User) error {
	return nil
}

func (s *stubUserRepo) GetUserByEmail(email string) (*domain.User, error) {
	return s.userByEmail, s.emailErr
}

func (s *stubUserRepo) GetUserByID(userID int) (*domain.User, error) {
	return nil, nil
}

func (s *stubUserRepo) ListUser() ([]*domain.User, error) {
	return nil, nil
}

func newUser() *domain.User {
	return &domain.User{
		Name:         "Marina",
		Lastname:     "Souza",
		Email:        "marina.souza@gym.local",
		PasswordHash: "Senha@Forte123",
	}
}

func TestService_CreateUser_EmailCheckStoreError(t *testing.T) {
	// Falha no banco durante a checagem de email duplicado precisa abortar o
	// cadastro, nunca deixar a criação prosseguir
	repo := &stubUserRepo{emailErr: errors.New("banco indisponível")}
	service := &Service{userRepo: repo}

	created, err := service.CreateUser(newUser())

	assert.Nil(t, created)
	assert.ErrorIs(t, err, ErrDatabaseOperation)

	var authErr *AuthError
	assert.ErrorAs(t, err, &authErr)
	assert.Equal(t, apiErrors.ErrDatabaseOperation, authErr.Code)
	assert.Zero(t, repo.createCalls)
}

func TestService_CreateUser_DuplicateEmail(t *testing.T) {
	repo := &stubUserRepo{userByEmail: &domain.User{ID: 7, Email: "marina.souza@gym.local"}}
	service := &Service{userRepo: repo}

	created, err := service.CreateUser(newUser())

	assert.Nil(t, created)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
	assert.Zero(t, repo.createCalls)
}

func TestService_CreateUser_HashesPasswordAndDefaultsRole(t *testing.T) {
	repo := &stubUserRepo{}
	service := &Service{userRepo: repo}

	created, err := service.CreateUser(newUser())

	assert.NoError(t, err)
	assert.Equal(t, 1, repo.createCalls)
	assert.Equal(t, 3, created.RoleID)
	assert.False(t, created.Active)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("Senha@Forte123")))
}
