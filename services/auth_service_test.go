package services

import (
	"context"
	"testing"
	"time"

	"github.com/emreakn/dojohub/models"
	"github.com/emreakn/dojohub/pkg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// stubVerifier, imza kontrolünü atlayan SignatureVerifier —
// auth service testleri imza mekaniğini değil orkestrasyonu test eder.
type stubVerifier struct{}

func (stubVerifier) Validate(p *models.SignedLoginPayload) (*models.SignedLoginPayload, error) {
	if err := p.Validate(); err != nil {
		return nil, pkg.ErrBadRequest
	}
	return p, nil
}

type stubUserRepo struct {
	users   map[string]*models.User
	created []*models.User
}

func (s *stubUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, pkg.ErrNotFound
}

func (s *stubUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, pkg.ErrNotFound
	}
	return u, nil
}

func (s *stubUserRepo) List(context.Context, int, int) ([]*models.User, error) { return nil, nil }

func (s *stubUserRepo) Create(_ context.Context, u *models.User) error {
	s.users[u.ID] = u
	s.created = append(s.created, u)
	return nil
}

func (s *stubUserRepo) SetActive(_ context.Context, id string, active bool) error {
	u, ok := s.users[id]
	if !ok {
		return pkg.ErrNotFound
	}
	u.IsActive = active
	return nil
}

const testClientHash = "client-side-hash"

func newAuthFixture(t *testing.T) (AuthService, *stubUserRepo, SessionService) {
	t.Helper()

	// MinCost: test hızı için — production cost config'te
	stored, err := bcrypt.GenerateFromPassword([]byte(testClientHash), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &stubUserRepo{users: map[string]*models.User{
		"staff-1": {
			ID:             "staff-1",
			Email:          "ayse@dojo.com",
			Role:           models.RoleStaff,
			DisplayName:    "Ayşe Yılmaz",
			IsActive:       true,
			CredentialHash: string(stored),
		},
	}}

	sessions := newTestSessionService(time.Hour)
	svc := NewAuthService(repo, sessions, stubVerifier{}, zap.NewNop())
	return svc, repo, sessions
}

func loginPayload(email, hash string) *models.SignedLoginPayload {
	return &models.SignedLoginPayload{
		Email:           email,
		PasswordHash:    hash,
		TimestampMillis: time.Now().UnixMilli(),
		Nonce:           "nonce-1",
		Signature:       "sig",
	}
}

func TestAuthService_LoginSuccess(t *testing.T) {
	svc, _, sessions := newAuthFixture(t)

	result, err := svc.Login(context.Background(), loginPayload("ayse@dojo.com", testClientHash))
	require.NoError(t, err)
	assert.Equal(t, models.RoleStaff, result.Role)
	assert.Equal(t, "/staff", result.RedirectTo)

	claims, err := sessions.Verify(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "staff-1", claims.SubjectID())
	assert.Equal(t, models.RoleStaff, claims.Role)
}

// Bilinmeyen email ile yanlış şifre AYNI hataya düşmeli —
// yanıttan hesap varlığı anlaşılamamalı.
func TestAuthService_LoginEnumerationResistance(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	_, errUnknown := svc.Login(ctx, loginPayload("yok@dojo.com", testClientHash))
	_, errWrongPass := svc.Login(ctx, loginPayload("ayse@dojo.com", "wrong-hash"))

	require.Error(t, errUnknown)
	require.Error(t, errWrongPass)
	assert.ErrorIs(t, errUnknown, pkg.ErrInvalidCreds)
	assert.ErrorIs(t, errWrongPass, pkg.ErrInvalidCreds)
	assert.Equal(t, errUnknown.Error(), errWrongPass.Error())
}

func TestAuthService_LoginDisabledAccount(t *testing.T) {
	svc, repo, _ := newAuthFixture(t)
	repo.users["staff-1"].IsActive = false

	_, err := svc.Login(context.Background(), loginPayload("ayse@dojo.com", testClientHash))
	assert.ErrorIs(t, err, pkg.ErrAccountDisabled)
}

func TestAuthService_RefreshSession(t *testing.T) {
	svc, repo, sessions := newAuthFixture(t)
	ctx := context.Background()

	result, err := svc.Login(ctx, loginPayload("ayse@dojo.com", testClientHash))
	require.NoError(t, err)

	t.Run("fresh token carries current record", func(t *testing.T) {
		// Login'den sonra rol değişti — yenilenen token GÜNCEL rolü taşımalı
		repo.users["staff-1"].Role = models.RoleTrainer

		token, err := svc.RefreshSession(ctx, result.Token)
		require.NoError(t, err)

		claims, err := sessions.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, models.RoleTrainer, claims.Role)

		repo.users["staff-1"].Role = models.RoleStaff
	})

	t.Run("deactivated account cannot refresh", func(t *testing.T) {
		repo.users["staff-1"].IsActive = false
		defer func() { repo.users["staff-1"].IsActive = true }()

		_, err := svc.RefreshSession(ctx, result.Token)
		assert.ErrorIs(t, err, pkg.ErrAccountDisabled)
	})

	t.Run("deleted account gets opaque error", func(t *testing.T) {
		u := repo.users["staff-1"]
		delete(repo.users, "staff-1")
		defer func() { repo.users["staff-1"] = u }()

		_, err := svc.RefreshSession(ctx, result.Token)
		assert.ErrorIs(t, err, pkg.ErrInvalidSession)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.RefreshSession(ctx, "garbage")
		assert.ErrorIs(t, err, pkg.ErrInvalidSession)
	})
}

func TestAuthService_CreateAccount(t *testing.T) {
	svc, repo, _ := newAuthFixture(t)
	ctx := context.Background()

	user, err := svc.CreateAccount(ctx, &models.CreateAccountRequest{
		Email:       "Mehmet@Dojo.Com",
		Credential:  "new-client-hash",
		Role:        models.RoleTrainer,
		DisplayName: "Mehmet Kaya",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "mehmet@dojo.com", user.Email, "email normalize edilmeli")
	assert.True(t, user.IsActive)
	require.Len(t, repo.created, 1)

	// Saklanan hash, client hash'in bcrypt sarımı olmalı
	err = bcrypt.CompareHashAndPassword([]byte(user.CredentialHash), []byte("new-client-hash"))
	assert.NoError(t, err)

	t.Run("invalid role rejected", func(t *testing.T) {
		_, err := svc.CreateAccount(ctx, &models.CreateAccountRequest{
			Email:       "x@dojo.com",
			Credential:  "hash",
			Role:        "superuser",
			DisplayName: "X",
		})
		assert.ErrorIs(t, err, pkg.ErrBadRequest)
	})
}
