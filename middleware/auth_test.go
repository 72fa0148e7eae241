package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/emreakn/dojohub/handlers"
	"github.com/emreakn/dojohub/models"
	"github.com/emreakn/dojohub/pkg"
	"github.com/emreakn/dojohub/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeUserRepo, DB'siz middleware testi için in-memory UserRepository.
type fakeUserRepo struct {
	users map[string]*models.User
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, pkg.ErrNotFound
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, pkg.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) List(context.Context, int, int) ([]*models.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) SetActive(_ context.Context, id string, active bool) error {
	u, ok := f.users[id]
	if !ok {
		return pkg.ErrNotFound
	}
	u.IsActive = active
	return nil
}

type mwFixture struct {
	mw       *AuthMiddleware
	sessions services.SessionService
	repo     *fakeUserRepo
}

func newMwFixture(t *testing.T) *mwFixture {
	t.Helper()

	sessions := services.NewSessionService("test-secret", time.Hour, "dojohub", "dojohub-admin", zap.NewNop())
	repo := &fakeUserRepo{users: map[string]*models.User{
		"admin-1": {ID: "admin-1", Email: "admin@dojo.com", Role: models.RoleAdmin, DisplayName: "Admin", IsActive: true},
		"staff-1": {ID: "staff-1", Email: "staff@dojo.com", Role: models.RoleStaff, DisplayName: "Staff", IsActive: true},
	}}

	return &mwFixture{
		mw:       NewAuthMiddleware(sessions, repo, "dojohub_session", zap.NewNop(), false),
		sessions: sessions,
		repo:     repo,
	}
}

// tokenFor, repo'daki kullanıcı için geçerli bir session token basar.
func (f *mwFixture) tokenFor(t *testing.T, userID string) string {
	t.Helper()

	u := f.repo.users[userID]
	require.NotNil(t, u)

	claims := &models.SessionClaims{
		Email:       u.Email,
		Role:        u.Role,
		DisplayName: u.DisplayName,
		IsActive:    u.IsActive,
	}
	claims.Subject = u.ID

	token, err := f.sessions.Issue(claims)
	require.NoError(t, err)
	return token
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pkg.Message(w, http.StatusOK, "ok")
	})
}

func doRequest(handler http.Handler, token string) *httptest.ResponseRecorder {
	r := httptest.NewRequest("GET", "/api/protected", nil)
	if token != "" {
		r.AddCookie(&http.Cookie{Name: "dojohub_session", Value: token})
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) pkg.APIResponse {
	t.Helper()
	var resp pkg.APIResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestRequire_NoCookie(t *testing.T) {
	f := newMwFixture(t)
	rec := doRequest(f.mw.RequireAuth(okHandler()), "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "AUTH_REQUIRED", resp.Code)
}

// Cookie yokluğu ile bozuk token aynı yanıta düşmeli.
func TestRequire_InvalidToken(t *testing.T) {
	f := newMwFixture(t)
	rec := doRequest(f.mw.RequireAuth(okHandler()), "garbage-token")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "AUTH_REQUIRED", decodeEnvelope(t, rec).Code)
}

func TestRequire_ValidSessionPassesClaims(t *testing.T) {
	f := newMwFixture(t)

	var got *models.SessionClaims
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := handlers.ClaimsFromContext(r)
		require.True(t, ok)
		got = claims
		pkg.Message(w, http.StatusOK, "ok")
	})

	rec := doRequest(f.mw.RequireAuth(inner), f.tokenFor(t, "staff-1"))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "staff-1", got.SubjectID())
	assert.Equal(t, models.RoleStaff, got.Role)
}

func TestRequire_RoleEnforcement(t *testing.T) {
	f := newMwFixture(t)
	protected := f.mw.RequireAdmin(okHandler())

	t.Run("staff rejected", func(t *testing.T) {
		rec := doRequest(protected, f.tokenFor(t, "staff-1"))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "FORBIDDEN", decodeEnvelope(t, rec).Code)
	})

	t.Run("admin allowed", func(t *testing.T) {
		rec := doRequest(protected, f.tokenFor(t, "admin-1"))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

// Oturum ortasında deaktive edilen hesap: token hâlâ geçerli ama
// sonraki request 403 ACCOUNT_DISABLED almalı (401 DEĞİL — hesap var,
// erişimi kapalı).
func TestRequire_DeactivatedMidSession(t *testing.T) {
	f := newMwFixture(t)
	token := f.tokenFor(t, "staff-1")

	// Token basıldıktan SONRA admin hesabı kapattı
	f.repo.users["staff-1"].IsActive = false

	rec := doRequest(f.mw.RequireAuth(okHandler()), token)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.Equal(t, "ACCOUNT_DISABLED", resp.Code)
}

// Hesap silinmişse geçerli token işe yaramaz — opak 401.
func TestRequire_DeletedAccount(t *testing.T) {
	f := newMwFixture(t)
	token := f.tokenFor(t, "staff-1")

	delete(f.repo.users, "staff-1")

	rec := doRequest(f.mw.RequireAuth(okHandler()), token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "AUTH_REQUIRED", decodeEnvelope(t, rec).Code)
}

// Rol, token'daki snapshot'tan değil GÜNCEL kayıttan okunmalı:
// admin'likten düşürülen kullanıcının eski token'ı admin yetkisi vermez.
func TestRequire_RoleReadFromFreshRecord(t *testing.T) {
	f := newMwFixture(t)
	token := f.tokenFor(t, "admin-1") // token rolü: admin

	f.repo.users["admin-1"].Role = models.RoleStaff

	rec := doRequest(f.mw.RequireAdmin(okHandler()), token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequire_SelfAccess(t *testing.T) {
	f := newMwFixture(t)

	// PathValue'nun dolması için gerçek mux pattern'i üzerinden test edilir
	mux := http.NewServeMux()
	mux.Handle("GET /api/accounts/{id}", f.mw.RequireSelfOrAdmin(okHandler()))

	do := func(path, token string) *httptest.ResponseRecorder {
		r := httptest.NewRequest("GET", path, nil)
		r.AddCookie(&http.Cookie{Name: "dojohub_session", Value: token})
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, r)
		return rec
	}

	t.Run("staff reads own record", func(t *testing.T) {
		rec := do("/api/accounts/staff-1", f.tokenFor(t, "staff-1"))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("staff reads other record", func(t *testing.T) {
		rec := do("/api/accounts/admin-1", f.tokenFor(t, "staff-1"))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin reads any record", func(t *testing.T) {
		rec := do("/api/accounts/staff-1", f.tokenFor(t, "admin-1"))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRequire_PanicRecovered(t *testing.T) {
	f := newMwFixture(t)

	panicking := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("handler exploded")
	})

	rec := doRequest(f.mw.RequireAuth(panicking), f.tokenFor(t, "staff-1"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "internal error", resp.Error)
}

// devMode'da 500 yanıtı panic ayrıntısını taşır.
func TestRequire_PanicDetailInDevMode(t *testing.T) {
	f := newMwFixture(t)
	dev := NewAuthMiddleware(f.sessions, f.repo, "dojohub_session", zap.NewNop(), true)

	panicking := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("handler exploded")
	})

	rec := doRequest(dev.RequireAuth(panicking), f.tokenFor(t, "staff-1"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decodeEnvelope(t, rec).Error, "handler exploded")
}

func TestSelfValue(t *testing.T) {
	claims := &models.SessionClaims{Email: "staff@dojo.com"}
	claims.Subject = "staff-1"

	assert.Equal(t, "staff-1", selfValue(SelfSubjectID, claims))
	assert.Equal(t, "staff@dojo.com", selfValue(SelfEmail, claims))
}
