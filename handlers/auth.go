// Package handlers, HTTP request/response işlemlerini yönetir.
//
// Handler "ince" olmalı: body'yi parse et, service'i çağır, sonucu
// envelope ile döndür. İş mantığı service'de, yetkilendirme middleware'da —
// korunan route'ların handler'ları ASLA kendi authentication'ını yapmaz.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/emreakn/dojohub/models"
	"github.com/emreakn/dojohub/pkg"
	"github.com/emreakn/dojohub/pkg/abuseguard"
	"github.com/emreakn/dojohub/pkg/sessioncookie"
	"github.com/emreakn/dojohub/services"
	"go.uber.org/zap"
)

// contextKey, context.Value çakışmalarını önleyen özel key tipi.
type contextKey string

// ClaimsContextKey, doğrulanmış session claims'in context'teki yeri.
// AuthMiddleware yazar, handler'lar ClaimsFromContext ile okur.
const ClaimsContextKey contextKey = "session_claims"

// ClaimsFromContext, middleware'ın koyduğu doğrulanmış claims'i döner.
func ClaimsFromContext(r *http.Request) (*models.SessionClaims, bool) {
	claims, ok := r.Context().Value(ClaimsContextKey).(*models.SessionClaims)
	return claims, ok
}

// AuthHandler, auth endpoint'lerini yöneten struct.
type AuthHandler struct {
	authService services.AuthService
	guard       *abuseguard.Guard
	cookies     *sessioncookie.Writer
	log         *zap.Logger
}

// NewAuthHandler, constructor.
func NewAuthHandler(
	authService services.AuthService,
	guard *abuseguard.Guard,
	cookies *sessioncookie.Writer,
	log *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		guard:       guard,
		cookies:     cookies,
		log:         log,
	}
}

// Login godoc
// POST /api/auth/login
// Body: SignedLoginPayload — { email, passwordHash, timestampMillis, nonce, signature }
//
// Akış sırası önemli:
//  1. Guard kontrolü — kilitli IP, body parse edilmeden ve HİÇBİR
//     kripto işi yapılmadan 429 ile reddedilir.
//  2. İmza + credential doğrulama (service).
//  3. Başarısızlıkta sayaç artar; başarıda sayaç silinir (af) ve
//     session cookie yazılır.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ip := abuseguard.ExtractIP(r)

	allowed, remaining := h.guard.CheckAllowed(r.Context(), ip)
	if !allowed {
		seconds := int(remaining.Seconds()) + 1
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
		pkg.ErrorWithMessage(w, http.StatusTooManyRequests,
			fmt.Sprintf("too many failed login attempts, please try again in %s",
				abuseguard.FormatRetryMessage(seconds)))
		return
	}

	var payload models.SignedLoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.authService.Login(r.Context(), &payload)
	if err != nil {
		// Sadece credential reddi sayılır — malformed body veya internal
		// hata brute-force denemesi değildir.
		if errors.Is(err, pkg.ErrInvalidCreds) {
			if gerr := h.guard.RecordFailure(r.Context(), ip); gerr != nil {
				h.log.Warn("failed to record login failure", zap.Error(gerr))
			}
		}
		pkg.Error(w, err)
		return
	}

	// Af: meşru kullanıcı doğru girişte sayaçtan kurtulur —
	// bir sonraki başarısız deneme 1'den başlar.
	if err := h.guard.Clear(r.Context(), ip); err != nil {
		h.log.Warn("failed to clear login attempts", zap.Error(err))
	}

	h.cookies.Set(w, result.Token)
	pkg.JSON(w, http.StatusOK, result)
}

// Logout godoc
// POST /api/auth/logout
//
// Cookie, geçerli bir session olsun olmasın HER ZAMAN temizlenir ve
// yanıt her zaman success'tir — logout idempotent'tir.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.cookies.Clear(w)
	pkg.Message(w, http.StatusOK, "logged out")
}

// Refresh godoc
// POST /api/auth/refresh
//
// Mevcut cookie'deki token doğrulanır, hesabın güncel kaydından taze
// expiry'li YENİ bir token basılıp cookie güncellenir.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(h.cookies.Name())
	if err != nil || cookie.Value == "" {
		pkg.Error(w, pkg.ErrInvalidSession)
		return
	}

	token, err := h.authService.RefreshSession(r.Context(), cookie.Value)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	h.cookies.Set(w, token)
	pkg.Message(w, http.StatusOK, "session refreshed")
}

// Me godoc
// GET /api/auth/me
// Auth middleware gerektirir — context'te doğrulanmış claims olur.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r)
	if !ok {
		pkg.Error(w, pkg.ErrInvalidSession)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]any{
		"id":           claims.SubjectID(),
		"email":        claims.Email,
		"role":         claims.Role,
		"display_name": claims.DisplayName,
	})
}
