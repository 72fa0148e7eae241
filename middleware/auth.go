// Package middleware, HTTP request pipeline'ına eklenen ara katmanları barındırır.
//
// Korunan her route tek bir primitive'den geçer: Require(policy, next).
// Bir request'in yetkilendirme yaşam döngüsü sıralı aşamalardan oluşur:
//
//	Unauthenticated → (cookie var & geçerli) → Authenticated
//	               → (hesap aktif)           → Active
//	               → (rol / self kontrolü)   → Authorized → handler
//
// Herhangi bir aşama başarısız olursa request orada biter — tek request
// içinde retry yoktur. Aşamalar explicit bir slice olarak sıralanır
// (iç içe closure zinciri değil), böylece sıralama ve short-circuit
// davranışı izole test edilebilir.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/emreakn/dojohub/handlers"
	"github.com/emreakn/dojohub/models"
	"github.com/emreakn/dojohub/pkg"
	"github.com/emreakn/dojohub/repository"
	"github.com/emreakn/dojohub/services"
	"go.uber.org/zap"
)

// SelfField, self-access kontrolünde path parametresiyle karşılaştırılacak
// claim alanını seçer.
//
// Kapalı bir enum'dur: config'den string ile dinamik claim lookup'ı
// YAPILMAZ — desteklenen alanlar bu listeyle sınırlıdır ve her biri
// saf bir accessor'a map'lenir (selfValue).
type SelfField int

const (
	// SelfSubjectID, path id'sini hesabın kalıcı ID'siyle karşılaştırır (varsayılan).
	SelfSubjectID SelfField = iota
	// SelfEmail, path id'sini hesabın email'iyle karşılaştırır.
	SelfEmail
)

// selfValue, enum → claim accessor eşlemesi.
func selfValue(f SelfField, claims *models.SessionClaims) string {
	switch f {
	case SelfEmail:
		return claims.Email
	default:
		return claims.SubjectID()
	}
}

// Policy, bir route'un yetkilendirme sözleşmesi.
//
// AllowedRoles boşsa rol kontrolü yapılmaz (authentication + aktiflik yeterli).
// AllowSelf true ise, path'teki {id} parametresi caller'ın kendi SelfField
// değerine eşitse rol kontrolü O request için bypass edilir.
type Policy struct {
	AllowedRoles []models.Role
	AllowSelf    bool
	SelfField    SelfField
}

// Named policy preset'leri — route tablosunda okunabilirlik için.
// Hepsi aynı Require primitive'inden geçer, hiçbiri mantık DUPLICATE ETMEZ.
var (
	PolicyAuthenticated = Policy{}
	PolicyAdmin         = Policy{AllowedRoles: []models.Role{models.RoleAdmin}}
	PolicyStaff         = Policy{AllowedRoles: []models.Role{models.RoleAdmin, models.RoleStaff}}
	PolicyTrainer       = Policy{AllowedRoles: []models.Role{models.RoleAdmin, models.RoleTrainer, models.RoleVisitingTrainer}}
	PolicyStaffOrTrainer = Policy{AllowedRoles: []models.Role{
		models.RoleAdmin, models.RoleStaff, models.RoleTrainer, models.RoleVisitingTrainer,
	}}
	PolicySelfOrAdmin = Policy{
		AllowedRoles: []models.Role{models.RoleAdmin},
		AllowSelf:    true,
		SelfField:    SelfSubjectID,
	}
)

// AuthMiddleware, session doğrulama + yetkilendirme middleware'ı.
type AuthMiddleware struct {
	sessions   services.SessionService
	userRepo   repository.UserRepository
	cookieName string
	log        *zap.Logger
	devMode    bool
}

// NewAuthMiddleware, constructor.
// devMode true ise 500 yanıtlarında hata ayrıntısı döner; production'da
// mesaj her zaman generic'tir.
func NewAuthMiddleware(
	sessions services.SessionService,
	userRepo repository.UserRepository,
	cookieName string,
	log *zap.Logger,
	devMode bool,
) *AuthMiddleware {
	return &AuthMiddleware{
		sessions:   sessions,
		userRepo:   userRepo,
		cookieName: cookieName,
		log:        log,
		devMode:    devMode,
	}
}

// checkStage, authenticate SONRASI çalışan tek bir kontrol aşaması.
// İlk non-nil error request'i bitirir.
type checkStage func(r *http.Request, claims *models.SessionClaims) error

// Require, policy'yi uygulayan wrapped handler üretir.
//
// Sıra sabittir: authenticate → aktiflik → rol/self. Başarıda doğrulanmış
// claims context'e konur ve next çağrılır. Handler içindeki beklenmeyen
// panic bu sınırda yakalanır ve envelope'lu 500'e çevrilir — handler'ın
// kendi hata yanıtını üretebileceğine GÜVENİLMEZ.
func (m *AuthMiddleware) Require(policy Policy, next http.Handler) http.Handler {
	stages := []checkStage{
		m.checkActive,
		m.checkPolicy(policy),
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer m.recoverPanic(w, r)

		claims, err := m.authenticate(r)
		if err != nil {
			pkg.Error(w, err)
			return
		}

		for _, stage := range stages {
			if err := stage(r, claims); err != nil {
				pkg.Error(w, err)
				return
			}
		}

		ctx := context.WithValue(r.Context(), handlers.ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authenticate, session cookie'yi çözer.
// Cookie yokluğu ile geçersiz/bayat token AYNI hataya düşer —
// client ikisini ayırt edemez.
func (m *AuthMiddleware) authenticate(r *http.Request) (*models.SessionClaims, error) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil || cookie.Value == "" {
		return nil, pkg.ErrInvalidSession
	}

	return m.sessions.Verify(cookie.Value)
}

// checkActive, hesabın GÜNCEL kaydını okur ve aktifliğini kontrol eder.
//
// Token'daki IsActive login anının snapshot'ıdır — admin kullanıcıyı
// oturum ortasında deaktive ettiğinde token geçerli kalır ama bu kontrol
// bir SONRAKİ request'te 403 döndürür. Token erken iptal edilemediği için
// deaktivasyonu yakalayan tek mekanizma budur.
//
// Güncel rol/aktiflik, bayat claim alanlarının ÜZERİNE yazılır —
// policy kararı ve handler'a giden context hep taze veriyle çalışır.
func (m *AuthMiddleware) checkActive(r *http.Request, claims *models.SessionClaims) error {
	user, err := m.userRepo.GetByID(r.Context(), claims.SubjectID())
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			// Token geçerli ama hesap silinmiş
			return pkg.ErrInvalidSession
		}
		return err
	}

	claims.Role = user.Role
	claims.IsActive = user.IsActive
	claims.DisplayName = user.DisplayName
	claims.Email = user.Email

	if !user.IsActive {
		return pkg.ErrAccountDisabled
	}

	return nil
}

// checkPolicy, rol allow-list + opsiyonel self-access kontrolü.
func (m *AuthMiddleware) checkPolicy(policy Policy) checkStage {
	return func(r *http.Request, claims *models.SessionClaims) error {
		if len(policy.AllowedRoles) == 0 {
			return nil
		}

		for _, role := range policy.AllowedRoles {
			if claims.Role == role {
				return nil
			}
		}

		// Self-access istisnası: path'teki {id} caller'ın kendisiyse
		// rol kontrolü SADECE bu request için bypass edilir.
		if policy.AllowSelf {
			if id := r.PathValue("id"); id != "" && id == selfValue(policy.SelfField, claims) {
				return nil
			}
		}

		return pkg.ErrForbidden
	}
}

// recoverPanic, wrapped handler'dan kaçan panic'i generic 500'e çevirir.
// Bu alt sistemden host runtime'a ASLA unhandled hata sızmaz.
func (m *AuthMiddleware) recoverPanic(w http.ResponseWriter, r *http.Request) {
	rec := recover()
	if rec == nil {
		return
	}

	m.log.Error("panic recovered in handler",
		zap.Any("panic", rec),
		zap.String("path", r.URL.Path),
		zap.ByteString("stack", debug.Stack()))

	if m.devMode {
		pkg.ErrorWithMessage(w, http.StatusInternalServerError,
			"internal error: "+stringify(rec))
		return
	}
	pkg.ErrorWithMessage(w, http.StatusInternalServerError, "internal error")
}

// stringify, recover() değerini okunabilir string'e çevirir.
func stringify(rec any) string {
	switch v := rec.(type) {
	case error:
		return v.Error()
	case string:
		return v
	default:
		return "unexpected failure"
	}
}

// ─── Preset Wrappers ───
//
// Route tablosunda kısa kullanım için. Hepsi Require'a delege eder.

// RequireAuth, sadece geçerli + aktif session ister (rol kontrolü yok).
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return m.Require(PolicyAuthenticated, next)
}

// RequireAdmin, admin rolü ister.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return m.Require(PolicyAdmin, next)
}

// RequireStaff, admin veya staff rolü ister.
func (m *AuthMiddleware) RequireStaff(next http.Handler) http.Handler {
	return m.Require(PolicyStaff, next)
}

// RequireTrainer, admin veya (visiting) trainer rolü ister.
func (m *AuthMiddleware) RequireTrainer(next http.Handler) http.Handler {
	return m.Require(PolicyTrainer, next)
}

// RequireStaffOrTrainer, admin/staff/trainer rollerinden birini ister.
func (m *AuthMiddleware) RequireStaffOrTrainer(next http.Handler) http.Handler {
	return m.Require(PolicyStaffOrTrainer, next)
}

// RequireSelfOrAdmin, admin VEYA path {id}'si kendisi olan caller'ı kabul eder.
func (m *AuthMiddleware) RequireSelfOrAdmin(next http.Handler) http.Handler {
	return m.Require(PolicySelfOrAdmin, next)
}

// RequireAdminOrSelf — RequireSelfOrAdmin ile aynı policy.
// Eski route tablolarındaki her iki isim de desteklenir.
func (m *AuthMiddleware) RequireAdminOrSelf(next http.Handler) http.Handler {
	return m.Require(PolicySelfOrAdmin, next)
}
