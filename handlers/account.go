package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/emreakn/dojohub/models"
	"github.com/emreakn/dojohub/pkg"
	"github.com/emreakn/dojohub/repository"
	"github.com/emreakn/dojohub/services"
	"go.uber.org/zap"
)

// AccountHandler, personel hesap yönetimi endpoint'leri.
//
// Bu yüzey auth alt sistemine aittir (hesap açma, aktiflik yönetimi) —
// üye/ders CRUD'u gibi business handler'lar ayrı yaşar ve buradan
// bağımsızdır. Yetki kontrolleri route tablosunda middleware ile yapılır;
// buradaki handler'lar sadece iş yapar.
type AccountHandler struct {
	authService services.AuthService
	userRepo    repository.UserRepository
	log         *zap.Logger
}

// NewAccountHandler, constructor.
func NewAccountHandler(
	authService services.AuthService,
	userRepo repository.UserRepository,
	log *zap.Logger,
) *AccountHandler {
	return &AccountHandler{
		authService: authService,
		userRepo:    userRepo,
		log:         log,
	}
}

// List godoc
// GET /api/accounts?limit=50&offset=0 — admin only.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)
	if limit < 1 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	users, err := h.userRepo.List(r.Context(), limit, offset)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, users)
}

// Create godoc
// POST /api/accounts — admin only.
// Body: { email, credential, role, display_name }
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.authService.CreateAccount(r.Context(), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, user)
}

// Get godoc
// GET /api/accounts/{id} — admin veya hesabın sahibi.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "account id is required")
		return
	}

	user, err := h.userRepo.GetByID(r.Context(), id)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, user)
}

// SetActive godoc
// PATCH /api/accounts/{id}/active — admin only.
// Body: { is_active: bool }
//
// Deaktivasyon anında kullanıcının eldeki token'ı geçerli kalır;
// erişim bir sonraki request'te middleware'ın güncel kayıt kontrolüyle
// kesilir (403 Account deactivated).
func (h *AccountHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "account id is required")
		return
	}

	var req models.SetActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.userRepo.SetActive(r.Context(), id, req.IsActive); err != nil {
		pkg.Error(w, err)
		return
	}

	h.log.Info("account active state changed",
		zap.String("subject", id),
		zap.Bool("is_active", req.IsActive))

	pkg.Message(w, http.StatusOK, "account updated")
}

// queryInt, query parametresini int olarak okur, yoksa/bozuksa fallback döner.
func queryInt(r *http.Request, key string, fallback int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return n
}
