package pkg

import (
	"encoding/json"
	"errors"
	"net/http"
)

// APIResponse, tüm API yanıtları için standart format (envelope).
// Frontend her zaman aynı yapıyı bekler — tutarlılık önemli.
//
// Başarıda:  { "success": true,  "data": ..., "message": "..." }
// Hatada:    { "success": false, "error": "...", "code": "..." }
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

// JSON, başarılı bir yanıt gönderir.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := APIResponse{
		Success: true,
		Data:    data,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// Message, data yerine sadece bilgi mesajı taşıyan başarılı yanıt gönderir.
// Logout gibi dönecek verisi olmayan endpoint'lerde kullanılır.
func Message(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := APIResponse{
		Success: true,
		Message: message,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// Error, hata yanıtı gönderir.
// Domain error'ları otomatik olarak HTTP status + stable code'a çevrilir.
// Status code seçimi SADECE sentinel kimliğinden yapılır, mesaj metninden değil.
func Error(w http.ResponseWriter, err error) {
	status, code := mapError(err)

	// Sınıflandırılamayan hatalar iç detay taşıyabilir (driver adresi,
	// dial hatası, query metni) — client'a HER ZAMAN generic mesaj gider.
	// Gerçek sebep caller'ın log'undadır, response'ta değil.
	msg := err.Error()
	if code == "INTERNAL" {
		msg = ErrInternal.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := APIResponse{
		Success: false,
		Error:   msg,
		Code:    code,
	}

	if encErr := json.NewEncoder(w).Encode(resp); encErr != nil {
		http.Error(w, "failed to encode error response", http.StatusInternalServerError)
	}
}

// ErrorWithMessage, özel mesajlı hata yanıtı gönderir.
// Sentinel'i olmayan, endpoint'e özgü hatalar için.
func ErrorWithMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := APIResponse{
		Success: false,
		Error:   message,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, "failed to encode error response", http.StatusInternalServerError)
	}
}

// mapError, domain error'ları (HTTP status, error code) çiftine eşler.
// errors.Is() kullanarak error chain'ini kontrol eder —
// wrap edilmiş error'lar da doğru match eder.
func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "BAD_REQUEST"
	case errors.Is(err, ErrInvalidSession):
		return http.StatusUnauthorized, "AUTH_REQUIRED"
	case errors.Is(err, ErrInvalidCreds):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS"
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, ErrAccountDisabled):
		return http.StatusForbidden, "ACCOUNT_DISABLED"
	case errors.Is(err, ErrLoginLocked):
		return http.StatusTooManyRequests, "LOGIN_LOCKED"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict, "ALREADY_EXISTS"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}
