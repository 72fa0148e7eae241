// Package models, uygulamanın domain modellerini (veri yapıları) tanımlar.
//
// Model nedir?
// Document database'deki bir collection kaydının Go karşılığıdır.
// Aynı zamanda API'den gelen/giden verilerin şeklini de belirler.
//
// `json:"email"` tag'leri API serialize/deserialize için,
// `bson:"email"` tag'leri MongoDB driver'ı için kullanılır.
package models

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Role, hesabın salon içindeki görevini temsil eder.
// Go'da enum yoktur — typed constant'lar kullanılır.
type Role string

// İzin verilen Role değerleri.
const (
	RoleAdmin           Role = "admin"
	RoleStaff           Role = "staff"
	RoleTrainer         Role = "trainer"
	RoleVisitingTrainer Role = "visitingTrainer"
)

// Valid, role değerinin tanımlı enum'lardan biri olup olmadığını döner.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleTrainer, RoleVisitingTrainer:
		return true
	}
	return false
}

// RedirectPath, login sonrası frontend'in yönlendirileceği sayfayı döner.
// Role → landing page eşlemesi sabittir, client'a login response'unda gider.
func (r Role) RedirectPath() string {
	switch r {
	case RoleAdmin:
		return "/admin"
	case RoleStaff:
		return "/staff"
	default:
		return "/trainer"
	}
}

// User, bir personel hesabını temsil eder (admin, staff, trainer).
//
// Bu kayıt document database'de "users" collection'ında yaşar.
// Auth alt sistemi bu kaydın sadece tüketicisidir — role, displayName,
// isActive ve credentialHash alanlarını okur; üye/ders gibi business
// verileri ayrı collection'lardadır ve bu paket onları tanımaz.
type User struct {
	ID             string `json:"id" bson:"_id"`
	Email          string `json:"email" bson:"email"`
	Role           Role   `json:"role" bson:"role"`
	DisplayName    string `json:"display_name" bson:"displayName"`
	IsActive       bool   `json:"is_active" bson:"isActive"`
	CredentialHash string `json:"-" bson:"credentialHash"` // json:"-" → API response'a DAHİL ETME
}

// CreateAccountRequest, admin'in yeni personel hesabı açarken gönderdiği veri.
// CredentialHash yerine Credential (client-side hash) alırız —
// bcrypt hash'leme service katmanında yapılır.
type CreateAccountRequest struct {
	Email       string `json:"email"`
	Credential  string `json:"credential"`
	Role        Role   `json:"role"`
	DisplayName string `json:"display_name"`
}

// Validate, CreateAccountRequest'in geçerli olup olmadığını kontrol eder.
func (r *CreateAccountRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if !EmailRegex().MatchString(r.Email) {
		return fmt.Errorf("invalid email format")
	}

	if r.Credential == "" {
		return fmt.Errorf("credential is required")
	}

	if !r.Role.Valid() {
		return fmt.Errorf("invalid role")
	}

	r.DisplayName = strings.TrimSpace(r.DisplayName)
	if r.DisplayName == "" {
		return fmt.Errorf("display name is required")
	}
	if utf8.RuneCountInString(r.DisplayName) > 64 {
		return fmt.Errorf("display name must be at most 64 characters")
	}

	return nil
}

// SetActiveRequest, hesap aktiflik durumunu değiştirme isteği.
type SetActiveRequest struct {
	IsActive bool `json:"is_active"`
}

// emailRegex — pratik bir email format kontrolü.
// RFC 5322'nin tamamını kapsamaz; amacı bariz bozuk girdileri elemek.
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// EmailRegex, paylaşılan email format regex'ini döner.
func EmailRegex() *regexp.Regexp {
	return emailRegex
}
