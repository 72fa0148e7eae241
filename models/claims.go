package models

import "github.com/golang-jwt/jwt/v5"

// SessionClaims, session token'ın içinde taşınan kimlik bilgileri.
//
// Token login anında oluşturulur ve ömrü boyunca DEĞİŞMEZ —
// "refresh" mevcut token'ı uzatmaz, doğrulanmış güncel kayıttan
// yepyeni bir token basar.
//
// Önemli: IsActive alanı login anındaki snapshot'tır ve bayatlayabilir
// (admin kullanıcıyı oturum ortasında deaktive edebilir). Bu yüzden
// middleware her request'te hesabın güncel kaydını tekrar kontrol eder —
// token'ın kendisi geçerli kalır ama erişim reddedilir.
//
// Bu struct models paketinde tanımlanır çünkü birden fazla katman
// (services, middleware, handlers) tarafından kullanılır —
// circular dependency'yi önler.
type SessionClaims struct {
	Email       string `json:"email"`
	Role        Role   `json:"role"`
	DisplayName string `json:"display_name"`
	IsActive    bool   `json:"is_active"`
	jwt.RegisteredClaims
}

// SubjectID, hesabın kalıcı kimliğini döner (JWT "sub" claim'i).
func (c *SessionClaims) SubjectID() string {
	return c.Subject
}
