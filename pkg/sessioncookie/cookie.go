// Package sessioncookie — session token'ı Set-Cookie header'ına çeviren
// saf formatlama katmanı.
//
// Burada HİÇBİR doğrulama mantığı yaşamaz: token'ın geçerliliği
// SessionService'in, kimin erişeceği middleware'ın işidir.
// Bu paket sadece cookie attribute sözleşmesini tek bir yerde sabitler.
package sessioncookie

import (
	"net/http"
	"time"
)

// Writer, sabit attribute'larla session cookie yazar/temizler.
//
// Attribute sözleşmesi:
//   - HttpOnly: JavaScript erişemez (XSS token hırsızlığına karşı)
//   - Path=/: tüm route'larda geçerli
//   - SameSite=Lax: cross-site POST'larda gönderilmez (CSRF azaltımı)
//   - Secure: SADECE production'da (local dev http üzerinden çalışır)
//   - Max-Age: token TTL'i saniye cinsinden
type Writer struct {
	name   string
	ttl    time.Duration
	secure bool
}

// NewWriter, constructor.
func NewWriter(name string, ttl time.Duration, secure bool) *Writer {
	return &Writer{
		name:   name,
		ttl:    ttl,
		secure: secure,
	}
}

// Name, cookie adını döner — middleware request'ten okurken kullanır.
func (w *Writer) Name() string {
	return w.name
}

// build, set/clear ortak attribute'ları ile cookie oluşturur.
// Clear, aynı name/path/flag'lerle Max-Age=0 yazar — tarayıcı ancak
// attribute'lar birebir eşleşirse cookie'yi gerçekten siler.
func (w *Writer) build(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     w.name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   w.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Set, token'ı session cookie olarak response'a yazar.
func (w *Writer) Set(rw http.ResponseWriter, token string) {
	http.SetCookie(rw, w.build(token, int(w.ttl.Seconds())))
}

// Clear, session cookie'yi temizleyen header'ı yazar.
// Go'da MaxAge<0 → "Max-Age=0" attribute'u üretir (anında silme);
// MaxAge=0 ise attribute'u tamamen atlardı.
func (w *Writer) Clear(rw http.ResponseWriter) {
	http.SetCookie(rw, w.build("", -1))
}

// SetHeader, Set-Cookie header değerini string olarak döner.
func (w *Writer) SetHeader(token string) string {
	return w.build(token, int(w.ttl.Seconds())).String()
}

// ClearHeader, cookie'yi temizleyen Set-Cookie header değerini döner.
func (w *Writer) ClearHeader() string {
	return w.build("", -1).String()
}
