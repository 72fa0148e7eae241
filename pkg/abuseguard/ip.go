package abuseguard

import (
	"fmt"
	"net"
	"net/http"
)

// ExtractIP, HTTP request'ten client IP adresini çıkarır.
//
// Öncelik sırası:
// 1. X-Forwarded-For header (reverse proxy arkasındaysa, ilk IP)
// 2. X-Real-IP header (nginx gibi proxy'ler ekler)
// 3. RemoteAddr (doğrudan bağlantı)
//
// Production'da uygulama genellikle nginx/Caddy arkasındadır —
// bu durumda RemoteAddr her zaman proxy'nin IP'sidir, gerçek client
// IP'si X-Forwarded-For veya X-Real-IP'dedir.
func ExtractIP(r *http.Request) string {
	// X-Forwarded-For: client, proxy1, proxy2 — ilk değer gerçek client
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// Doğrudan bağlantı — host:port formatından host'u ayır
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// FormatRetryMessage, kalan kilit süresini okunabilir formata çevirir.
// Örn: 14m30s → "15 minute(s)", 45s → "45 second(s)".
// Süre her zaman yukarı yuvarlanır — client tam süreyi beklesin.
func FormatRetryMessage(seconds int) string {
	if seconds >= 60 {
		minutes := (seconds + 59) / 60
		return fmt.Sprintf("%d minute(s)", minutes)
	}
	return fmt.Sprintf("%d second(s)", seconds)
}
