package abuseguard

import (
	"context"
	"time"
)

// Guard, client identifier başına failed-attempt state machine'i işletir.
//
// Üç mantıksal durum:
//
//	Clear  — kayıt yok veya count=0
//	Warned — count>0, henüz kilit yok
//	Locked — lockedUntil gelecekte
//
// Geçiş kuralları:
//   - RecordFailure: son denemenin üzerinden window geçtiyse sayaç önce
//     sıfırlanır (bayat sayaç sonsuza dek taşınmaz); sonra artırılır.
//     Sayaç CANLI pencere içinde threshold'a ulaştığı anda Locked'a girilir.
//   - CheckAllowed: Locked ise kalan süreyle reddeder; aksi halde izin.
//   - Clear: başarılı login affı — kayıt tamamen silinir, bir sonraki
//     başarısız deneme 1'den başlar.
//
// Eşzamanlılık notu: aynı identifier'dan GERÇEKTEN eşzamanlı denemeler
// read-modify-write yarışında under-count edebilir. Guard bir caydırıcıdır,
// correctness-critical bir kilit değildir — soft guarantee kabul edilir.
type Guard struct {
	store     AttemptStore
	threshold int
	window    time.Duration
	lockout   time.Duration

	// now, testlerde zamanı kontrol edebilmek için enjekte edilir.
	now func() time.Time
}

// NewGuard, guard'ı oluşturur.
//
// threshold: pencere içinde izin verilen başarısız deneme (ör: 5).
// window: deneme sayma penceresi (ör: 15 dakika).
// lockout: threshold aşıldığında uygulanan kilit süresi (ör: 15 dakika).
func NewGuard(store AttemptStore, threshold int, window, lockout time.Duration) *Guard {
	return &Guard{
		store:     store,
		threshold: threshold,
		window:    window,
		lockout:   lockout,
		now:       time.Now,
	}
}

// Retention, store'a verilmesi gereken kayıt ömrünü döner.
// window + lockout'tan eski bir kayıt hiçbir karara etki edemez.
func Retention(window, lockout time.Duration) time.Duration {
	return window + lockout
}

// CheckAllowed, identifier'ın login denemesine izin verilip verilmediğini döner.
//
// İkinci dönüş değeri, kilitliyse kalan süredir (allowed=true iken 0).
//
// Bu kontrol her login denemesinde, HERHANGI bir credential işleminden
// ÖNCE çağrılır — kilitli client'a şifre/imza doğrulaması yapılmaz.
// Bu hem gereksiz CPU harcamayı önler hem de brute-force timing
// problarına karşı ikincil bir savunmadır.
//
// Store hatasında istek REDDEDILMEZ — guard advisory bir kontroldür,
// store arızası login'i tamamen kapatmamalıdır (fail-open).
func (g *Guard) CheckAllowed(ctx context.Context, id string) (bool, time.Duration) {
	rec, err := g.store.Get(ctx, id)
	if err != nil || rec == nil {
		return true, 0
	}

	if rec.LockedUntil != nil {
		remaining := rec.LockedUntil.Sub(g.now())
		if remaining > 0 {
			return false, remaining
		}
	}

	return true, 0
}

// RecordFailure, başarısız bir login denemesini kaydeder.
// Threshold canlı pencere içinde aşılırsa identifier kilitlenir.
func (g *Guard) RecordFailure(ctx context.Context, id string) error {
	now := g.now()

	rec, err := g.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if rec == nil {
		rec = &AttemptRecord{}
	}

	// Pencere dışı bayat sayaç → sıfırla, yeni pencere başlat
	if !rec.LastAttemptAt.IsZero() && now.Sub(rec.LastAttemptAt) > g.window {
		rec.Count = 0
		rec.LockedUntil = nil
	}

	rec.Count++
	rec.LastAttemptAt = now

	// Locked durumuna GİRİŞ — advisory bir uyarı değil, state geçişi.
	if rec.Count >= g.threshold {
		until := now.Add(g.lockout)
		rec.LockedUntil = &until
	}

	return g.store.Put(ctx, id, rec)
}

// Clear, başarılı login sonrası identifier'ın kaydını siler (af).
func (g *Guard) Clear(ctx context.Context, id string) error {
	return g.store.Delete(ctx, id)
}

// SetNowFunc, test amaçlı zaman kaynağını değiştirir.
func (g *Guard) SetNowFunc(now func() time.Time) {
	g.now = now
}
