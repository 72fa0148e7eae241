// Package abuseguard — login brute-force koruması.
//
// Guard, client identifier (IP) başına başarısız login denemelerini sayar:
// sliding window içinde threshold aşılırsa identifier belirli bir süre
// kilitlenir. Kilitli client, şifre/imza doğrulaması gibi pahalı işler
// yapılmadan ÖNCE reddedilir.
//
// Neden ayrı paket?
// handlers ↔ middleware arasında import cycle oluşmaması için guard
// bağımsız bir leaf paket olarak konumlandırıldı — hiçbir proje içi
// pakete bağımlı değildir.
//
// Neden store interface'i?
// Sayaç state'i AttemptStore arkasına soyutlandı: tek instance deploy'da
// in-memory map yeterli, yatay ölçeklemede aynı interface Redis ile
// backing'lenir — call site'lar değişmez.
package abuseguard

import (
	"context"
	"sync"
	"time"
)

// AttemptRecord, bir client identifier için lockout defteri.
type AttemptRecord struct {
	Count         int        `json:"count"`
	LastAttemptAt time.Time  `json:"last_attempt_at"`
	LockedUntil   *time.Time `json:"locked_until,omitempty"`
}

// AttemptStore, identifier → AttemptRecord saklama soyutlaması.
//
// Get, kayıt yoksa (nil, nil) döner — yokluk bir hata değildir.
// Put, kaydı TTL semantiği ile yazar: store, window+lockout'tan uzun
// süre dokunulmayan kayıtları silmekte serbesttir (bkz. MemoryStore sweep).
type AttemptStore interface {
	Get(ctx context.Context, id string) (*AttemptRecord, error)
	Put(ctx context.Context, id string, rec *AttemptRecord) error
	Delete(ctx context.Context, id string) error
}

// MemoryStore, AttemptStore'un in-memory implementasyonu.
//
// sync.RWMutex ile thread-safe. Background sweep goroutine'i, retention
// süresinden eski kayıtları periyodik olarak siler — aksi halde her
// başarısız denemenin IP'si map'te sonsuza dek kalır (bellek sızıntısı).
type MemoryStore struct {
	mu        sync.RWMutex
	records   map[string]*AttemptRecord
	retention time.Duration
	stopSweep chan struct{}
}

// NewMemoryStore, yeni bir MemoryStore oluşturur ve sweep goroutine'ini başlatır.
//
// retention: bir kaydın son denemeden sonra en fazla ne kadar yaşayacağı.
// Guard için doğru değer window + lockout'tur — daha eski bir kayıt
// zaten hiçbir karara etki edemez.
func NewMemoryStore(retention time.Duration, sweepInterval time.Duration) *MemoryStore {
	s := &MemoryStore{
		records:   make(map[string]*AttemptRecord),
		retention: retention,
		stopSweep: make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-s.stopSweep:
				return
			}
		}
	}()

	return s
}

// Get, kaydın bir KOPYASINI döner — caller'ın mutasyonu store'u etkilemez,
// değişiklik ancak Put ile geri yazılır.
func (s *MemoryStore) Get(_ context.Context, id string) (*AttemptRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

// Put, kaydı yazar (varsa üzerine).
func (s *MemoryStore) Put(_ context.Context, id string, rec *AttemptRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *rec
	s.records[id] = &cp
	return nil
}

// Delete, kaydı siler. Başarılı login'de guard tarafından çağrılır (af).
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, id)
	return nil
}

// Len, store'daki kayıt sayısını döner (test ve metrik amaçlı).
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}

// Close, sweep goroutine'ini durdurur (goroutine leak önleme).
func (s *MemoryStore) Close() {
	close(s.stopSweep)
}

// sweep, retention süresini aşmış kayıtları map'ten fiziksel olarak siler.
func (s *MemoryStore) sweep() {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, rec := range s.records {
		expired := now.Sub(rec.LastAttemptAt) > s.retention
		if rec.LockedUntil != nil && now.Before(*rec.LockedUntil) {
			// Aktif kilit asla süpürülmez
			expired = false
		}
		if expired {
			delete(s.records, id)
		}
	}
}
