// Package repository, veritabanı erişim katmanını tanımlar.
//
// Repository Pattern: service/middleware katmanı doğrudan Mongo query
// yazmaz — bu interface üzerinden çalışır.
//
// Neden interface?
// 1. Test: mock repository ile DB olmadan test edilir
// 2. Esneklik: backend değişirse sadece yeni implementasyon yazılır
// 3. Dependency Inversion: üst katman concrete struct'a bağımlı olmaz
package repository

import (
	"context"

	"github.com/emreakn/dojohub/models"
)

// UserRepository, personel hesap kayıtları için interface.
//
// Bu alt sistem kullanıcı kaydının sadece TÜKETİCİSİDİR: auth'un
// ihtiyacı olan alanları okur, hesap aktifliğini yönetir. Üye/ders
// gibi business collection'ları bu katmanın dışındadır.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
	Create(ctx context.Context, user *models.User) error
	SetActive(ctx context.Context, id string, active bool) error
}
