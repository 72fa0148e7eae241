package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/emreakn/dojohub/models"
	"github.com/emreakn/dojohub/pkg"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUserRepo, UserRepository'nin MongoDB implementasyonu.
//
// Kayıtlar "users" collection'ında yaşar. Email her zaman lowercase
// saklanır ve unique index ile korunur — login lookup'ı da lowercase
// üzerinden yapılır, case farkı duplicate hesap yaratamaz.
type MongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo, constructor.
func NewMongoUserRepo(db *mongo.Database) *MongoUserRepo {
	return &MongoUserRepo{
		coll: db.Collection("users"),
	}
}

// EnsureIndexes, gerekli index'leri oluşturur. Startup'ta bir kez çağrılır.
func (r *MongoUserRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create email index: %w", err)
	}
	return nil
}

// GetByEmail, email ile hesap kaydını getirir.
func (r *MongoUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, pkg.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

// GetByID, hesap ID'si ile kaydı getirir.
// Middleware her request'te bunu çağırır — token claims'i bayat olabilir,
// aktiflik/rol kararı güncel kayıttan verilir.
func (r *MongoUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, pkg.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &user, nil
}

// List, hesapları sayfalı olarak döner (admin paneli için).
func (r *MongoUserRepo) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(int64(offset)).
		SetSort(bson.D{{Key: "email", Value: 1}})

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []*models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

// Create, yeni hesap kaydı ekler. Email çakışmasında ErrAlreadyExists döner.
func (r *MongoUserRepo) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	_, err := r.coll.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: email already registered", pkg.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// SetActive, hesabın aktiflik durumunu değiştirir.
// Deaktive edilen hesabın henüz süresi dolmamış token'ları geçerli kalır —
// erişimi kesen şey middleware'ın her request'teki güncel kayıt kontrolüdür.
func (r *MongoUserRepo) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"isActive": active}},
	)
	if err != nil {
		return fmt.Errorf("failed to update user active state: %w", err)
	}
	if res.MatchedCount == 0 {
		return pkg.ErrNotFound
	}
	return nil
}
