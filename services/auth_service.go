package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/emreakn/dojohub/models"
	"github.com/emreakn/dojohub/pkg"
	"github.com/emreakn/dojohub/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService interface'i — login orkestrasyon katmanı.
// Handler bu interface'e bağımlıdır, concrete struct'a değil.
type AuthService interface {
	// Login, imzalı payload'ı doğrular, credential'ı kontrol eder ve
	// başarılıysa yeni bir session token'ı ile sonucu döner.
	Login(ctx context.Context, payload *models.SignedLoginPayload) (*models.LoginResult, error)
	// RefreshSession, geçerli bir token'dan güncel hesap kaydına göre
	// taze bir token basar.
	RefreshSession(ctx context.Context, tokenString string) (string, error)
	// CreateAccount, yeni personel hesabı açar (admin işlemi).
	CreateAccount(ctx context.Context, req *models.CreateAccountRequest) (*models.User, error)
}

// authService, AuthService implementasyonu.
type authService struct {
	userRepo repository.UserRepository
	sessions SessionService
	verifier SignatureVerifier
	log      *zap.Logger
}

// NewAuthService, constructor.
func NewAuthService(
	userRepo repository.UserRepository,
	sessions SessionService,
	verifier SignatureVerifier,
	log *zap.Logger,
) AuthService {
	return &authService{
		userRepo: userRepo,
		sessions: sessions,
		verifier: verifier,
		log:      log,
	}
}

// Login akışı: imza doğrulama → hesap lookup → bcrypt karşılaştırma →
// aktiflik kontrolü → token basma.
//
// Güvenlik: "email bulunamadı", "şifre yanlış" ve "imza yanlış" response'ta
// TEK bir mesaja düşer (account enumeration koruması). Deaktive hesap ise
// farklı döner (403) — kullanıcı kendi hesabının kapatıldığını bilmeli.
func (s *authService) Login(ctx context.Context, payload *models.SignedLoginPayload) (*models.LoginResult, error) {
	normalized, err := s.verifier.Validate(payload)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, normalized.Email)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil, pkg.ErrInvalidCreds
		}
		return nil, err
	}

	// Client-side hash, stored bcrypt hash'in "şifresi" gibi karşılaştırılır.
	// Düz metin şifre server'a hiç ulaşmaz.
	if err := bcrypt.CompareHashAndPassword(
		[]byte(user.CredentialHash),
		[]byte(normalized.PasswordHash),
	); err != nil {
		return nil, pkg.ErrInvalidCreds
	}

	if !user.IsActive {
		return nil, pkg.ErrAccountDisabled
	}

	token, err := s.sessions.Issue(claimsFromUser(user))
	if err != nil {
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}

	s.log.Info("login succeeded",
		zap.String("subject", user.ID),
		zap.String("role", string(user.Role)))

	return &models.LoginResult{
		Token:      token,
		Role:       user.Role,
		RedirectTo: user.Role.RedirectPath(),
	}, nil
}

// RefreshSession, token'ı doğrular, hesabın GÜNCEL kaydını okur ve
// taze claims'ten yeni token basar.
//
// Neden kayıt tekrar okunur? Token'daki claims login anının snapshot'ıdır.
// Rol değişmiş veya hesap kapatılmış olabilir — yenilenen token bayat
// snapshot'ı bir 7 gün daha taşımamalı.
func (s *authService) RefreshSession(ctx context.Context, tokenString string) (string, error) {
	claims, err := s.sessions.Verify(tokenString)
	if err != nil {
		return "", err
	}

	user, err := s.userRepo.GetByID(ctx, claims.SubjectID())
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return "", pkg.ErrInvalidSession
		}
		return "", err
	}

	if !user.IsActive {
		return "", pkg.ErrAccountDisabled
	}

	return s.sessions.Issue(claimsFromUser(user))
}

// CreateAccount, admin'in açtığı yeni personel hesabını kaydeder.
// Client-side hash bcrypt (cost=12) ile sarılarak saklanır.
func (s *authService) CreateAccount(ctx context.Context, req *models.CreateAccountRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Credential), 12)
	if err != nil {
		return nil, fmt.Errorf("failed to hash credential: %w", err)
	}

	user := &models.User{
		ID:             uuid.New().String(),
		Email:          req.Email,
		Role:           req.Role,
		DisplayName:    req.DisplayName,
		IsActive:       true,
		CredentialHash: string(hash),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err // ErrAlreadyExists olabilir
	}

	s.log.Info("account created",
		zap.String("subject", user.ID),
		zap.String("role", string(user.Role)))

	return user, nil
}

// claimsFromUser, hesap kaydından session claims snapshot'ı oluşturur.
// Subject burada set edilir; temporal alanları SessionService.Issue doldurur.
func claimsFromUser(user *models.User) *models.SessionClaims {
	claims := &models.SessionClaims{
		Email:       user.Email,
		Role:        user.Role,
		DisplayName: user.DisplayName,
		IsActive:    user.IsActive,
	}
	claims.Subject = user.ID
	return claims
}
