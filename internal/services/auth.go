package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/venuepoint/loyalty-backend/internal/data/repos"
	types "github.com/venuepoint/loyalty-backend/internal/domain"
	"github.com/venuepoint/loyalty-backend/internal/platform/logger"
)

// AdminClaims is the token payload for venue staff sessions.
type AdminClaims struct {
	AdminID uuid.UUID `json:"admin_id"`
	VenueID uuid.UUID `json:"venue_id"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Register(ctx context.Context, venueID uuid.UUID, email, password string) (*types.AdminUser, error)
	Login(ctx context.Context, email, password string) (string, error)
	ParseToken(tokenString string) (*AdminClaims, error)
	AccessTTL() time.Duration
}

type authService struct {
	db        *gorm.DB
	log       *logger.Logger
	admins    repos.AdminUserRepo
	secret    []byte
	accessTTL time.Duration
}

func NewAuthService(db *gorm.DB, log *logger.Logger, admins repos.AdminUserRepo, jwtSecret string, accessTTL time.Duration) AuthService {
	return &authService{
		db:        db,
		log:       log.With("service", "AuthService"),
		admins:    admins,
		secret:    []byte(jwtSecret),
		accessTTL: accessTTL,
	}
}

func (s *authService) Register(ctx context.Context, venueID uuid.UUID, email, password string) (*types.AdminUser, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(password) < 8 {
		return nil, fmt.Errorf("email and a password of at least 8 characters are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	admin := &types.AdminUser{
		ID:       uuid.New(),
		VenueID:  venueID,
		Email:    email,
		Password: string(hash),
	}
	created, err := s.admins.Create(ctx, nil, []*types.AdminUser{admin})
	if err != nil {
		return nil, err
	}
	return created[0], nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	admin, err := s.admins.GetByEmail(ctx, nil, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", types.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)); err != nil {
		return "", types.ErrNotFound
	}

	now := time.Now()
	claims := AdminClaims{
		AdminID: admin.ID,
		VenueID: admin.VenueID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   admin.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", err
	}
	s.log.Info("admin logged in", "adminID", admin.ID)
	return signed, nil
}

func (s *authService) ParseToken(tokenString string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

func (s *authService) AccessTTL() time.Duration { return s.accessTTL }
