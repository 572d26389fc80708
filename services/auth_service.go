package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/HSouheill/dispensary_backend/logger"
	"github.com/HSouheill/dispensary_backend/metrics"
	"github.com/HSouheill/dispensary_backend/middleware"
	"github.com/HSouheill/dispensary_backend/models"
	"github.com/HSouheill/dispensary_backend/repositories"
)

type AuthService struct {
	users     repositories.UserRepository
	stores    repositories.StoreRepository
	resellers repositories.ResellerRepository
	tokens    TokenStore
	metrics   *metrics.Metrics
	secret    string
	ttl       time.Duration
	now       func() time.Time
}

func NewAuthService(
	users repositories.UserRepository,
	stores repositories.StoreRepository,
	resellers repositories.ResellerRepository,
	tokens TokenStore,
	m *metrics.Metrics,
	secret string,
	ttl time.Duration,
) *AuthService {
	if ttl <= 0 {
		ttl = middleware.DefaultTokenTTL
	}
	return &AuthService{
		users:     users,
		stores:    stores,
		resellers: resellers,
		tokens:    tokens,
		metrics:   m,
		secret:    secret,
		ttl:       ttl,
		now:       time.Now,
	}
}

// Login checks the credentials and issues a token. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if s.tokens.FailedLogins(ctx, email) >= MaxLoginAttempts {
		s.metrics.Login("locked")
		return nil, ErrTooManyAttempts
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		s.failedLogin(ctx, email)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		s.metrics.Login("error")
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.failedLogin(ctx, email)
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		s.metrics.Login("disabled")
		return nil, ErrAccountDisabled
	}

	now := s.now()
	token, _, err := middleware.GenerateJWT(s.secret, s.ttl, user, now)
	if err != nil {
		s.metrics.Login("error")
		return nil, err
	}

	if err := s.tokens.ResetFailedLogins(ctx, email); err != nil {
		logger.WithError(err).Warn("failed to reset login attempts")
	}
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		logger.WithError(err).Warn("failed to record last login")
	}
	s.metrics.Login("success")

	return &models.LoginResponse{
		Token: token,
		User: models.LoginUser{
			ID:      user.ID.Hex(),
			Email:   user.Email,
			Name:    user.Name,
			Role:    user.Role,
			StoreID: user.StoreIDHex(),
		},
	}, nil
}

func (s *AuthService) failedLogin(ctx context.Context, email string) {
	s.metrics.Login("failure")
	if _, err := s.tokens.RegisterFailedLogin(ctx, email); err != nil {
		logger.WithError(err).Warn("failed to count login attempt")
	}
}

// Logout revokes token until its own expiry
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := middleware.ParseJWT(s.secret, token)
	if err != nil {
		return ErrInvalidCredentials
	}
	return s.tokens.Revoke(ctx, token, time.Unix(claims.ExpiresAt, 0))
}

func (s *AuthService) Me(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	return s.users.FindByID(ctx, userID)
}

// Register creates an account. Store roles need an existing store, portal
// roles need the reseller profile they act for.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	role, err := models.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := models.User{
		ID:        primitive.NewObjectID(),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Name:      strings.TrimSpace(req.Name),
		Role:      role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if role.StoreBound() {
		storeID, err := primitive.ObjectIDFromHex(req.StoreID)
		if err != nil {
			return nil, ErrInvalidID
		}
		if _, err := s.stores.FindByID(ctx, storeID); err != nil {
			return nil, err
		}
		user.StoreID = &storeID
	}
	if role == models.RolePartner || role == models.RoleConsultant {
		resellerID, err := primitive.ObjectIDFromHex(req.ResellerID)
		if err != nil {
			return nil, ErrInvalidID
		}
		if _, err := s.resellers.FindByID(ctx, models.ResellerType(role), resellerID); err != nil {
			return nil, err
		}
		user.ResellerID = &resellerID
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user.Password = string(hash)

	if err := s.users.Create(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
