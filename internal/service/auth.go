package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/forkful/forkful-backend/internal/domain"
	"github.com/forkful/forkful-backend/internal/middleware"
	"github.com/forkful/forkful-backend/internal/store"
)

// tokenTTL bounds a session; the redis registry entry expires with the JWT.
const tokenTTL = 24 * time.Hour

// AuthService owns registration, login and session tokens. It is a
// collaborator of the core, not part of it: the services only ever see the
// principal id it places on the request context.
type AuthService struct {
	store     store.DocumentStore
	registry  TokenRegistry
	jwtSecret string
	logger    zerolog.Logger
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(docs store.DocumentStore, registry TokenRegistry, jwtSecret string, logger zerolog.Logger) *AuthService {
	return &AuthService{
		store:     docs,
		registry:  registry,
		jwtSecret: jwtSecret,
		logger:    logger.With().Str("service", "auth").Logger(),
	}
}

// Register creates a user document and opens a session. A missing photo
// gets the default avatar, a missing display name gets a generic one.
func (s *AuthService) Register(ctx context.Context, req domain.RegisterRequest) (string, domain.User, error) {
	if err := req.Validate(); err != nil {
		return "", domain.User{}, err
	}

	existing, err := s.store.QueryEquals(ctx, domain.UserCollection, "email", req.Email)
	if err != nil {
		return "", domain.User{}, err
	}
	if len(existing) > 0 {
		return "", domain.User{}, fmt.Errorf("%s: %w", req.Email, domain.ErrEmailTaken)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", domain.User{}, err
	}

	displayName := req.DisplayName
	if displayName == "" {
		displayName = "New User"
	}
	photoURL := req.PhotoURL
	if photoURL == "" {
		photoURL = domain.DefaultAvatarURL
	}

	now := time.Now().UTC()
	user := domain.User{
		Email:        req.Email,
		DisplayName:  displayName,
		PhotoURL:     photoURL,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	fields, err := user.Fields()
	if err != nil {
		return "", domain.User{}, err
	}
	id, err := s.store.Insert(ctx, domain.UserCollection, fields)
	if err != nil {
		return "", domain.User{}, err
	}
	user.ID = id

	token, err := s.generateToken(ctx, id)
	if err != nil {
		return "", domain.User{}, err
	}

	s.logger.Info().Str("user_id", id).Msg("user registered")
	return token, user, nil
}

// Login checks the credentials and opens a session. All failures collapse
// into ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, domain.User, error) {
	docs, err := s.store.QueryEquals(ctx, domain.UserCollection, "email", email)
	if err != nil {
		return "", domain.User{}, err
	}
	if len(docs) == 0 {
		return "", domain.User{}, domain.ErrInvalidCredentials
	}

	user, err := domain.UserFromFields(docs[0].ID, docs[0].Fields)
	if err != nil {
		return "", domain.User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", domain.User{}, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(ctx, user.ID)
	if err != nil {
		return "", domain.User{}, err
	}
	return token, user, nil
}

// Logout revokes the session behind the token. Revoking an already-dead
// token is not an error.
func (s *AuthService) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return nil
	}
	return s.registry.Remove(ctx, claims.TokenID)
}

// ValidateToken verifies the signature and expiry and checks the session is
// still registered.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*middleware.TokenClaims, error) {
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return nil, err
	}

	live, err := s.registry.Exists(ctx, claims.TokenID)
	if err != nil {
		return nil, fmt.Errorf("%w: session registry: %v", domain.ErrUnavailable, err)
	}
	if !live {
		return nil, fmt.Errorf("session revoked: %w", domain.ErrUnauthenticated)
	}
	return claims, nil
}

func (s *AuthService) generateToken(ctx context.Context, userID string) (string, error) {
	tokenID := uuid.NewString()
	claims := jwt.MapClaims{
		"sub": userID,
		"jti": tokenID,
		"exp": time.Now().Add(tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}
	if err := s.registry.Put(ctx, tokenID, userID, tokenTTL); err != nil {
		return "", fmt.Errorf("%w: session registry: %v", domain.ErrUnavailable, err)
	}
	return signed, nil
}

func (s *AuthService) parseToken(tokenString string) (*middleware.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrUnauthenticated)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token: %w", domain.ErrUnauthenticated)
	}
	sub, _ := claims["sub"].(string)
	jti, _ := claims["jti"].(string)
	if sub == "" || jti == "" {
		return nil, fmt.Errorf("invalid token claims: %w", domain.ErrUnauthenticated)
	}
	return &middleware.TokenClaims{UserID: sub, TokenID: jti}, nil
}
