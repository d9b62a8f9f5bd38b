package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kikisite/internal/apperr"
	"kikisite/internal/models"
	"kikisite/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// TokenTTL is how long an issued token stays valid.
const TokenTTL = 24 * time.Hour

// MinPasswordLength applies to accounts created through CreateUser.
const MinPasswordLength = 8

// dummyHash is compared against when the username is unknown so both failure
// paths cost one bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("kikisite-dummy-password"), bcrypt.DefaultCost)

// Claims is the payload of an issued token.
type Claims struct {
	UserID   string      `json:"userId"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	jwt.StandardClaims
}

// LoginResult is returned by a successful Login.
type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which JWT is valid
	log        zerolog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, log zerolog.Logger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: TokenTTL,
		log:        log.With().Str("component", "auth").Logger(),
	}
}

// CreateUser hashes the password and stores a new account.
func (s *AuthService) CreateUser(ctx context.Context, username, password string, role models.Role) (*models.User, error) {
	if username == "" {
		return nil, apperr.Validation("Username is required")
	}
	if len(password) < MinPasswordLength {
		return nil, apperr.Validation("Password must be at least %d characters", MinPasswordLength)
	}
	if !role.Valid() {
		return nil, apperr.Validation("Role must be one of admin, editor")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	s.log.Info().Str("username", username).Str("role", string(role)).Msg("User created")
	return user, nil
}

// Login authenticates a user and returns a signed token if successful.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			return nil, err
		}
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, apperr.Unauthorized("Invalid username or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.Unauthorized("Invalid username or password")
	}

	loginAt := time.Now().UTC()
	if err := s.userRepo.TouchLastLogin(ctx, user.ID, loginAt); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}
	user.LastLogin = &loginAt

	token, expiresAt, err := s.issueToken(user, loginAt)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("username", user.Username).Msg("User logged in")
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *AuthService) issueToken(user *models.User, issuedAt time.Time) (string, time.Time, error) {
	expiresAt := issuedAt.Add(s.tokenDurat)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		StandardClaims: jwt.StandardClaims{
			Subject:   user.ID,
			IssuedAt:  issuedAt.Unix(),
			ExpiresAt: expiresAt.Unix(),
		},
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, expiresAt, nil
}

// ValidateToken parses and validates a token, returning the identity it
// carries. Every failure is reported as ErrUnauthorized.
func (s *AuthService) ValidateToken(tokenString string) (*models.Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		s.log.Debug().Err(err).Msg("Token validation failed")
		return nil, apperr.Unauthorized("Invalid or expired token")
	}
	if !token.Valid || claims.UserID == "" || !claims.Role.Valid() || claims.ExpiresAt == 0 {
		return nil, apperr.Unauthorized("Invalid or expired token")
	}

	return &models.Identity{
		UserID:   claims.UserID,
		Username: claims.Username,
		Role:     claims.Role,
	}, nil
}

// Authorize succeeds iff the identity holds one of the allowed roles.
func Authorize(identity *models.Identity, allowed ...models.Role) error {
	if identity == nil {
		return apperr.Unauthorized("Authentication required")
	}
	for _, role := range allowed {
		if identity.Role == role {
			return nil
		}
	}
	return apperr.Forbidden("Insufficient permissions")
}
