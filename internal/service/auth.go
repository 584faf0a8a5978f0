package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/recipeshare/internal/logging"
	"github.com/pageza/recipeshare/internal/models"
	"github.com/pageza/recipeshare/internal/types"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidToken       = errors.New("invalid token")
)

// SignupError is a registration input problem shown to the user verbatim
type SignupError struct {
	Message string
}

func (e *SignupError) Error() string { return e.Message }

// MinPasswordLength is the shortest password Register accepts
const MinPasswordLength = 6

// TokenTTL is the lifetime of a session token
const TokenTTL = 24 * time.Hour

type AuthService struct {
	db        *gorm.DB
	jwtSecret string
	now       func() time.Time
}

func NewAuthService(db *gorm.DB, jwtSecret string) *AuthService {
	return &AuthService{
		db:        db,
		jwtSecret: jwtSecret,
		now:       time.Now,
	}
}

// Register creates a password account
func (s *AuthService) Register(ctx context.Context, email, username, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)

	if _, err := mail.ParseAddress(email); err != nil {
		return nil, &SignupError{Message: "The email address is badly formatted."}
	}
	if username == "" {
		return nil, &SignupError{Message: "Username is required."}
	}
	if len(password) < MinPasswordLength {
		return nil, &SignupError{Message: fmt.Sprintf("Password should be at least %d characters.", MinPasswordLength)}
	}

	// Check if user already exists
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ? OR username = ?", email, username).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if count > 0 {
		return nil, ErrUserExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: string(hashedPassword),
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logging.Info("user registered", zap.String("user_id", user.ID.String()))
	return user, nil
}

// Login checks an email and password pair
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	// Federated accounts have no password
	if user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// GetUserByID loads a user
func (s *AuthService) GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindOrCreateGoogleUser returns the account linked to a Google subject,
// linking an existing account with the same email or creating a new one
func (s *AuthService) FindOrCreateGoogleUser(ctx context.Context, profile GoogleProfile) (*models.User, error) {
	db := s.db.WithContext(ctx)

	var user models.User
	err := db.Where("google_subject = ?", profile.Subject).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	email := strings.ToLower(profile.Email)
	subject := profile.Subject
	err = db.Where("email = ?", email).First(&user).Error
	switch {
	case err == nil:
		user.GoogleSubject = &subject
		if err := db.Save(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to link google account: %w", err)
		}
		return &user, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	user = models.User{
		Email:         email,
		Username:      s.availableUsername(ctx, email),
		GoogleSubject: &subject,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	logging.Info("user registered with google", zap.String("user_id", user.ID.String()))
	return &user, nil
}

func (s *AuthService) availableUsername(ctx context.Context, email string) string {
	base := email
	if i := strings.IndexByte(email, '@'); i > 0 {
		base = email[:i]
	}
	if len(base) > 40 {
		base = base[:40]
	}
	candidate := base
	for i := 0; i < 5; i++ {
		var count int64
		s.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", candidate).Count(&count)
		if count == 0 {
			return candidate
		}
		candidate = base + "-" + uuid.NewString()[:6]
	}
	return candidate
}

// GenerateToken signs claims, filling in the registered claims
func (s *AuthService) GenerateToken(claims *types.TokenClaims) (string, error) {
	now := s.now()
	claims.Subject = claims.UserID.String()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(TokenTTL))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ValidateToken parses and verifies a session token
func (s *AuthService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == uuid.Nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
