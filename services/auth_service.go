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
	"questbridge-api/models"
	"questbridge-api/repositories"
	"questbridge-api/utils"
)

const passwordHashCost = 12

type RegisterInput struct {
	Email    string
	Password string
	Username string
	Role     models.Role
}

type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Authenticate(ctx context.Context, email, password string) (*AuthResult, error)
	Verify(token string) (*models.Identity, error)
	Authorize(identity models.Identity, required models.Role) error
}

type sessionClaims struct {
	UserID   string      `json:"id"`
	Email    string      `json:"email"`
	Username string      `json:"username,omitempty"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

type authService struct {
	users  repositories.UserRepository
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthService(users repositories.UserRepository, secret string, ttl time.Duration) AuthService {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &authService{
		users:  users,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := models.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, invalidArgument("email and password are required")
	}
	if !utils.IsValidEmail(email) {
		return nil, invalidArgument("invalid email format")
	}

	role := in.Role
	if !role.Valid() {
		role = models.RoleAttendee
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), passwordHashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:       uuid.New().String(),
		Username: strings.TrimSpace(in.Username),
		Email:    email,
		Password: string(hash),
		Role:     role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflict("user already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.issue(user)
}

func (s *authService) Authenticate(ctx context.Context, email, password string) (*AuthResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, invalidArgument("email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("no account found with this email")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, unauthorized("invalid password")
	}

	return s.issue(user)
}

func (s *authService) Verify(token string) (*models.Identity, error) {
	if token == "" {
		return nil, unauthorized("authentication required")
	}

	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return nil, unauthorized("invalid or expired token")
	}
	if claims.UserID == "" {
		return nil, unauthorized("invalid or expired token")
	}

	role := claims.Role
	if !role.Valid() {
		role = models.RoleAttendee
	}

	return &models.Identity{
		ID:       claims.UserID,
		Email:    claims.Email,
		Username: claims.Username,
		Role:     role,
	}, nil
}

func (s *authService) Authorize(identity models.Identity, required models.Role) error {
	return requireRole(identity, required)
}

func (s *authService) issue(user *models.User) (*AuthResult, error) {
	now := s.now()
	claims := sessionClaims{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &AuthResult{Token: signed, User: user}, nil
}
