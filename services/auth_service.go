package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"roadmap-review/config"
	"roadmap-review/logger"
	"roadmap-review/models"
	"roadmap-review/repositories"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	ParseToken(tokenString string) (*Claims, error)
	SetAdmin(ctx context.Context, email string, isAdmin bool) (*models.User, error)
}

type authService struct {
	userRepo repositories.UserRepository
	jwt      config.JWTConfig
	log      *logger.Logger
	now      func() time.Time
}

func NewAuthService(userRepo repositories.UserRepository, jwtCfg config.JWTConfig, log *logger.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		jwt:      jwtCfg,
		log:      log.With("service", "auth"),
		now:      time.Now,
	}
}

func (s *authService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	email := normalizeEmail(req.Email)

	// Check if user already exists
	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, models.ErrorConflict{Message: "user already exists"}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrorInternalServer{Message: "failed to look up user", Err: err}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.ErrorInternalServer{Message: "failed to hash password", Err: err}
	}

	// Admin rights are never granted through registration.
	user := &models.User{
		ID:            uuid.NewString(),
		Email:         email,
		DisplayName:   strings.TrimSpace(req.DisplayName),
		DiscordHandle: strings.TrimSpace(req.DiscordHandle),
		Password:      string(hashedPassword),
		Role:          models.RoleMember,
		Status:        models.UserStatusActive,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, models.ErrorInternalServer{Message: "failed to create user", Err: err}
	}
	s.log.Info("user registered", "user_id", user.ID)

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Token: token,
		User:  *user,
	}, nil
}

func (s *authService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorUnauthorized{Message: "invalid credentials"}
		}
		return nil, models.ErrorInternalServer{Message: "failed to look up user", Err: err}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, models.ErrorUnauthorized{Message: "invalid credentials"}
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Token: token,
		User:  *user,
	}, nil
}

func (s *authService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Message: "user not found"}
		}
		return nil, models.ErrorInternalServer{Message: "failed to look up user", Err: err}
	}
	return user, nil
}

func (s *authService) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.jwt.Secret), nil
	})
	if err != nil {
		return nil, models.ErrorUnauthorized{Message: "invalid token: " + err.Error()}
	}
	if !token.Valid || claims.UserID == "" {
		return nil, models.ErrorUnauthorized{Message: "token is not valid"}
	}
	return claims, nil
}

// SetAdmin grants or revokes the admin capability. Used by the CLI only.
func (s *authService) SetAdmin(ctx context.Context, email string, isAdmin bool) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Message: "user not found"}
		}
		return nil, models.ErrorInternalServer{Message: "failed to look up user", Err: err}
	}

	user.IsAdmin = isAdmin
	if isAdmin {
		user.Role = models.RoleAdmin
	} else if user.Role == models.RoleAdmin {
		user.Role = models.RoleMember
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, models.ErrorInternalServer{Message: "failed to update user", Err: err}
	}
	s.log.Info("admin capability changed", "user_id", user.ID, "is_admin", isAdmin)
	return user, nil
}

func (s *authService) generateToken(user *models.User) (string, error) {
	now := s.now()

	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwt.Expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString([]byte(s.jwt.Secret))
	if err != nil {
		return "", models.ErrorInternalServer{Message: "failed to sign token", Err: err}
	}

	return signedToken, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
