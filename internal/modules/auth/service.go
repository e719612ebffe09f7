package auth

import (
	"context"
	"errors"
	"strings"

	"photobook/internal/domain"
	"photobook/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// dummyHash keeps the cost of a failed lookup close to a failed compare.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("photobook-dummy-password"), bcrypt.DefaultCost)

// Service contains the business logic for accounts and sessions.
type Service struct {
	users UserRepositoryInterface
	jwt   jwtService
	log   *zap.Logger
	cost  int
}

func NewService(users UserRepositoryInterface, jwt jwtService, log *zap.Logger) *Service {
	return &Service{users: users, jwt: jwt, log: log, cost: bcrypt.DefaultCost}
}

type LoginResult struct {
	User        *domain.User
	AccessToken string
}

func (s *Service) RegisterClient(ctx context.Context, req RegisterRequest) (*LoginResult, error) {
	return s.register(ctx, req, domain.RoleClient)
}

// RegisterPhotographer creates an account that can own a price table and
// receive bookings.
func (s *Service) RegisterPhotographer(ctx context.Context, req RegisterRequest) (*LoginResult, error) {
	return s.register(ctx, req, domain.RolePhotographer)
}

func (s *Service) register(ctx context.Context, req RegisterRequest, role domain.UserRole) (*LoginResult, error) {
	hashedPassword, err := s.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hashedPassword,
		Name:         strings.TrimSpace(req.Name),
		Phone:        strings.TrimSpace(req.Phone),
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	token, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}

	s.log.Info("user registered", zap.Int64("user_id", user.ID), zap.String("role", string(role)))
	user.PasswordHash = ""
	return &LoginResult{User: user, AccessToken: token}, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(req.Password))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.log.Info("login failed", zap.Int64("user_id", user.ID))
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return &LoginResult{User: user, AccessToken: accessToken}, nil
}

func (s *Service) GetCurrentUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*domain.User, error) {
	user, err := s.users.UpdateProfile(ctx, userID, strings.TrimSpace(req.Name), strings.TrimSpace(req.Phone))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// HashPassword is exported for the seed command.
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
