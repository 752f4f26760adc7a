package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"eventportals/internal/domain"
)

const (
	loginCodeDigits = 6
	loginCodeTTL    = 15 * time.Minute
)

type userService struct {
	userRepo  domain.UserRepository
	roleRepo  domain.RoleRepository
	codeRepo  domain.LoginCodeRepository
	emailSvc  domain.EmailService
	issuer    domain.TokenIssuer
	jwtExpiry time.Duration
}

// NewUserService creates a UserService handling passwordless login and profiles.
func NewUserService(userRepo domain.UserRepository, roleRepo domain.RoleRepository, codeRepo domain.LoginCodeRepository, emailSvc domain.EmailService, issuer domain.TokenIssuer, jwtExpiry time.Duration) domain.UserService {
	return &userService{
		userRepo:  userRepo,
		roleRepo:  roleRepo,
		codeRepo:  codeRepo,
		emailSvc:  emailSvc,
		issuer:    issuer,
		jwtExpiry: jwtExpiry,
	}
}

func (s *userService) RequestLoginCode(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if !emailRegexp.MatchString(email) {
		return fmt.Errorf("%w: invalid email format", domain.ErrInvalidInput)
	}

	// Do not reveal whether the address is registered.
	if _, err := s.userRepo.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	code, err := generateLoginCode()
	if err != nil {
		return fmt.Errorf("failed to generate login code: %w", err)
	}
	if err := s.codeRepo.Create(ctx, email, hashLoginCode(code), time.Now().Add(loginCodeTTL)); err != nil {
		return fmt.Errorf("failed to store login code: %w", err)
	}

	data := &domain.LoginCodeEmailData{
		Email:            email,
		Code:             code,
		ExpiresInMinutes: int(loginCodeTTL.Minutes()),
	}
	if err := s.emailSvc.SendLoginCode(ctx, data); err != nil {
		return fmt.Errorf("failed to send login code: %w", err)
	}
	return nil
}

func (s *userService) VerifyLoginCode(ctx context.Context, email, code string) (string, *domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	code = strings.TrimSpace(code)

	consumed, err := s.codeRepo.Consume(ctx, email, hashLoginCode(code))
	if err != nil {
		return "", nil, fmt.Errorf("failed to consume login code: %w", err)
	}
	if !consumed {
		return "", nil, fmt.Errorf("invalid or expired login code")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("invalid or expired login code")
	}

	token, err := issueToken(ctx, s.roleRepo, s.issuer, user, s.jwtExpiry)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, user *domain.User) error {
	user.Name = strings.TrimSpace(user.Name)
	user.LastName = strings.TrimSpace(user.LastName)
	if user.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func generateLoginCode() (string, error) {
	max := big.NewInt(10)
	digits := make([]byte, loginCodeDigits)
	for i := range digits {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}

func hashLoginCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
