package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"eventportals/internal/domain"
)

const (
	minPasswordLen = 8
	defaultRole    = domain.RoleAttendee
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type authService struct {
	userRepo  domain.UserRepository
	roleRepo  domain.RoleRepository
	hasher    domain.PasswordHasher
	issuer    domain.TokenIssuer
	emailSvc  domain.EmailService
	jwtExpiry time.Duration
}

// NewAuthService creates an AuthService with the given repositories, hasher, and token issuer.
func NewAuthService(userRepo domain.UserRepository, roleRepo domain.RoleRepository, hasher domain.PasswordHasher, issuer domain.TokenIssuer, emailSvc domain.EmailService, jwtExpiry time.Duration) domain.AuthService {
	return &authService{
		userRepo:  userRepo,
		roleRepo:  roleRepo,
		hasher:    hasher,
		issuer:    issuer,
		emailSvc:  emailSvc,
		jwtExpiry: jwtExpiry,
	}
}

func (s *authService) SignUp(ctx context.Context, email, password, name, lastName, role string) (*domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if !emailRegexp.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email format", domain.ErrInvalidInput)
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLen)
	}

	// Admins are provisioned out of band, never through signup.
	roleCode := strings.TrimSpace(strings.ToLower(role))
	switch roleCode {
	case domain.RoleAttendee, domain.RoleOrganizer, domain.RoleVendor:
	default:
		roleCode = defaultRole
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		Salt:         salt,
		Name:         strings.TrimSpace(name),
		LastName:     strings.TrimSpace(lastName),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	roleRecord, err := s.roleRepo.GetByCode(ctx, roleCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get role %q: %w", roleCode, err)
	}
	if err := s.userRepo.AssignRole(ctx, user.ID, roleRecord.ID); err != nil {
		return nil, fmt.Errorf("failed to assign role: %w", err)
	}

	// Signup does not fail when the welcome email cannot be sent.
	_ = s.emailSvc.SendWelcomeMessage(ctx, &domain.WelcomeMessageEmailData{
		Email:     user.Email,
		FirstName: user.Name,
	})

	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		return "", nil, fmt.Errorf("invalid credentials")
	}
	if err := s.hasher.Compare(user.PasswordHash, user.Salt, password); err != nil {
		return "", nil, fmt.Errorf("invalid credentials")
	}

	token, err := issueToken(ctx, s.roleRepo, s.issuer, user, s.jwtExpiry)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// issueToken loads the user's role codes and signs a token carrying them.
// Shared by password login and login-code verification.
func issueToken(ctx context.Context, roleRepo domain.RoleRepository, issuer domain.TokenIssuer, user *domain.User, expiry time.Duration) (string, error) {
	roles, err := roleRepo.ListByUserID(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to load roles: %w", err)
	}
	roleCodes := make([]string, len(roles))
	for i, r := range roles {
		roleCodes[i] = r.Code
	}

	token, err := issuer.Issue(user.ID, user.Email, roleCodes, expiry)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}
