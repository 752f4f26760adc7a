package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"eventportals/internal/domain"
)

type mockUserRepository struct {
	usersByEmail map[string]*domain.User
	usersByID    map[string]*domain.User
	assigned     map[string]string // userID -> roleID
	createErr    error
	nextID       int
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		usersByEmail: map[string]*domain.User{},
		usersByID:    map[string]*domain.User{},
		assigned:     map[string]string{},
	}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.usersByEmail[user.Email]; ok {
		return domain.ErrDuplicateEmail
	}
	m.nextID++
	user.ID = fmt.Sprintf("u%d", m.nextID)
	m.usersByEmail[user.Email] = user
	m.usersByID[user.ID] = user
	return nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, ok := m.usersByEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, ok := m.usersByID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepository) Update(ctx context.Context, user *domain.User) error {
	m.usersByID[user.ID] = user
	m.usersByEmail[user.Email] = user
	return nil
}

func (m *mockUserRepository) AssignRole(ctx context.Context, userID, roleID string) error {
	m.assigned[userID] = roleID
	return nil
}

type mockRoleRepository struct {
	rolesByCode map[string]*domain.Role
	byUserID    map[string][]*domain.Role
}

func newMockRoleRepository() *mockRoleRepository {
	return &mockRoleRepository{
		rolesByCode: map[string]*domain.Role{
			domain.RoleAttendee:  {ID: "role-attendee", Code: domain.RoleAttendee},
			domain.RoleOrganizer: {ID: "role-organizer", Code: domain.RoleOrganizer},
			domain.RoleVendor:    {ID: "role-vendor", Code: domain.RoleVendor},
			domain.RoleAdmin:     {ID: "role-admin", Code: domain.RoleAdmin},
		},
		byUserID: map[string][]*domain.Role{},
	}
}

func (m *mockRoleRepository) GetByCode(ctx context.Context, code string) (*domain.Role, error) {
	role, ok := m.rolesByCode[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return role, nil
}

func (m *mockRoleRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Role, error) {
	return m.byUserID[userID], nil
}

type fakePasswordHasher struct{}

func (fakePasswordHasher) GenerateSalt() (string, error) { return "salt", nil }

func (fakePasswordHasher) Hash(salt, password string) (string, error) {
	return "hash:" + salt + ":" + password, nil
}

func (fakePasswordHasher) Compare(hash, salt, password string) error {
	if hash != "hash:"+salt+":"+password {
		return errors.New("mismatch")
	}
	return nil
}

type fakeTokenIssuer struct {
	gotRoles []string
	err      error
}

func (f *fakeTokenIssuer) Issue(userID, email string, roles []string, expiry time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.gotRoles = roles
	return "token-for-" + userID, nil
}

func TestAuthService_SignUp(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		role     string
		wantErr  error
		wantRole string
	}{
		{
			name:     "attendee by default",
			email:    "a@example.com",
			password: "longenough",
			role:     "",
			wantRole: "role-attendee",
		},
		{
			name:     "organizer",
			email:    "b@example.com",
			password: "longenough",
			role:     "organizer",
			wantRole: "role-organizer",
		},
		{
			name:     "vendor with odd casing",
			email:    "c@example.com",
			password: "longenough",
			role:     " Vendor ",
			wantRole: "role-vendor",
		},
		{
			name:     "admin falls back to attendee",
			email:    "d@example.com",
			password: "longenough",
			role:     "admin",
			wantRole: "role-attendee",
		},
		{
			name:     "invalid email",
			email:    "not-an-email",
			password: "longenough",
			wantErr:  domain.ErrInvalidInput,
		},
		{
			name:     "short password",
			email:    "e@example.com",
			password: "short",
			wantErr:  domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := newMockUserRepository()
			roleRepo := newMockRoleRepository()
			svc := NewAuthService(userRepo, roleRepo, fakePasswordHasher{}, &fakeTokenIssuer{}, &mockEmailService{}, time.Hour)

			user, err := svc.SignUp(context.Background(), tt.email, tt.password, "Ada", "Lovelace", tt.role)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("SignUp: %v", err)
			}
			if user.ID == "" {
				t.Fatal("expected user ID to be set")
			}
			if got := userRepo.assigned[user.ID]; got != tt.wantRole {
				t.Fatalf("expected role %q assigned, got %q", tt.wantRole, got)
			}
		})
	}
}

func TestAuthService_SignUp_SendsWelcomeEmail(t *testing.T) {
	userRepo := newMockUserRepository()
	roleRepo := newMockRoleRepository()
	emailSvc := &mockEmailService{}
	svc := NewAuthService(userRepo, roleRepo, fakePasswordHasher{}, &fakeTokenIssuer{}, emailSvc, time.Hour)

	if _, err := svc.SignUp(context.Background(), "a@example.com", "longenough", "Ada", "", ""); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if len(emailSvc.welcomes) != 1 {
		t.Fatalf("expected 1 welcome email, got %d", len(emailSvc.welcomes))
	}
	if emailSvc.welcomes[0].FirstName != "Ada" {
		t.Fatalf("unexpected welcome data %+v", emailSvc.welcomes[0])
	}
}

func TestAuthService_SignUp_DuplicateEmail(t *testing.T) {
	userRepo := newMockUserRepository()
	roleRepo := newMockRoleRepository()
	svc := NewAuthService(userRepo, roleRepo, fakePasswordHasher{}, &fakeTokenIssuer{}, &mockEmailService{}, time.Hour)

	if _, err := svc.SignUp(context.Background(), "a@example.com", "longenough", "Ada", "", ""); err != nil {
		t.Fatalf("first SignUp: %v", err)
	}
	_, err := svc.SignUp(context.Background(), "A@Example.com", "longenough", "Ada", "", "")
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	userRepo := newMockUserRepository()
	roleRepo := newMockRoleRepository()
	issuer := &fakeTokenIssuer{}
	svc := NewAuthService(userRepo, roleRepo, fakePasswordHasher{}, issuer, &mockEmailService{}, time.Hour)

	user, err := svc.SignUp(context.Background(), "a@example.com", "longenough", "Ada", "", "organizer")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	roleRepo.byUserID[user.ID] = []*domain.Role{{ID: "role-organizer", Code: domain.RoleOrganizer}}

	token, got, err := svc.Login(context.Background(), "a@example.com", "longenough")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token != "token-for-"+user.ID {
		t.Fatalf("unexpected token %q", token)
	}
	if got.ID != user.ID {
		t.Fatalf("expected user %q, got %q", user.ID, got.ID)
	}
	if len(issuer.gotRoles) != 1 || issuer.gotRoles[0] != domain.RoleOrganizer {
		t.Fatalf("expected organizer role in token, got %v", issuer.gotRoles)
	}
}

func TestAuthService_Login_BadCredentials(t *testing.T) {
	userRepo := newMockUserRepository()
	roleRepo := newMockRoleRepository()
	svc := NewAuthService(userRepo, roleRepo, fakePasswordHasher{}, &fakeTokenIssuer{}, &mockEmailService{}, time.Hour)

	if _, err := svc.SignUp(context.Background(), "a@example.com", "longenough", "Ada", "", ""); err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), "a@example.com", "wrongpass"); err == nil {
		t.Fatal("expected error for wrong password")
	}
	if _, _, err := svc.Login(context.Background(), "nobody@example.com", "longenough"); err == nil {
		t.Fatal("expected error for unknown email")
	}
}
