package services

import (
	"context"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/rachao-basket/scoreboard/models"
	"github.com/rachao-basket/scoreboard/repositories"
)

type stubUserRepo struct {
	users []*models.User
}

func (r *stubUserRepo) Create(ctx context.Context, user *models.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	user.ID = len(r.users) + 1
	copied := *user
	r.users = append(r.users, &copied)
	return nil
}
func (r *stubUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}
func (r *stubUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}
func (r *stubUserRepo) List(ctx context.Context) ([]*models.User, error) {
	out := make([]*models.User, len(r.users))
	for i, u := range r.users {
		copied := *u
		out[i] = &copied
	}
	return out, nil
}
func (r *stubUserRepo) UpdateRole(ctx context.Context, id int, role models.UserRole) error {
	for _, u := range r.users {
		if u.ID == id {
			u.Role = role
			return nil
		}
	}
	return repositories.ErrUserNotFound
}
func (r *stubUserRepo) Delete(ctx context.Context, id int) error {
	for i, u := range r.users {
		if u.ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return repositories.ErrUserNotFound
}

const testJWTSecret = "test-secret"

func TestRegisterAndLogin(t *testing.T) {
	svc := NewAuthService(&stubUserRepo{}, testJWTSecret)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, RegisterInput{
		Name:     "João",
		Email:    "Joao@Example.com",
		Password: "segredo123",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Email != "joao@example.com" {
		t.Errorf("email must be normalized, got %q", user.Email)
	}
	if user.Role != models.RolePlayer {
		t.Errorf("new users must be players, got %s", user.Role)
	}
	if user.PasswordHash != "" {
		t.Error("password hash must never leave the service")
	}
	if token == "" {
		t.Fatal("expected a token")
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	if claims["role"] != string(models.RolePlayer) {
		t.Errorf("unexpected role claim %v", claims["role"])
	}

	if _, _, err := svc.Login(ctx, LoginInput{Email: "joao@example.com", Password: "segredo123"}); err != nil {
		t.Errorf("Login: %v", err)
	}
	if _, _, err := svc.Login(ctx, LoginInput{Email: "joao@example.com", Password: "errado"}); !errors.Is(err, ErrAuthInvalidCredentials) {
		t.Errorf("expected ErrAuthInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(ctx, LoginInput{Email: "ninguem@example.com", Password: "segredo123"}); !errors.Is(err, ErrAuthInvalidCredentials) {
		t.Errorf("expected ErrAuthInvalidCredentials for unknown email, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := NewAuthService(&stubUserRepo{}, testJWTSecret)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, RegisterInput{Name: "", Email: "a@b.com", Password: "segredo123"}); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("expected ErrValidationFailed, got %v", err)
	}
	if _, _, err := svc.Register(ctx, RegisterInput{Name: "João", Email: "a@b.com", Password: "curta"}); !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("expected ErrPasswordTooShort, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewAuthService(&stubUserRepo{}, testJWTSecret)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, RegisterInput{Name: "João", Email: "a@b.com", Password: "segredo123"}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := svc.Register(ctx, RegisterInput{Name: "Maria", Email: "A@B.com", Password: "segredo123"}); !errors.Is(err, ErrAuthEmailTaken) {
		t.Errorf("expected ErrAuthEmailTaken, got %v", err)
	}
}

func TestUpdateRoleValidatesRole(t *testing.T) {
	repo := &stubUserRepo{}
	svc := NewAuthService(repo, testJWTSecret)
	ctx := context.Background()

	user, _, err := svc.Register(ctx, RegisterInput{Name: "João", Email: "a@b.com", Password: "segredo123"})
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.UpdateRole(ctx, user.ID, "admin"); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("expected ErrValidationFailed for unknown role, got %v", err)
	}
	if err := svc.UpdateRole(ctx, user.ID, models.RoleMaster); err != nil {
		t.Errorf("UpdateRole: %v", err)
	}
	if got, _ := repo.GetByID(ctx, user.ID); got.Role != models.RoleMaster {
		t.Errorf("role not persisted, got %s", got.Role)
	}
	if err := svc.UpdateRole(ctx, 99, models.RolePlayer); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
