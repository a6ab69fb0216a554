package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/olympiadquiz/server/config"
	"github.com/olympiadquiz/server/internal/dto"
	"github.com/olympiadquiz/server/internal/errs"
	"github.com/olympiadquiz/server/internal/model"
	"github.com/olympiadquiz/server/internal/repository"
)

// fakeUserRepo keeps users in memory, keyed by ID.
type fakeUserRepo struct {
	users  map[uint]*model.User
	nextID uint
	top    []repository.AttempterRow
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*model.User)}
}

func (f *fakeUserRepo) Create(user *model.User) error {
	for _, u := range f.users {
		if u.Username == user.Username {
			return fmt.Errorf("user %q: %w", user.Username, errs.ErrDuplicateUsername)
		}
	}
	f.nextID++
	user.ID = f.nextID
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) ByID(id uint) (*model.User, error) {
	if u, ok := f.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, fmt.Errorf("user %d: %w", id, errs.ErrNotFound)
}

func (f *fakeUserRepo) ByUsername(username string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", username, errs.ErrNotFound)
}

func (f *fakeUserRepo) List() ([]model.User, error) {
	out := make([]model.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserRepo) Update(user *model.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return fmt.Errorf("user %d: %w", user.ID, errs.ErrNotFound)
	}
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) Delete(id uint) error {
	if _, ok := f.users[id]; !ok {
		return fmt.Errorf("user %d: %w", id, errs.ErrNotFound)
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) CountUsers() (int64, int64, error) {
	var total, admins int64
	for _, u := range f.users {
		total++
		if u.IsAdmin {
			admins++
		}
	}
	return total, admins, nil
}

func (f *fakeUserRepo) TopAttempters(limit int) ([]repository.AttempterRow, error) {
	if limit < len(f.top) {
		return f.top[:limit], nil
	}
	return f.top, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenTTLHours = 1
	return cfg
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, testConfig())

	user, err := svc.Register(dto.RegisterRequest{Username: "alice", Password: "s3cret", ConfirmPassword: "s3cret"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.IsAdmin {
		t.Error("self-registered user must not be admin")
	}

	// The stored hash is not the raw password.
	stored, _ := repo.ByUsername("alice")
	if stored.PasswordHash == "s3cret" {
		t.Error("password stored in clear")
	}

	auth, err := svc.Login(dto.LoginRequest{Username: "alice", Password: "s3cret"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if auth.Token == "" {
		t.Fatal("Login returned an empty token")
	}

	token, err := jwt.Parse(auth.Token, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("issued token does not verify: %v", err)
	}
	claims := token.Claims.(jwt.MapClaims)
	if claims["adm"] != false {
		t.Errorf("adm claim = %v, want false", claims["adm"])
	}
}

func TestRegisterPasswordMismatch(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), testConfig())
	_, err := svc.Register(dto.RegisterRequest{Username: "alice", Password: "s3cret", ConfirmPassword: "other"})
	if !errors.Is(err, errs.ErrValidation) {
		t.Errorf("mismatched confirmation = %v, want ErrValidation", err)
	}
}

func TestRegisterShortPassword(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), testConfig())
	_, err := svc.Register(dto.RegisterRequest{Username: "alice", Password: "abc", ConfirmPassword: "abc"})
	if !errors.Is(err, errs.ErrValidation) {
		t.Errorf("3-character password = %v, want ErrValidation", err)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), testConfig())
	req := dto.RegisterRequest{Username: "alice", Password: "s3cret", ConfirmPassword: "s3cret"}
	if _, err := svc.Register(req); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if _, err := svc.Register(req); !errors.Is(err, errs.ErrDuplicateUsername) {
		t.Errorf("second Register = %v, want ErrDuplicateUsername", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), testConfig())
	if _, err := svc.Register(dto.RegisterRequest{Username: "alice", Password: "s3cret", ConfirmPassword: "s3cret"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, err := svc.Login(dto.LoginRequest{Username: "alice", Password: "wrong"})
	if !errors.Is(err, errs.ErrValidation) {
		t.Errorf("wrong password = %v, want ErrValidation", err)
	}
	// An unknown user fails the same way; no username oracle.
	_, err2 := svc.Login(dto.LoginRequest{Username: "nobody", Password: "wrong"})
	if !errors.Is(err2, errs.ErrValidation) {
		t.Errorf("unknown user = %v, want ErrValidation", err2)
	}
}

func TestDeleteLastAdminRefused(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, testConfig())

	admin, err := svc.CreateUser(dto.UserCreateRequest{Username: "root", Password: "s3cret", IsAdmin: true})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	student, err := svc.CreateUser(dto.UserCreateRequest{Username: "bob", Password: "s3cret"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	if err := svc.DeleteUser(admin.ID); !errors.Is(err, errs.ErrLastAdminProtected) {
		t.Errorf("deleting the only admin = %v, want ErrLastAdminProtected", err)
	}
	if err := svc.DeleteUser(student.ID); err != nil {
		t.Errorf("deleting a student: %v", err)
	}

	// With a second admin present the first becomes deletable.
	if _, err := svc.CreateUser(dto.UserCreateRequest{Username: "root2", Password: "s3cret", IsAdmin: true}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := svc.DeleteUser(admin.ID); err != nil {
		t.Errorf("deleting an admin with another present: %v", err)
	}
}

func TestUpdateUserRenameConflict(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), testConfig())
	alice, _ := svc.CreateUser(dto.UserCreateRequest{Username: "alice", Password: "s3cret"})
	if _, err := svc.CreateUser(dto.UserCreateRequest{Username: "bob", Password: "s3cret"}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	taken := "bob"
	if err := svc.UpdateUser(alice.ID, dto.UserUpdateRequest{Username: &taken}); !errors.Is(err, errs.ErrDuplicateUsername) {
		t.Errorf("rename onto a taken name = %v, want ErrDuplicateUsername", err)
	}

	free := "alice2"
	if err := svc.UpdateUser(alice.ID, dto.UserUpdateRequest{Username: &free}); err != nil {
		t.Errorf("rename onto a free name: %v", err)
	}
}

func TestResetPasswordChangesLogin(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), testConfig())
	alice, _ := svc.CreateUser(dto.UserCreateRequest{Username: "alice", Password: "oldpass"})

	if err := svc.ResetPassword(alice.ID, "abc"); !errors.Is(err, errs.ErrValidation) {
		t.Errorf("short replacement password = %v, want ErrValidation", err)
	}
	if err := svc.ResetPassword(alice.ID, "newpass"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if _, err := svc.Login(dto.LoginRequest{Username: "alice", Password: "oldpass"}); err == nil {
		t.Error("old password still accepted after reset")
	}
	if _, err := svc.Login(dto.LoginRequest{Username: "alice", Password: "newpass"}); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
}

func TestBootstrapAdminIdempotent(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, testConfig())

	if err := svc.BootstrapAdmin("admin", "admin123"); err != nil {
		t.Fatalf("first BootstrapAdmin: %v", err)
	}
	if err := svc.BootstrapAdmin("admin", "admin123"); err != nil {
		t.Fatalf("second BootstrapAdmin: %v", err)
	}
	total, admins, _ := repo.CountUsers()
	if total != 1 || admins != 1 {
		t.Errorf("users = %d (%d admins), want exactly one admin", total, admins)
	}
	admin, _ := repo.ByUsername("admin")
	if !admin.IsAdmin {
		t.Error("bootstrap account is not an admin")
	}
}
