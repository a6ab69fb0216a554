package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/olympiadquiz/server/config"
	"github.com/olympiadquiz/server/internal/dto"
	"github.com/olympiadquiz/server/internal/errs"
	"github.com/olympiadquiz/server/internal/model"
	"github.com/olympiadquiz/server/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength matches the registration rule of the legacy system.
const MinPasswordLength = 4

type UserService interface {
	Register(req dto.RegisterRequest) (*dto.UserDTO, error)
	Login(req dto.LoginRequest) (*dto.AuthResponse, error)
	CreateUser(req dto.UserCreateRequest) (*dto.UserDTO, error)
	UpdateUser(id uint, req dto.UserUpdateRequest) error
	ResetPassword(id uint, newPassword string) error
	DeleteUser(id uint) error
	ListUsers() ([]dto.AdminUserDTO, error)
	BootstrapAdmin(username, password string) error
}

type userService struct {
	userRepo repository.UserRepository
	cfg      *config.Config
}

func NewUserService(userRepo repository.UserRepository, cfg *config.Config) UserService {
	return &userService{userRepo: userRepo, cfg: cfg}
}

// hashPassword stores passwords with bcrypt. The legacy system kept an
// unsalted SHA-256 digest; that scheme is not preserved.
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func validatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters long: %w", MinPasswordLength, errs.ErrValidation)
	}
	return nil
}

func (s *userService) createUser(username, password string, isAdmin bool) (*model.User, error) {
	if username == "" {
		return nil, fmt.Errorf("username is required: %w", errs.ErrValidation)
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.ByUsername(username); err == nil {
		return nil, fmt.Errorf("user %q: %w", username, errs.ErrDuplicateUsername)
	} else if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &model.User{Username: username, PasswordHash: hash, IsAdmin: isAdmin}
	if err := s.userRepo.Create(user); err != nil {
		log.Error().Err(err).Str("username", username).Msg("createUser: repository failure")
		return nil, err
	}
	return user, nil
}

func (s *userService) Register(req dto.RegisterRequest) (*dto.UserDTO, error) {
	if req.Password != req.ConfirmPassword {
		return nil, fmt.Errorf("passwords do not match: %w", errs.ErrValidation)
	}
	user, err := s.createUser(req.Username, req.Password, false)
	if err != nil {
		return nil, err
	}
	return &dto.UserDTO{ID: user.ID, Username: user.Username, IsAdmin: user.IsAdmin}, nil
}

func (s *userService) Login(req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.ByUsername(req.Username)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, fmt.Errorf("invalid username or password: %w", errs.ErrValidation)
		}
		return nil, err
	}
	if !checkPassword(user.PasswordHash, req.Password) {
		return nil, fmt.Errorf("invalid username or password: %w", errs.ErrValidation)
	}

	token, err := s.issueToken(user)
	if err != nil {
		log.Error().Err(err).Uint("userID", user.ID).Msg("Login: token issuing failed")
		return nil, fmt.Errorf("error issuing token: %w", err)
	}
	return &dto.AuthResponse{
		Token: token,
		User:  dto.UserDTO{ID: user.ID, Username: user.Username, IsAdmin: user.IsAdmin},
	}, nil
}

func (s *userService) issueToken(user *model.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(user.ID), 10),
		"adm": user.IsAdmin,
		"iat": now.Unix(),
		"exp": now.Add(time.Duration(s.cfg.Auth.TokenTTLHours) * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Auth.JWTSecret))
}

func (s *userService) CreateUser(req dto.UserCreateRequest) (*dto.UserDTO, error) {
	user, err := s.createUser(req.Username, req.Password, req.IsAdmin)
	if err != nil {
		return nil, err
	}
	return &dto.UserDTO{ID: user.ID, Username: user.Username, IsAdmin: user.IsAdmin}, nil
}

func (s *userService) UpdateUser(id uint, req dto.UserUpdateRequest) error {
	user, err := s.userRepo.ByID(id)
	if err != nil {
		return err
	}
	if req.Username != nil && *req.Username != user.Username {
		existing, err := s.userRepo.ByUsername(*req.Username)
		if err == nil && existing.ID != id {
			return fmt.Errorf("user %q: %w", *req.Username, errs.ErrDuplicateUsername)
		}
		if err != nil && !errors.Is(err, errs.ErrNotFound) {
			return err
		}
		user.Username = *req.Username
	}
	if req.IsAdmin != nil {
		user.IsAdmin = *req.IsAdmin
	}
	return s.userRepo.Update(user)
}

func (s *userService) ResetPassword(id uint, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	user, err := s.userRepo.ByID(id)
	if err != nil {
		return err
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return s.userRepo.Update(user)
}

// DeleteUser removes a user and their attempts. Deleting the sole remaining
// admin is rejected.
func (s *userService) DeleteUser(id uint) error {
	user, err := s.userRepo.ByID(id)
	if err != nil {
		return err
	}
	if user.IsAdmin {
		_, admins, err := s.userRepo.CountUsers()
		if err != nil {
			return err
		}
		if admins <= 1 {
			return fmt.Errorf("user %d: %w", id, errs.ErrLastAdminProtected)
		}
	}
	return s.userRepo.Delete(id)
}

func (s *userService) ListUsers() ([]dto.AdminUserDTO, error) {
	users, err := s.userRepo.List()
	if err != nil {
		log.Error().Err(err).Msg("ListUsers: repository failure")
		return nil, fmt.Errorf("error fetching users: %w", err)
	}
	dtos := make([]dto.AdminUserDTO, 0, len(users))
	for _, user := range users {
		dtos = append(dtos, dto.AdminUserDTO{
			ID:           user.ID,
			Username:     user.Username,
			IsAdmin:      user.IsAdmin,
			AttemptCount: len(user.Attempts),
		})
	}
	return dtos, nil
}

// BootstrapAdmin ensures the configured admin account exists at startup.
func (s *userService) BootstrapAdmin(username, password string) error {
	_, err := s.userRepo.ByUsername(username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return err
	}
	if _, err := s.createUser(username, password, true); err != nil {
		return err
	}
	log.Info().Str("username", username).Msg("Bootstrap admin user created")
	return nil
}
