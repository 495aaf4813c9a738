package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/Irenepaul17/new-log-sub000/internal/auth"
	"github.com/Irenepaul17/new-log-sub000/internal/errs"
	"github.com/Irenepaul17/new-log-sub000/internal/models"
	"github.com/Irenepaul17/new-log-sub000/internal/repository"
)

const minPasswordLen = 6

type AuthService struct {
	users     *repository.UserRepo
	hierarchy *UserService
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(users *repository.UserRepo, hierarchy *UserService, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{users: users, hierarchy: hierarchy, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

type AuthResult struct {
	Token string              `json:"token"`
	User  models.UserResponse `json:"user"`
}

type RegisterRequest struct {
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Password     string      `json:"password"`
	Phone        string      `json:"phone"`
	Role         models.Role `json:"role"`
	Designation  string      `json:"designation"`
	Station      string      `json:"station"`
	Section      string      `json:"section"`
	SupervisorID *uint       `json:"supervisorId"`
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if email == "" || req.Password == "" || name == "" {
		return nil, errs.Invalid("email, password, and name are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, errs.Invalid("email is not valid")
	}
	if len(req.Password) < minPasswordLen {
		return nil, errs.Invalidf("password must be at least %d characters", minPasswordLen)
	}
	if req.Role == "" {
		req.Role = models.RoleTechnician
	}
	if !req.Role.Valid() || req.Role == models.RoleAdmin {
		return nil, errs.Invalidf("cannot register with role %q", req.Role)
	}
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errs.Conflict("email already registered")
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Name:         name,
		Email:        email,
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: hash,
		Role:         req.Role,
		Designation:  strings.TrimSpace(req.Designation),
		Station:      strings.TrimSpace(req.Station),
		Section:      strings.TrimSpace(req.Section),
		Active:       true,
	}
	if req.SupervisorID != nil && *req.SupervisorID != 0 {
		user.SupervisorID = req.SupervisorID
		if err := s.hierarchy.checkSupervisor(ctx, user); err != nil {
			return nil, err
		}
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, errs.ErrNotFound) {
		return nil, errs.Unauthorized("invalid credentials")
	}
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, errs.Unauthorized("invalid credentials")
	}
	if !user.Active {
		return nil, errs.Forbidden("account is disabled")
	}
	return s.issue(user)
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, err := auth.GenerateToken(s.jwtSecret, s.tokenTTL, user)
	if err != nil {
		return nil, errs.Wrap(err, "sign token")
	}
	return &AuthResult{Token: token, User: user.ToResponse()}, nil
}

func (s *AuthService) Me(ctx context.Context, userID uint) (*models.UserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := user.ToResponse()
	return &resp, nil
}

// SeedAdmin creates the admin account unless the email is taken. It reports
// whether a user was created.
func (s *AuthService) SeedAdmin(ctx context.Context, email, password string) (bool, error) {
	email = normalizeEmail(email)
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil || exists {
		return false, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, err
	}
	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         "Admin",
		Role:         models.RoleAdmin,
		Designation:  "System administrator",
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return false, err
	}
	return true, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
