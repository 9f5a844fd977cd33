package service

import (
	"errors"
	"strings"

	"emergency-center-scheduler/internal/models"
	"emergency-center-scheduler/internal/repository"
	"emergency-center-scheduler/pkg/utils"

	"go.uber.org/zap"
)

type AuthService struct {
	userRepo *repository.UserRepository
	audit    auditor
	calendar *Calendar
	log      *zap.Logger
}

func NewAuthService(userRepo *repository.UserRepository, auditRepo *repository.AuditRepository, calendar *Calendar, log *zap.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		audit:    newAuditor(auditRepo, log),
		calendar: calendar,
		log:      log,
	}
}

// RegisterInput is a self-registration request
type RegisterInput struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	PasswordConfirm string
}

// LoginResponse represents the response structure for login
type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"-"`
	User         *models.User `json:"user"`
}

// NormalizeEmail is the canonical form emails are stored and looked up in
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a pending medic account. It does not log the user in:
// an admin must approve the account first.
func (s *AuthService) Register(in RegisterInput) (*models.User, error) {
	firstName := strings.TrimSpace(in.FirstName)
	lastName := strings.TrimSpace(in.LastName)
	email := NormalizeEmail(in.Email)
	if firstName == "" || lastName == "" || email == "" || in.Password == "" {
		return nil, Validation("first_name, last_name, email and password are required")
	}
	if in.Password != in.PasswordConfirm {
		return nil, Validation("passwords do not match")
	}
	if len(in.Password) < utils.MinPasswordLength {
		return nil, Validation("password must be at least 6 characters")
	}

	passwordHash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, Internal("failed to hash password", err)
	}

	user := &models.User{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: passwordHash,
		GlobalRole:   models.RoleMedic,
		Status:       models.StatusPending,
	}
	if err := s.userRepo.CreateUser(user); err != nil {
		if repository.IsConflict(err, repository.ConstraintUserEmail) {
			return nil, Conflict("email already registered")
		}
		return nil, Internal("failed to create user", err)
	}

	s.audit.record(user.ID, ActionUserRegister, "User %s registered", email)
	return user, nil
}

// Login authenticates a user and returns tokens. Only approved accounts may
// log in.
func (s *AuthService) Login(email, password string) (*LoginResponse, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, Validation("email and password are required")
	}

	user, err := s.userRepo.FindUserByEmail(email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, Unauthorized("invalid email or password")
	}
	if err != nil {
		return nil, Internal("failed to load user", err)
	}
	if !utils.ComparePassword(user.PasswordHash, password) {
		return nil, Unauthorized("invalid email or password")
	}
	if !user.IsApproved() {
		return nil, Forbidden("account has not been approved")
	}

	accessToken, err := utils.GenerateAccessToken(user.ID, user.GlobalRole)
	if err != nil {
		return nil, Internal("failed to generate access token", err)
	}
	refreshToken, err := s.issueRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	s.audit.record(user.ID, ActionUserLogin, "User %s logged in", email)

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// RefreshAccessToken generates a new access token from a refresh token
func (s *AuthService) RefreshAccessToken(refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", Unauthorized("refresh token not found")
	}

	token, err := s.userRepo.FindRefreshTokenByHash(utils.HashRefreshToken(refreshToken))
	if errors.Is(err, repository.ErrNotFound) {
		return "", Unauthorized("invalid or revoked refresh token")
	}
	if err != nil {
		return "", Internal("failed to load refresh token", err)
	}
	if s.calendar.Now().After(token.ExpiresAt) {
		return "", Unauthorized("refresh token expired")
	}
	if !token.User.IsApproved() {
		return "", Forbidden("account has not been approved")
	}

	accessToken, err := utils.GenerateAccessToken(token.User.ID, token.User.GlobalRole)
	if err != nil {
		return "", Internal("failed to generate access token", err)
	}
	return accessToken, nil
}

// Logout revokes a refresh token
func (s *AuthService) Logout(refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.userRepo.RevokeRefreshTokenByHash(utils.HashRefreshToken(refreshToken)); err != nil {
		return Internal("failed to revoke refresh token", err)
	}
	return nil
}

// EnsureAdmin creates an approved admin with the given credentials unless
// the email is already registered. It reports whether a user was created.
func (s *AuthService) EnsureAdmin(email, password, firstName, lastName string) (bool, error) {
	email = NormalizeEmail(email)
	if email == "" || len(password) < utils.MinPasswordLength {
		return false, Validation("admin email and a password of at least 6 characters are required")
	}

	_, err := s.userRepo.FindUserByEmail(email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, Internal("failed to look up admin", err)
	}

	passwordHash, err := utils.HashPassword(password)
	if err != nil {
		return false, Internal("failed to hash password", err)
	}
	user := &models.User{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: passwordHash,
		GlobalRole:   models.RoleAdmin,
		Status:       models.StatusApproved,
	}
	if err := s.userRepo.CreateUser(user); err != nil {
		if repository.IsConflict(err, repository.ConstraintUserEmail) {
			return false, nil
		}
		return false, Internal("failed to create admin", err)
	}

	s.log.Info("bootstrap admin created", zap.String("email", email), zap.Uint("user_id", user.ID))
	return true, nil
}

func (s *AuthService) issueRefreshToken(userID uint) (string, error) {
	refreshToken, err := utils.GenerateRefreshToken()
	if err != nil {
		return "", Internal("failed to generate refresh token", err)
	}

	token := &models.RefreshToken{
		UserID:    userID,
		TokenHash: utils.HashRefreshToken(refreshToken),
		ExpiresAt: s.calendar.Now().Add(utils.GetRefreshTokenExpiry()),
	}
	if err := s.userRepo.CreateRefreshToken(token); err != nil {
		return "", Internal("failed to store refresh token", err)
	}
	return refreshToken, nil
}
