package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	db        *gorm.DB
	jwtSecret []byte
	expiry    time.Duration
}

func NewAuthService(db *gorm.DB, jwtSecret string, accessExpiry time.Duration) *AuthService {
	return &AuthService{
		db:        db,
		jwtSecret: []byte(jwtSecret),
		expiry:    accessExpiry,
	}
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	var staff models.Staff
	if err := s.db.WithContext(ctx).Where("username = ?", req.Username).First(&staff).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.Password), []byte(req.Password)); err != nil {
		slog.WarnContext(ctx, "staff login failed", "username", req.Username)
		return nil, ErrInvalidCredentials
	}

	token, err := s.generateAccessToken(&staff)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "staff logged in", "staff_id", staff.ID.String(), "role", staff.Role)
	return &dto.AuthResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.expiry.Seconds()),
		Staff:       StaffView(&staff),
	}, nil
}

// CreateStaff registers a back-office account. Role defaults to staff.
func (s *AuthService) CreateStaff(ctx context.Context, req *dto.CreateStaffRequest) (*models.Staff, error) {
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	role := req.Role
	if role == "" {
		role = models.RoleStaff
	}

	var staff *models.Staff
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		staff, err = createStaff(tx, req.Username, req.Email, req.Password, role)
		return err
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "staff account created", "staff_id", staff.ID.String(), "role", role)
	return staff, nil
}

// EnsureAdmin creates the bootstrap administrator when no account with that
// username exists yet. It does nothing when password is empty.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, email, password string) error {
	if password == "" {
		return nil
	}
	username = strings.ToLower(strings.TrimSpace(username))

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Staff{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to look up admin: %w", err)
	}
	if count > 0 {
		return nil
	}

	staff, err := createStaff(s.db.WithContext(ctx), username, strings.ToLower(email), password, models.RoleAdmin)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "bootstrap admin created", "staff_id", staff.ID.String(), "username", username)
	return nil
}

func createStaff(tx *gorm.DB, username, email, password, role string) (*models.Staff, error) {
	for _, u := range [][2]string{{"username", username}, {"email", email}} {
		var count int64
		if err := tx.Model(&models.Staff{}).Where(u[0]+" = ?", u[1]).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, duplicate(u[0])
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	staff := &models.Staff{
		Username: username,
		Email:    email,
		Password: string(hash),
		Role:     role,
	}
	if err := tx.Create(staff).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, duplicate("username")
		}
		return nil, fmt.Errorf("failed to create staff: %w", err)
	}
	return staff, nil
}

func (s *AuthService) generateAccessToken(staff *models.Staff) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      staff.ID.String(),
		"username": staff.Username,
		"role":     staff.Role,
		"iat":      now.Unix(),
		"exp":      now.Add(s.expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
