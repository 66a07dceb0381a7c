package service

import (
	"errors"
	"time"

	"health-connect-demo/backend/internal/models"
	apperrors "health-connect-demo/backend/pkg/errors"
	"health-connect-demo/backend/pkg/jwt"

	"gorm.io/gorm"
)

var (
	ErrUserAlreadyExists  = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

// UserService handles profile and authentication operations
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a new user service
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// errNoDatabase is shared by every operation that needs the store
func (s *UserService) errNoDatabase() error {
	if s.db == nil {
		return apperrors.NewConfigurationError("Accounts are unavailable: database is not configured")
	}
	return nil
}

// Signup creates a new profile and returns it with a signed token
func (s *UserService) Signup(req *models.SignupRequest) (*models.User, string, error) {
	if err := s.errNoDatabase(); err != nil {
		return nil, "", err
	}

	var existingUser models.User
	result := s.db.Where("email = ?", req.Email).First(&existingUser)
	if result.RowsAffected > 0 {
		return nil, "", ErrUserAlreadyExists
	}

	user := models.User{
		Email:          req.Email,
		Password:       req.Password,
		FullName:       req.FullName,
		UserType:       req.UserType,
		Specialization: req.Specialization,
		Phone:          req.Phone,
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, "", err
	}

	token, err := jwt.GenerateToken(user.ID, user.Email, user.UserType)
	if err != nil {
		return nil, "", err
	}

	return &user, token, nil
}

// Login authenticates a user and returns a JWT token
func (s *UserService) Login(req *models.LoginRequest) (*models.User, string, error) {
	if err := s.errNoDatabase(); err != nil {
		return nil, "", err
	}

	var user models.User
	result := s.db.Where("email = ?", req.Email).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", result.Error
	}

	if !models.CheckPasswordHash(req.Password, user.Password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := jwt.GenerateToken(user.ID, user.Email, user.UserType)
	if err != nil {
		return nil, "", err
	}

	s.db.Model(&user).Update("last_login", time.Now())

	return &user, token, nil
}

// GetByID fetches a profile by id
func (s *UserService) GetByID(id uint) (*models.User, error) {
	if err := s.errNoDatabase(); err != nil {
		return nil, err
	}

	var user models.User
	result := s.db.First(&user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

// UpdateProfile updates the mutable profile fields
func (s *UserService) UpdateProfile(id uint, updates map[string]interface{}) (*models.User, error) {
	allowed := map[string]bool{
		"full_name":       true,
		"specialization":  true,
		"phone":           true,
		"medical_history": true,
	}
	filtered := make(map[string]interface{})
	for k, v := range updates {
		if allowed[k] {
			filtered[k] = v
		}
	}

	if len(filtered) > 0 {
		if err := s.db.Model(&models.User{}).Where("id = ?", id).Updates(filtered).Error; err != nil {
			return nil, err
		}
	}

	return s.GetByID(id)
}

// ListDoctors returns all doctor profiles
func (s *UserService) ListDoctors() ([]models.User, error) {
	if err := s.errNoDatabase(); err != nil {
		return nil, err
	}

	var doctors []models.User
	if err := s.db.Where("user_type = ?", models.UserTypeDoctor).Find(&doctors).Error; err != nil {
		return nil, err
	}
	return doctors, nil
}
