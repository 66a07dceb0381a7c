package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Profile types
const (
	UserTypePatient = "patient"
	UserTypeDoctor  = "doctor"
)

// User represents a registered profile in the system
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Email          string    `gorm:"uniqueIndex" json:"email"`
	Password       string    `json:"-"`
	FullName       string    `json:"full_name"`
	UserType       string    `json:"user_type" gorm:"default:patient"` // patient or doctor
	Specialization string    `json:"specialization,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	MedicalHistory string    `json:"medical_history,omitempty" gorm:"type:text"`
	LastLogin      time.Time `json:"last_login,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// SignupRequest is the request structure for creating a new profile
type SignupRequest struct {
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=8"`
	FullName       string `json:"full_name" binding:"required"`
	UserType       string `json:"user_type,omitempty"`
	Specialization string `json:"specialization,omitempty"`
	Phone          string `json:"phone,omitempty"`
}

// LoginRequest is the request structure for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserResponse is the response structure for profile data (without sensitive info)
type UserResponse struct {
	ID             uint      `json:"id"`
	Email          string    `json:"email"`
	FullName       string    `json:"full_name"`
	UserType       string    `json:"user_type"`
	Specialization string    `json:"specialization,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	MedicalHistory string    `json:"medical_history,omitempty"`
	LastLogin      time.Time `json:"last_login,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// HashPassword hashes a password for storage
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash compares a password with a hash
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// BeforeCreate is a GORM hook to hash the password before saving
func (u *User) BeforeCreate(tx *gorm.DB) error {
	hashedPassword, err := HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashedPassword

	if u.UserType == "" {
		u.UserType = UserTypePatient
	}

	return nil
}

// IsDoctor reports whether the profile belongs to a doctor
func (u *User) IsDoctor() bool {
	return u.UserType == UserTypeDoctor
}

// ToResponse converts a User model to a UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:             u.ID,
		Email:          u.Email,
		FullName:       u.FullName,
		UserType:       u.UserType,
		Specialization: u.Specialization,
		Phone:          u.Phone,
		MedicalHistory: u.MedicalHistory,
		LastLogin:      u.LastLogin,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}
