package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/mixroom/mixroom-backend/apperrors"
	"github.com/mixroom/mixroom-backend/models"
	"github.com/mixroom/mixroom-backend/utils"
)

// UserService chứa nghiệp vụ tài khoản: đăng ký, xác thực, cập nhật, gán role.
type UserService struct {
	db  *gorm.DB
	log *logrus.Logger
}

func NewUserService(db *gorm.DB, log *logrus.Logger) *UserService {
	return &UserService{db: db, log: log}
}

type CreateUserInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string

	// Gán role mặc định theo tên, lỗi nếu role không tồn tại
	DefaultRole string

	// Payload giáo viên
	EmployeeID     string
	Department     string
	Specialization string

	// Payload học sinh
	StudentID  string
	GradeLevel string
}

// CreateUser tạo tài khoản mới theo loại (user/teacher/student).
// Toàn bộ ghi DB nằm trong một transaction.
func (s *UserService) CreateUser(input CreateUserInput, userType models.UserType) (*models.User, error) {
	if strings.TrimSpace(input.Email) == "" {
		return nil, apperrors.Validation("email is required")
	}
	if input.Password == "" {
		return nil, apperrors.Validation("password is required")
	}
	if len(input.Password) < 8 {
		return nil, apperrors.Validation("password must be at least 8 characters long")
	}
	if strings.TrimSpace(input.FirstName) == "" {
		return nil, apperrors.Validation("first name is required")
	}
	if strings.TrimSpace(input.LastName) == "" {
		return nil, apperrors.Validation("last name is required")
	}
	if userType == "" {
		userType = models.TypeBase
	}
	if !userType.Valid() {
		return nil, apperrors.Validation("invalid user type %q", userType)
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if exists, err := s.emailExists(email); err != nil {
		return nil, apperrors.Wrap("failed to check email", err)
	} else if exists {
		return nil, apperrors.Conflict("email already registered")
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, apperrors.Wrap("failed to hash password", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hashed,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		UserType:     userType,
	}

	now := time.Now()
	switch userType {
	case models.TypeTeacher:
		user.Teacher = &models.TeacherProfile{
			EmployeeID:     nilIfEmpty(input.EmployeeID),
			Department:     strings.TrimSpace(input.Department),
			Specialization: strings.TrimSpace(input.Specialization),
			HireDate:       &now,
		}
	case models.TypeStudent:
		user.Student = &models.StudentProfile{
			StudentID:      nilIfEmpty(input.StudentID),
			GradeLevel:     strings.TrimSpace(input.GradeLevel),
			EnrollmentDate: &now,
			IsEnrolled:     true,
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if input.DefaultRole != "" {
			role, err := findRoleByName(tx, input.DefaultRole)
			if err != nil {
				return err
			}
			user.Roles = []models.Role{*role}
		}
		return tx.Create(user).Error
	})
	if err != nil {
		return nil, apperrors.Wrap("failed to create user", err)
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "user_type": userType}).Info("user created")
	return user, nil
}

// Authenticate trả về user đang active khớp email + mật khẩu, nil nếu sai
// thông tin đăng nhập (không bao giờ trả lỗi cho sai mật khẩu).
// Khi thành công, cập nhật last_login và ghi một dòng logbook trong cùng
// transaction.
func (s *UserService) Authenticate(email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, nil
	}

	var user models.User
	err := s.db.Preload("Roles").Preload("Teacher").Preload("Student").
		Where("email = ? AND is_active = ?", strings.ToLower(strings.TrimSpace(email)), true).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap("failed to query user", err)
	}

	if !utils.CheckPassword(password, user.PasswordHash) {
		return nil, nil
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).
			Update("last_login", now).Error; err != nil {
			return err
		}
		entry := &models.Logbook{
			Entry:  fmt.Sprintf("%s logged in", user.Email),
			Type:   models.LogTypeLogin,
			UserID: &user.ID,
		}
		return tx.Create(entry).Error
	})
	if err != nil {
		return nil, apperrors.Wrap("failed to record login", err)
	}

	user.LastLogin = &now
	return &user, nil
}

// GetByID trả về user đang active, nil nếu không có.
func (s *UserService) GetByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.Preload("Roles").Preload("Teacher").Preload("Student").
		Where("id = ? AND is_active = ?", id, true).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap("failed to query user", err)
	}
	return &user, nil
}

func (s *UserService) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.db.Preload("Roles").Preload("Teacher").Preload("Student").
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap("failed to query user", err)
	}
	return &user, nil
}

type UpdateUserInput struct {
	FirstName  *string
	LastName   *string
	Password   *string
	IsActive   *bool
	IsVerified *bool
}

// UpdateUser cập nhật các field được gửi lên, field nil giữ nguyên.
func (s *UserService) UpdateUser(id uuid.UUID, input UpdateUserInput) (*models.User, error) {
	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("user not found")
	}

	if input.FirstName != nil {
		if strings.TrimSpace(*input.FirstName) == "" {
			return nil, apperrors.Validation("first name is required")
		}
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		if strings.TrimSpace(*input.LastName) == "" {
			return nil, apperrors.Validation("last name is required")
		}
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Password != nil && *input.Password != "" {
		if len(*input.Password) < 8 {
			return nil, apperrors.Validation("password must be at least 8 characters long")
		}
		hashed, err := utils.HashPassword(*input.Password)
		if err != nil {
			return nil, apperrors.Wrap("failed to hash password", err)
		}
		user.PasswordHash = hashed
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.IsVerified != nil {
		user.IsVerified = *input.IsVerified
	}

	if err := s.db.Save(user).Error; err != nil {
		return nil, apperrors.Wrap("failed to update user", err)
	}
	return user, nil
}

// Deactivate khoá tài khoản.
func (s *UserService) Deactivate(id uuid.UUID) error {
	result := s.db.Model(&models.User{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		return apperrors.Wrap("failed to deactivate user", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("user not found")
	}
	return nil
}

// Activate mở khoá tài khoản.
func (s *UserService) Activate(id uuid.UUID) error {
	result := s.db.Model(&models.User{}).Where("id = ?", id).Update("is_active", true)
	if result.Error != nil {
		return apperrors.Wrap("failed to activate user", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("user not found")
	}
	return nil
}

// ListByType trả về các user đang active theo loại tài khoản.
func (s *UserService) ListByType(userType models.UserType) ([]models.User, error) {
	var users []models.User
	err := s.db.Preload("Teacher").Preload("Student").
		Where("user_type = ? AND is_active = ?", userType, true).
		Order("created_at DESC").
		Find(&users).Error
	if err != nil {
		return nil, apperrors.Wrap("failed to list users", err)
	}
	return users, nil
}

func (s *UserService) emailExists(email string) (bool, error) {
	var count int64
	err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func nilIfEmpty(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
