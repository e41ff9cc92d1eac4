package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/mixroom/mixroom-backend/apperrors"
	"github.com/mixroom/mixroom-backend/models"
)

// RoleService quản lý role và việc gán role cho user.
type RoleService struct {
	db  *gorm.DB
	log *logrus.Logger
}

func NewRoleService(db *gorm.DB, log *logrus.Logger) *RoleService {
	return &RoleService{db: db, log: log}
}

// CreateRole tạo role mới, tên được lowercase + trim trước khi lưu.
func (s *RoleService) CreateRole(name, description string) (*models.Role, error) {
	name = normalizeRoleName(name)
	if name == "" {
		return nil, apperrors.Validation("role name is required")
	}

	var count int64
	if err := s.db.Model(&models.Role{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap("failed to check role", err)
	}
	if count > 0 {
		return nil, apperrors.Conflict("role already exists")
	}

	role := &models.Role{Name: name, Description: description, IsActive: true}
	if err := s.db.Create(role).Error; err != nil {
		return nil, apperrors.Wrap("failed to create role", err)
	}
	return role, nil
}

// GetByName trả về role đang active theo tên, nil nếu không có.
func (s *RoleService) GetByName(name string) (*models.Role, error) {
	var role models.Role
	err := s.db.Where("name = ? AND is_active = ?", normalizeRoleName(name), true).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap("failed to query role", err)
	}
	return &role, nil
}

// ListRoles trả về các role đang active, sắp theo tên.
func (s *RoleService) ListRoles() ([]models.Role, error) {
	var roles []models.Role
	if err := s.db.Where("is_active = ?", true).Order("name").Find(&roles).Error; err != nil {
		return nil, apperrors.Wrap("failed to list roles", err)
	}
	return roles, nil
}

// AssignRole gán role cho user, lỗi nếu user/role không tồn tại hoặc đã gán.
func (s *RoleService) AssignRole(userID uuid.UUID, roleName string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		user, role, err := s.resolveUserRole(tx, userID, roleName)
		if err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.UserRole{}).
			Where("user_id = ? AND role_id = ?", user.ID, role.ID).
			Count(&count).Error; err != nil {
			return apperrors.Wrap("failed to check role assignment", err)
		}
		if count > 0 {
			return apperrors.Validation("user already has role %q", role.Name)
		}

		if err := tx.Create(&models.UserRole{UserID: user.ID, RoleID: role.ID}).Error; err != nil {
			return apperrors.Wrap("failed to assign role", err)
		}
		return nil
	})
}

// RemoveRole gỡ role khỏi user, lỗi nếu user/role không tồn tại hoặc chưa gán.
func (s *RoleService) RemoveRole(userID uuid.UUID, roleName string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		user, role, err := s.resolveUserRole(tx, userID, roleName)
		if err != nil {
			return err
		}

		result := tx.Where("user_id = ? AND role_id = ?", user.ID, role.ID).
			Delete(&models.UserRole{})
		if result.Error != nil {
			return apperrors.Wrap("failed to remove role", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.Validation("user does not have role %q", role.Name)
		}
		return nil
	})
}

// UsersWithRole trả về các user đang active có role này.
func (s *RoleService) UsersWithRole(roleName string) ([]models.User, error) {
	role, err := s.GetByName(roleName)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return []models.User{}, nil
	}

	var users []models.User
	err = s.db.Joins("JOIN user_roles ur ON ur.user_id = users.id").
		Where("ur.role_id = ? AND users.is_active = ?", role.ID, true).
		Find(&users).Error
	if err != nil {
		return nil, apperrors.Wrap("failed to list users with role", err)
	}
	return users, nil
}

// SeedDefaultRoles tạo các role mặc định nếu chưa có.
func (s *RoleService) SeedDefaultRoles() error {
	defaults := []models.Role{
		{Name: "admin", Description: "System administrator with full access"},
		{Name: "teacher", Description: "Teacher with access to teaching features"},
		{Name: "student", Description: "Student with access to learning features"},
		{Name: "user", Description: "Basic user with minimal access"},
	}
	for _, r := range defaults {
		var count int64
		if err := s.db.Model(&models.Role{}).Where("name = ?", r.Name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		r.IsActive = true
		if err := s.db.Create(&r).Error; err != nil {
			s.log.WithError(err).WithField("role", r.Name).Warn("không tạo được role mặc định")
		}
	}
	return nil
}

func (s *RoleService) resolveUserRole(tx *gorm.DB, userID uuid.UUID, roleName string) (*models.User, *models.Role, error) {
	var user models.User
	if err := tx.Where("id = ? AND is_active = ?", userID, true).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.Validation("user not found")
		}
		return nil, nil, apperrors.Wrap("failed to query user", err)
	}

	role, err := findRoleByName(tx, roleName)
	if err != nil {
		return nil, nil, err
	}
	return &user, role, nil
}

// findRoleByName tìm role active theo tên; trả ValidationError nếu không có.
func findRoleByName(tx *gorm.DB, name string) (*models.Role, error) {
	var role models.Role
	err := tx.Where("name = ? AND is_active = ?", normalizeRoleName(name), true).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Validation("role %q not found", name)
	}
	if err != nil {
		return nil, apperrors.Wrap("failed to query role", err)
	}
	return &role, nil
}

func normalizeRoleName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
