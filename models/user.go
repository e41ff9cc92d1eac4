package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserType string

const (
	TypeBase    UserType = "user"    // Tài khoản thường
	TypeTeacher UserType = "teacher" // Giáo viên
	TypeStudent UserType = "student" // Học sinh
)

func (t UserType) Valid() bool {
	switch t {
	case TypeBase, TypeTeacher, TypeStudent:
		return true
	}
	return false
}

type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string     `gorm:"size:120;uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"type:text;not null" json:"-"`
	FirstName    string     `gorm:"size:50;not null" json:"first_name"`
	LastName     string     `gorm:"size:50;not null" json:"last_name"`
	IsActive     bool       `gorm:"default:true;not null" json:"is_active"`
	IsVerified   bool       `gorm:"default:false;not null" json:"is_verified"`
	LastLogin    *time.Time `json:"last_login"`
	UserType     UserType   `gorm:"type:varchar(20);not null;default:'user'" json:"user_type"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Payload theo từng loại tài khoản, tối đa một cái khác nil
	Teacher *TeacherProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"teacher,omitempty"`
	Student *StudentProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"student,omitempty"`

	Roles []Role `gorm:"many2many:user_roles;" json:"roles,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

// ToDict trả về map chỉ chứa field công khai (không bao giờ có password),
// các field phụ phụ thuộc vào UserType.
func (u *User) ToDict() map[string]interface{} {
	out := map[string]interface{}{
		"id":          u.ID,
		"email":       u.Email,
		"first_name":  u.FirstName,
		"last_name":   u.LastName,
		"full_name":   u.FullName(),
		"user_type":   u.UserType,
		"is_active":   u.IsActive,
		"is_verified": u.IsVerified,
		"last_login":  u.LastLogin,
		"created_at":  u.CreatedAt,
		"role_names":  u.RoleNames(),
	}

	switch u.UserType {
	case TypeTeacher:
		if u.Teacher != nil {
			out["employee_id"] = u.Teacher.EmployeeID
			out["department"] = u.Teacher.Department
			out["specialization"] = u.Teacher.Specialization
			out["hire_date"] = u.Teacher.HireDate
		}
	case TypeStudent:
		if u.Student != nil {
			out["student_id"] = u.Student.StudentID
			out["grade_level"] = u.Student.GradeLevel
			out["enrollment_date"] = u.Student.EnrollmentDate
			out["is_enrolled"] = u.Student.IsEnrolled
		}
	}

	return out
}

// TeacherProfile chứa thông tin riêng của giáo viên.
type TeacherProfile struct {
	UserID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"user_id"`
	EmployeeID     *string    `gorm:"size:20;uniqueIndex" json:"employee_id"`
	Department     string     `gorm:"size:100" json:"department"`
	Specialization string     `gorm:"size:100" json:"specialization"`
	HireDate       *time.Time `json:"hire_date"`
}

// StudentProfile chứa thông tin riêng của học sinh.
type StudentProfile struct {
	UserID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"user_id"`
	StudentID      *string    `gorm:"size:20;uniqueIndex" json:"student_id"`
	GradeLevel     string     `gorm:"size:20" json:"grade_level"`
	EnrollmentDate *time.Time `json:"enrollment_date"`
	IsEnrolled     bool       `gorm:"default:true;not null" json:"is_enrolled"`
}
