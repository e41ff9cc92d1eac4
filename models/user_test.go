package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserTypeValid(t *testing.T) {
	assert.True(t, TypeBase.Valid())
	assert.True(t, TypeTeacher.Valid())
	assert.True(t, TypeStudent.Valid())
	assert.False(t, UserType("admin").Valid())
	assert.False(t, UserType("").Valid())
}

func TestUserToDictNeverLeaksPassword(t *testing.T) {
	u := User{
		Email:        "a@b.com",
		PasswordHash: "$2a$10$secret",
		FirstName:    "An",
		LastName:     "Binh",
		UserType:     TypeBase,
	}

	dict := u.ToDict()
	assert.Equal(t, "An Binh", dict["full_name"])
	for key := range dict {
		assert.NotContains(t, key, "password")
	}
	_, hasHash := dict["password_hash"]
	assert.False(t, hasHash)
}

func TestUserToDictByType(t *testing.T) {
	dept := "Music"
	empID := "EMP-1"
	teacher := User{
		UserType: TypeTeacher,
		Teacher:  &TeacherProfile{EmployeeID: &empID, Department: dept},
	}
	dict := teacher.ToDict()
	assert.Equal(t, dept, dict["department"])
	_, hasGrade := dict["grade_level"]
	assert.False(t, hasGrade)

	student := User{
		UserType: TypeStudent,
		Student:  &StudentProfile{GradeLevel: "10", IsEnrolled: true},
	}
	dict = student.ToDict()
	assert.Equal(t, "10", dict["grade_level"])
	assert.Equal(t, true, dict["is_enrolled"])
	_, hasDept := dict["department"]
	assert.False(t, hasDept)
}

func TestHasRole(t *testing.T) {
	u := User{Roles: []Role{{Name: "teacher"}, {Name: "admin"}}}
	assert.True(t, u.HasRole("admin"))
	assert.False(t, u.HasRole("student"))
	assert.Equal(t, []string{"teacher", "admin"}, u.RoleNames())
}
