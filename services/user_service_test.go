package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mixroom/mixroom-backend/apperrors"
	"github.com/mixroom/mixroom-backend/models"
)

func TestCreateUserValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, newTestLogger())

	cases := []struct {
		name  string
		input CreateUserInput
		utype models.UserType
		want  string
	}{
		{
			name:  "missing email",
			input: CreateUserInput{Password: "longenough", FirstName: "A", LastName: "B"},
			utype: models.TypeBase,
			want:  "email is required",
		},
		{
			name:  "short password",
			input: CreateUserInput{Email: "a@b.com", Password: "short", FirstName: "A", LastName: "B"},
			utype: models.TypeBase,
			want:  "password must be at least 8 characters long",
		},
		{
			name:  "missing first name",
			input: CreateUserInput{Email: "a@b.com", Password: "longenough", LastName: "B"},
			utype: models.TypeBase,
			want:  "first name is required",
		},
		{
			name:  "invalid type",
			input: CreateUserInput{Email: "a@b.com", Password: "longenough", FirstName: "A", LastName: "B"},
			utype: models.UserType("robot"),
			want:  `invalid user type "robot"`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateUser(tc.input, tc.utype)
			require.Error(t, err)
			assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
			assert.EqualError(t, err, tc.want)
		})
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, newTestLogger())

	_, err := svc.CreateUser(CreateUserInput{
		Email: "dup@example.com", Password: "longenough", FirstName: "A", LastName: "B",
	}, models.TypeBase)
	require.NoError(t, err)

	// Email so khớp không phân biệt hoa thường
	_, err = svc.CreateUser(CreateUserInput{
		Email: "DUP@Example.Com", Password: "longenough", FirstName: "C", LastName: "D",
	}, models.TypeBase)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestCreateTeacherWithProfile(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, newTestLogger())

	user, err := svc.CreateUser(CreateUserInput{
		Email:          "teacher@example.com",
		Password:       "longenough",
		FirstName:      "Giao",
		LastName:       "Vien",
		EmployeeID:     "EMP-1",
		Department:     "Music",
		Specialization: "Piano",
	}, models.TypeTeacher)
	require.NoError(t, err)
	require.NotNil(t, user.Teacher)
	assert.Equal(t, models.TypeTeacher, user.UserType)
	assert.Equal(t, "Music", user.Teacher.Department)

	var profile models.TeacherProfile
	require.NoError(t, db.First(&profile, "user_id = ?", user.ID).Error)
	require.NotNil(t, profile.EmployeeID)
	assert.Equal(t, "EMP-1", *profile.EmployeeID)
}

func TestCreateStudentWithProfile(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, newTestLogger())

	user, err := svc.CreateUser(CreateUserInput{
		Email:      "student@example.com",
		Password:   "longenough",
		FirstName:  "Hoc",
		LastName:   "Sinh",
		StudentID:  "SV-9",
		GradeLevel: "10",
	}, models.TypeStudent)
	require.NoError(t, err)
	require.NotNil(t, user.Student)
	assert.True(t, user.Student.IsEnrolled)
	assert.NotNil(t, user.Student.EnrollmentDate)
}

func TestCreateUserDefaultRole(t *testing.T) {
	db := newTestDB(t)
	roles := NewRoleService(db, newTestLogger())
	require.NoError(t, roles.SeedDefaultRoles())

	svc := NewUserService(db, newTestLogger())
	user, err := svc.CreateUser(CreateUserInput{
		Email: "roled@example.com", Password: "longenough", FirstName: "A", LastName: "B",
		DefaultRole: "student",
	}, models.TypeStudent)
	require.NoError(t, err)
	assert.True(t, user.HasRole("student"))
}

func TestCreateUserRoleNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, newTestLogger())

	_, err := svc.CreateUser(CreateUserInput{
		Email: "x@example.com", Password: "longenough", FirstName: "A", LastName: "B",
		DefaultRole: "ghost",
	}, models.TypeBase)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	// Transaction rollback: user không được tạo
	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestAuthenticate(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, newTestLogger())

	created, err := svc.CreateUser(CreateUserInput{
		Email: "login@example.com", Password: "longenough", FirstName: "A", LastName: "B",
	}, models.TypeBase)
	require.NoError(t, err)
	require.Nil(t, created.LastLogin)

	t.Run("wrong password", func(t *testing.T) {
		user, err := svc.Authenticate("login@example.com", "wrongwrong")
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("unknown email", func(t *testing.T) {
		user, err := svc.Authenticate("nobody@example.com", "longenough")
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("success updates last_login and logbook", func(t *testing.T) {
		user, err := svc.Authenticate("Login@Example.com", "longenough")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.NotNil(t, user.LastLogin)

		var entry models.Logbook
		require.NoError(t, db.First(&entry, "user_id = ?", user.ID).Error)
		assert.Equal(t, models.LogTypeLogin, entry.Type)
	})

	t.Run("deactivated account", func(t *testing.T) {
		require.NoError(t, svc.Deactivate(created.ID))
		user, err := svc.Authenticate("login@example.com", "longenough")
		require.NoError(t, err)
		assert.Nil(t, user)
	})
}

func TestUpdateUserPartial(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, newTestLogger())
	user := createTestUser(t, db, "update@example.com")

	newName := "Renamed"
	updated, err := svc.UpdateUser(user.ID, UpdateUserInput{FirstName: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.FirstName)
	assert.Equal(t, user.LastName, updated.LastName)

	empty := "   "
	_, err = svc.UpdateUser(user.ID, UpdateUserInput{FirstName: &empty})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestGetByIDSkipsInactive(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, newTestLogger())
	user := createTestUser(t, db, "inactive@example.com")

	require.NoError(t, svc.Deactivate(user.ID))
	got, err := svc.GetByID(user.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, svc.Activate(user.ID))
	got, err = svc.GetByID(user.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
}
