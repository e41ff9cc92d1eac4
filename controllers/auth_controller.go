package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mixroom/mixroom-backend/models"
	"github.com/mixroom/mixroom-backend/services"
	"github.com/mixroom/mixroom-backend/utils"
)

type AuthController struct {
	users *services.UserService
	jwt   *utils.JWTManager
}

func NewAuthController(users *services.UserService, jwt *utils.JWTManager) *AuthController {
	return &AuthController{users: users, jwt: jwt}
}

// ====== INPUT STRUCTS ======
type RegisterInput struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	UserType  string `json:"user_type"`

	DefaultRole string `json:"default_role"`

	EmployeeID     string `json:"employee_id"`
	Department     string `json:"department"`
	Specialization string `json:"specialization"`

	StudentID  string `json:"student_id"`
	GradeLevel string `json:"grade_level"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register tạo tài khoản mới (user/teacher/student).
func (ctl *AuthController) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userType := models.UserType(input.UserType)
	if input.UserType == "" {
		userType = models.TypeBase
	}

	user, err := ctl.users.CreateUser(services.CreateUserInput{
		Email:          input.Email,
		Password:       input.Password,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		DefaultRole:    input.DefaultRole,
		EmployeeID:     input.EmployeeID,
		Department:     input.Department,
		Specialization: input.Specialization,
		StudentID:      input.StudentID,
		GradeLevel:     input.GradeLevel,
	}, userType)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "registered successfully",
		"user":    user.ToDict(),
	})
}

// Login xác thực email + mật khẩu và trả về JWT.
func (ctl *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := ctl.users.Authenticate(input.Email, input.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	token, err := ctl.jwt.GenerateToken(user.ID.String(), string(user.UserType))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "logged in successfully",
		"token":   token,
		"user":    user.ToDict(),
	})
}

// Me trả về hồ sơ của user đang đăng nhập.
func (ctl *AuthController) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := ctl.users.GetByID(userID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user.ToDict()})
}

type ChangePasswordInput struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// ChangePassword đổi mật khẩu sau khi kiểm tra mật khẩu cũ.
func (ctl *AuthController) ChangePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input ChangePasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := ctl.users.GetByID(userID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	// Kiểm tra mật khẩu cũ
	if !utils.CheckPassword(input.OldPassword, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "old password is incorrect"})
		return
	}

	if _, err := ctl.users.UpdateUser(userID, services.UpdateUserInput{Password: &input.NewPassword}); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password changed successfully"})
}
