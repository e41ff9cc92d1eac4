package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mixroom/mixroom-backend/models"
	"github.com/mixroom/mixroom-backend/services"
)

type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

// ListTeachers trả về danh sách giáo viên đang hoạt động.
func (ctl *UserController) ListTeachers(c *gin.Context) {
	users, err := ctl.users.ListByType(models.TypeTeacher)
	if err != nil {
		abortWithError(c, err)
		return
	}

	result := make([]gin.H, 0, len(users))
	for i := range users {
		result = append(result, users[i].ToDict())
	}
	c.JSON(http.StatusOK, gin.H{"teachers": result, "count": len(result)})
}

// ListStudents trả về danh sách học sinh đang hoạt động.
func (ctl *UserController) ListStudents(c *gin.Context) {
	users, err := ctl.users.ListByType(models.TypeStudent)
	if err != nil {
		abortWithError(c, err)
		return
	}

	result := make([]gin.H, 0, len(users))
	for i := range users {
		result = append(result, users[i].ToDict())
	}
	c.JSON(http.StatusOK, gin.H{"students": result, "count": len(result)})
}

// GetUser lấy thông tin một user theo id.
func (ctl *UserController) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := ctl.users.GetByID(id)
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

type UpdateUserJSON struct {
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	IsVerified *bool   `json:"is_verified"`
}

// UpdateMe cập nhật hồ sơ của chính user đang đăng nhập.
func (ctl *UserController) UpdateMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input UpdateUserJSON
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := ctl.users.UpdateUser(userID, services.UpdateUserInput{
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		IsVerified: input.IsVerified,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "profile updated successfully",
		"user":    user.ToDict(),
	})
}

// Deactivate vô hiệu hóa tài khoản (admin).
func (ctl *UserController) Deactivate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctl.users.Deactivate(id); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deactivated"})
}

// Activate kích hoạt lại tài khoản (admin).
func (ctl *UserController) Activate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctl.users.Activate(id); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user activated"})
}
