package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mixroom/mixroom-backend/services"
)

type RoleController struct {
	roles *services.RoleService
}

func NewRoleController(roles *services.RoleService) *RoleController {
	return &RoleController{roles: roles}
}

type CreateRoleInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CreateRole tạo role mới (admin).
func (ctl *RoleController) CreateRole(c *gin.Context) {
	var input CreateRoleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role, err := ctl.roles.CreateRole(input.Name, input.Description)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "role created", "role": role})
}

// ListRoles liệt kê toàn bộ role.
func (ctl *RoleController) ListRoles(c *gin.Context) {
	roles, err := ctl.roles.ListRoles()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"roles": roles, "count": len(roles)})
}

type RoleAssignmentInput struct {
	Role string `json:"role" binding:"required"`
}

// AssignRole gán role cho user (admin).
func (ctl *RoleController) AssignRole(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input RoleAssignmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ctl.roles.AssignRole(userID, input.Role); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "role assigned"})
}

// RemoveRole gỡ role khỏi user (admin).
func (ctl *RoleController) RemoveRole(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input RoleAssignmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ctl.roles.RemoveRole(userID, input.Role); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "role removed"})
}

// UsersWithRole liệt kê user theo role (admin).
func (ctl *RoleController) UsersWithRole(c *gin.Context) {
	roleName := c.Param("name")

	users, err := ctl.roles.UsersWithRole(roleName)
	if err != nil {
		abortWithError(c, err)
		return
	}

	result := make([]gin.H, 0, len(users))
	for i := range users {
		result = append(result, users[i].ToDict())
	}
	c.JSON(http.StatusOK, gin.H{"users": result, "count": len(result)})
}
