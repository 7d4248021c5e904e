package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"prochatbot/model"
	"prochatbot/service"
)

// UserController ...
type UserController struct {
	users  *service.UserService
	logger *logrus.Logger
}

func NewUserController(users *service.UserService, logger *logrus.Logger) *UserController {
	return &UserController{users: users, logger: logger}
}

// Login handles POST /login.
func (ctrl *UserController) Login(c *gin.Context) {
	ctrl.logger.Infof("[%s] Handling user login request", c.GetString("requestId"))

	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password required"})
		return
	}

	user, token, err := ctrl.users.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			ctrl.logger.Warnf("[%s] User %s failed to login: %s", c.GetString("requestId"), input.Email, err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	ctrl.logger.Infof("[%s] User %d login successfully", c.GetString("requestId"), user.ID)
	c.JSON(http.StatusOK, gin.H{
		"id":         user.ID,
		"email":      user.Email,
		"firstname":  user.Firstname,
		"lastname":   user.Lastname,
		"middlename": user.Middlename,
		"role":       user.Role,
		"token":      token,
	})
}

// Create handles POST /users.
func (ctrl *UserController) Create(c *gin.Context) {
	var input struct {
		Firstname  string `json:"firstname" binding:"required"`
		Middlename string `json:"middlename"`
		Lastname   string `json:"lastname" binding:"required"`
		Email      string `json:"email" binding:"required,email"`
		Password   string `json:"password" binding:"required"`
		Role       string `json:"role"`
		SchoolID   *uint  `json:"schoolId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
		return
	}

	user, err := ctrl.users.Register(c.Request.Context(), service.NewUser{
		Firstname:  input.Firstname,
		Middlename: input.Middlename,
		Lastname:   input.Lastname,
		Email:      input.Email,
		Password:   input.Password,
		Role:       model.Role(input.Role),
		SchoolID:   input.SchoolID,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already exists"})
			return
		}
		ctrl.logger.Warnf("[%s] Failed to create user: %s", c.GetString("requestId"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "id": user.ID})
}

// ListStudents handles GET /users.
func (ctrl *UserController) ListStudents(c *gin.Context) {
	users, err := ctrl.users.ListStudents(c.Request.Context())
	if err != nil {
		ctrl.logger.Warnf("[%s] List students failed: %s", c.GetString("requestId"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// ListTeachers handles GET /users/teachers.
func (ctrl *UserController) ListTeachers(c *gin.Context) {
	users, err := ctrl.users.ListTeachersAndAdmins(c.Request.Context())
	if err != nil {
		ctrl.logger.Warnf("[%s] List teachers failed: %s", c.GetString("requestId"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// Update handles PUT /users/:id.
func (ctrl *UserController) Update(c *gin.Context) {
	userID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var input struct {
		Firstname   string `json:"firstname" binding:"required"`
		Middlename  string `json:"middlename"`
		Lastname    string `json:"lastname" binding:"required"`
		Email       string `json:"email" binding:"required,email"`
		OldPassword string `json:"old_password"`
		Password    string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	err := ctrl.users.UpdateProfile(c.Request.Context(), userID, service.UserUpdate{
		Firstname:   input.Firstname,
		Middlename:  input.Middlename,
		Lastname:    input.Lastname,
		Email:       input.Email,
		OldPassword: input.OldPassword,
		NewPassword: input.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, service.ErrInvalidCredentials):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Old password incorrect"})
		default:
			ctrl.logger.Warnf("[%s] Update user %d failed: %s", c.GetString("requestId"), userID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User updated successfully"})
}

// Delete handles DELETE /users/:id.
func (ctrl *UserController) Delete(c *gin.Context) {
	userID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	user, err := ctrl.users.Delete(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		ctrl.logger.Warnf("[%s] Delete user %d failed: %s", c.GetString("requestId"), userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	role := string(user.Role)
	if role != "" {
		role = strings.ToUpper(role[:1]) + role[1:]
	}
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("%s %s %s deleted successfully", role, user.Firstname, user.Lastname),
	})
}

// School handles GET /users/:id/school.
func (ctrl *UserController) School(c *gin.Context) {
	userID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	school, err := ctrl.users.School(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "School not found"})
		return
	}
	c.JSON(http.StatusOK, school)
}

// ChangePassword handles POST /change-password.
func (ctrl *UserController) ChangePassword(c *gin.Context) {
	var input struct {
		Email       string `json:"email" binding:"required"`
		OldPassword string `json:"old_password" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing fields"})
		return
	}

	err := ctrl.users.ChangePassword(c.Request.Context(), input.Email, input.OldPassword, input.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		case errors.Is(err, service.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Old password is incorrect"})
		default:
			ctrl.logger.Warnf("[%s] Change password failed: %s", c.GetString("requestId"), err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ChangeName handles POST /change-name.
func (ctrl *UserController) ChangeName(c *gin.Context) {
	var input struct {
		Email     string `json:"email" binding:"required"`
		Firstname string `json:"firstname" binding:"required"`
		Lastname  string `json:"lastname" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing fields"})
		return
	}

	err := ctrl.users.ChangeName(c.Request.Context(), input.Email, input.Firstname, input.Lastname)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
			return
		}
		ctrl.logger.Warnf("[%s] Change name failed: %s", c.GetString("requestId"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
