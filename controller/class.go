package controller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"prochatbot/model"
)

// ClassController covers the class administration endpoints.
type ClassController struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewClassController(db *gorm.DB, logger *logrus.Logger) *ClassController {
	return &ClassController{db: db, logger: logger}
}

// List handles GET /classes.
func (ctrl *ClassController) List(c *gin.Context) {
	classes, err := model.GetClasses(ctrl.db.WithContext(c.Request.Context()))
	if err != nil {
		ctrl.logger.Warnf("[%s] List classes failed: %s", c.GetString("requestId"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	c.JSON(http.StatusOK, classes)
}

// Create handles POST /classes.
func (ctrl *ClassController) Create(c *gin.Context) {
	var input struct {
		Name     string `json:"name"`
		Students []struct {
			ID uint `json:"id"`
		} `json:"students"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || strings.TrimSpace(input.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Class name required"})
		return
	}

	db := ctrl.db.WithContext(c.Request.Context())
	class := model.Class{Name: input.Name}
	if err := model.CreateClass(db, &class); err != nil {
		ctrl.logger.Warnf("[%s] Create class failed: %s", c.GetString("requestId"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	if len(input.Students) > 0 {
		ids := make([]uint, 0, len(input.Students))
		for _, s := range input.Students {
			ids = append(ids, s.ID)
		}
		if err := model.AssignStudentsToClass(db, class.ID, ids); err != nil {
			ctrl.logger.Warnf("[%s] Assign students failed: %s", c.GetString("requestId"), err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}
	}

	c.JSON(http.StatusCreated, class)
}

// Rename handles PUT /classes/:id.
func (ctrl *ClassController) Rename(c *gin.Context) {
	classID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var input struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "New name required"})
		return
	}

	class, err := model.RenameClass(ctrl.db.WithContext(c.Request.Context()), classID, input.Name)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Class not found"})
		return
	}
	c.JSON(http.StatusOK, class)
}

// Delete handles DELETE /classes/:id.
func (ctrl *ClassController) Delete(c *gin.Context) {
	classID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	deleted, err := model.DeleteClass(ctrl.db.WithContext(c.Request.Context()), classID)
	if err != nil {
		ctrl.logger.Warnf("[%s] Delete class failed: %s", c.GetString("requestId"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	if deleted == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Class not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Students handles GET /classes/:id/students.
func (ctrl *ClassController) Students(c *gin.Context) {
	classID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	ids, err := model.GetClassStudentIDs(ctrl.db.WithContext(c.Request.Context()), classID)
	if err != nil {
		ctrl.logger.Warnf("[%s] List class students failed: %s", c.GetString("requestId"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	c.JSON(http.StatusOK, ids)
}

// UpdateStudents handles PUT /classes/:id/students.
func (ctrl *ClassController) UpdateStudents(c *gin.Context) {
	classID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var input struct {
		Students []uint `json:"students"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	err := model.ReplaceClassStudents(ctrl.db.WithContext(c.Request.Context()), classID, input.Students)
	if err != nil {
		ctrl.logger.Warnf("[%s] Update class students failed: %s", c.GetString("requestId"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
