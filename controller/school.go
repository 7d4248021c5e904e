package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"prochatbot/model"
)

type SchoolController struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewSchoolController(db *gorm.DB, logger *logrus.Logger) *SchoolController {
	return &SchoolController{db: db, logger: logger}
}

// Update handles PUT /schools/:id.
func (ctrl *SchoolController) Update(c *gin.Context) {
	schoolID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var input struct {
		Name        string `json:"name" binding:"required"`
		ZipCode     string `json:"zip_code" binding:"required"`
		StreetName  string `json:"street_name" binding:"required"`
		HouseNumber string `json:"house_number" binding:"required"`
		Town        string `json:"town" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
		return
	}

	school := model.School{
		ID:          schoolID,
		Name:        input.Name,
		ZipCode:     input.ZipCode,
		StreetName:  input.StreetName,
		HouseNumber: input.HouseNumber,
		Town:        input.Town,
	}
	if err := model.UpdateSchool(ctrl.db.WithContext(c.Request.Context()), &school); err != nil {
		ctrl.logger.Warnf("[%s] Update school %d failed: %s", c.GetString("requestId"), schoolID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "School updated successfully"})
}
