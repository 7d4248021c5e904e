package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"prochatbot/model"
)

// StatisticsController exposes the per-school usage counters.
type StatisticsController struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewStatisticsController(db *gorm.DB, logger *logrus.Logger) *StatisticsController {
	return &StatisticsController{db: db, logger: logger}
}

// Get handles GET /statistics/:school_id. The zero row is created on first
// read so a fresh school always answers with zeros instead of a 404.
func (ctrl *StatisticsController) Get(c *gin.Context) {
	schoolID, ok := uintParam(c, "school_id")
	if !ok {
		return
	}

	stats, err := model.GetOrInitStatistics(ctrl.db.WithContext(c.Request.Context()), schoolID)
	if err != nil {
		ctrl.logger.Warnf("[%s] Get statistics failed: %s", c.GetString("requestId"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_logins":           stats.TotalLogins,
		"total_questions":        stats.TotalQuestions,
		"total_session_duration": stats.TotalSessionDuration,
	})
}
