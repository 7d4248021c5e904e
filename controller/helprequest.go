package controller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"prochatbot/model"
)

// HelpRequestController covers the help-request ticketing endpoints and the
// student/teacher message thread under each request.
type HelpRequestController struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewHelpRequestController(db *gorm.DB, logger *logrus.Logger) *HelpRequestController {
	return &HelpRequestController{db: db, logger: logger}
}

// Create handles POST /help-requests.
func (ctrl *HelpRequestController) Create(c *gin.Context) {
	var input struct {
		StudentID   uint   `json:"student_id" binding:"required"`
		StudentName string `json:"student_name" binding:"required"`
		Subject     string `json:"subject" binding:"required"`
		Message     string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	request := model.HelpRequest{
		StudentID:   input.StudentID,
		StudentName: input.StudentName,
		Subject:     input.Subject,
		Message:     input.Message,
		Status:      model.HelpRequestPending,
	}
	if err := model.CreateHelpRequest(ctrl.db.WithContext(c.Request.Context()), &request); err != nil {
		ctrl.logger.Warnf("[%s] Create help request failed: %s", c.GetString("requestId"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"id":      request.ID,
		"message": "Help request created successfully",
	})
}

// List handles GET /help-requests.
func (ctrl *HelpRequestController) List(c *gin.Context) {
	requests, err := model.GetHelpRequests(ctrl.db.WithContext(c.Request.Context()))
	if err != nil {
		ctrl.logger.Warnf("[%s] List help requests failed: %s", c.GetString("requestId"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	c.JSON(http.StatusOK, requests)
}

// ListByStudent handles GET /help-requests/student/:student_id.
func (ctrl *HelpRequestController) ListByStudent(c *gin.Context) {
	studentID, ok := uintParam(c, "student_id")
	if !ok {
		return
	}

	requests, err := model.GetHelpRequestsByStudent(ctrl.db.WithContext(c.Request.Context()), studentID)
	if err != nil {
		ctrl.logger.Warnf("[%s] List student help requests failed: %s", c.GetString("requestId"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	c.JSON(http.StatusOK, requests)
}

// Get handles GET /help-requests/:id.
func (ctrl *HelpRequestController) Get(c *gin.Context) {
	requestID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	request, err := model.GetHelpRequest(ctrl.db.WithContext(c.Request.Context()), requestID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		return
	}
	c.JSON(http.StatusOK, request)
}

// Respond handles PUT /help-requests/:id/respond.
func (ctrl *HelpRequestController) Respond(c *gin.Context) {
	requestID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var input struct {
		TeacherID       uint   `json:"teacher_id" binding:"required"`
		TeacherResponse string `json:"teacher_response" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	err := model.RespondToHelpRequest(ctrl.db.WithContext(c.Request.Context()), requestID, input.TeacherID, input.TeacherResponse)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Response sent successfully"})
}

// Resolve handles PUT /help-requests/:id/resolve.
func (ctrl *HelpRequestController) Resolve(c *gin.Context) {
	requestID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if err := model.ResolveHelpRequest(ctrl.db.WithContext(c.Request.Context()), requestID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Request marked as resolved"})
}

// Messages handles GET /help-requests/:id/messages.
func (ctrl *HelpRequestController) Messages(c *gin.Context) {
	requestID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	messages, err := model.GetHelpRequestMessages(ctrl.db.WithContext(c.Request.Context()), requestID)
	if err != nil {
		ctrl.logger.Warnf("[%s] List help request messages failed: %s", c.GetString("requestId"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	c.JSON(http.StatusOK, messages)
}

// AddMessage handles POST /help-requests/:id/messages.
func (ctrl *HelpRequestController) AddMessage(c *gin.Context) {
	requestID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var input struct {
		Sender     string `json:"sender" binding:"required"`
		SenderID   uint   `json:"sender_id" binding:"required"`
		SenderName string `json:"sender_name" binding:"required"`
		Message    string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	sender := strings.ToLower(input.Sender)
	if sender != "student" && sender != "teacher" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sender type"})
		return
	}

	message := model.HelpRequestMessage{
		HelpRequestID: requestID,
		Sender:        sender,
		SenderID:      input.SenderID,
		SenderName:    input.SenderName,
		Message:       input.Message,
	}
	if err := model.AddHelpRequestMessage(ctrl.db.WithContext(c.Request.Context()), &message); err != nil {
		ctrl.logger.Warnf("[%s] Add help request message failed: %s", c.GetString("requestId"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message_id": message.ID})
}
