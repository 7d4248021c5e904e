package main

import (
	"context"
	"fmt"
	"os"
	"time"

	_uuid "github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"prochatbot/controller"
	"prochatbot/model"
	"prochatbot/platform"
	"prochatbot/service"
)

// CORSMiddleware ...
// CORS (Cross-Origin Resource Sharing)
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, UPDATE")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "X-Requested-With, Content-Type, Origin, Authorization, Accept, Client-Security-Token, Accept-Encoding, x-access-token")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
		} else {
			c.Next()
		}
	}
}

// RequestIDMiddleware ...
// Generate a unique ID and attach it to each request for future reference or use
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		uuid := _uuid.New()
		c.Writer.Header().Set("X-Request-Id", uuid.String())
		c.Set("requestId", uuid.String())
		c.Next()
	}
}

func LogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery
		if raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		clientIP := c.ClientIP()
		method := c.Request.Method
		userAgent := c.Request.UserAgent()
		requestId := c.GetString("requestId")

		platform.Logger.Infof(
			" [%s] %d | %v | %s | %s | %s | %s ",
			requestId,
			status,
			latency,
			clientIP,
			method,
			path,
			userAgent,
		)
	}
}

var auth = new(controller.AuthController)

// TokenAuthMiddleware ...
// JWT Authentication middleware attached to each request that needs to be authenitcated to
// validate the access_token in the header
func TokenAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth.TokenValid(c)
		c.Next()
	}
}

func main() {
	fmt.Println("Server started...")

	//Load the .env file
	if err := godotenv.Load(".env"); err != nil {
		fmt.Println("failed to load the env file")
	}

	logger := platform.Logger

	//init the relational database
	db, err := platform.NewDB(platform.SQLConfigFromEnv())
	if err != nil {
		logger.Fatalf("init database failed: %v", err)
	}
	if err := model.InstallDB(db); err != nil {
		logger.Fatalf("migrate database failed: %v", err)
	}

	//init the conversation store; without MONGO_URI an in-memory store is used
	ctx := context.Background()
	var conversations model.ConversationStore
	if mongoConfig := platform.MongoConfigFromEnv(); mongoConfig.URI != "" {
		mongoDB, err := platform.NewMongo(ctx, mongoConfig)
		if err != nil {
			logger.Fatalf("init mongo failed: %v", err)
		}
		conversations = model.NewConversationStore(mongoDB)
	} else {
		logger.Warn("MONGO_URI not set, conversations are kept in memory")
		conversations = model.NewConversationStore(nil)
	}

	llm := platform.NewLLMClient(platform.LLMConfigFromEnv())

	statsService := service.NewStatsService(db, logger)
	chatService := service.NewChatService(conversations, llm, statsService, logger)
	userService := service.NewUserService(db, statsService, logger)

	r := gin.Default()
	r.Use(CORSMiddleware())
	r.Use(RequestIDMiddleware())
	r.Use(LogMiddleware())

	chat := controller.NewChatController(chatService, logger)
	user := controller.NewUserController(userService, logger)
	class := controller.NewClassController(db, logger)
	school := controller.NewSchoolController(db, logger)
	help := controller.NewHelpRequestController(db, logger)
	statistics := controller.NewStatisticsController(db, logger)

	r.POST("/chat", chat.Chat)
	r.GET("/conversations/owner/:owner_id", chat.ListByOwner)
	r.GET("/conversations/:id", chat.Get)
	r.DELETE("/conversations/:id", chat.Delete)
	r.PUT("/conversations/:id/title", chat.UpdateTitle)

	r.POST("/login", user.Login)
	r.POST("/token/refresh", auth.Refresh)
	r.POST("/change-password", user.ChangePassword)
	r.POST("/change-name", user.ChangeName)

	r.POST("/users", user.Create)
	r.GET("/users", user.ListStudents)
	r.GET("/users/teachers", user.ListTeachers)
	r.PUT("/users/:id", TokenAuthMiddleware(), user.Update)
	r.DELETE("/users/:id", TokenAuthMiddleware(), user.Delete)
	r.GET("/users/:id/school", user.School)

	r.PUT("/schools/:id", TokenAuthMiddleware(), school.Update)

	r.GET("/classes", class.List)
	r.POST("/classes", class.Create)
	r.PUT("/classes/:id", class.Rename)
	r.DELETE("/classes/:id", class.Delete)
	r.GET("/classes/:id/students", class.Students)
	r.PUT("/classes/:id/students", class.UpdateStudents)

	r.POST("/help-requests", help.Create)
	r.GET("/help-requests", help.List)
	r.GET("/help-requests/student/:student_id", help.ListByStudent)
	r.GET("/help-requests/:id", help.Get)
	r.PUT("/help-requests/:id/respond", help.Respond)
	r.PUT("/help-requests/:id/resolve", help.Resolve)
	r.GET("/help-requests/:id/messages", help.Messages)
	r.POST("/help-requests/:id/messages", help.AddMessage)

	r.GET("/statistics/:school_id", statistics.Get)

	//daily usage report mail, if SMTP is configured
	if reportConfig := service.ReportConfigFromEnv(); reportConfig.Enabled() {
		reportService := service.NewReportService(db, reportConfig, logger)
		c := cron.New()
		c.AddFunc("0 7 * * *", func() {
			if err := reportService.SendDailyUsageReport(context.Background()); err != nil {
				logger.Warnf("daily usage report failed: %v", err)
			}
		})
		c.Start()
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "5050"
	}
	r.Run(":" + port)
}
