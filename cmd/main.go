package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/olympiadquiz/server/config"
	"github.com/olympiadquiz/server/database"
	_ "github.com/olympiadquiz/server/docs" // Swagger docs - auto-generated
	adminctrl "github.com/olympiadquiz/server/internal/controller/admin"
	"github.com/olympiadquiz/server/internal/controller/middleware"
	userctrl "github.com/olympiadquiz/server/internal/controller/user"
	"github.com/olympiadquiz/server/internal/logger"
	"github.com/olympiadquiz/server/internal/model"
	"github.com/olympiadquiz/server/internal/repository"
	"github.com/olympiadquiz/server/internal/service"
	"github.com/olympiadquiz/server/internal/session"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Olympiad Quiz API
// @version 1.0
// @description API for an educational quiz platform with a subject/topic/class/level hierarchy, timed quiz sessions and an admin console.
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		// Core Application Components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase, // Provides *gorm.DB
			NewGinEngine,         // Provides *gin.Engine
			session.NewStore,
		),

		// Repositories Layer
		fx.Provide(
			repository.NewContentRepository,
			repository.NewUserRepository,
			repository.NewAttemptRepository,
		),

		// Services Layer
		fx.Provide(
			service.NewContentService,
			service.NewUserService,
			service.NewQuizSessionService,
			service.NewImportService,
			service.NewStatsService,
		),

		// API Controllers Layer
		fx.Provide(
			userctrl.NewAuthController,
			userctrl.NewContentController,
			userctrl.NewSessionController,
			adminctrl.NewContentController,
			adminctrl.NewUserController,
			adminctrl.NewStatsController,
		),

		// Invokers - Functions that are executed by Fx
		fx.Invoke(AutoMigrateDB),
		fx.Invoke(BootstrapAdmin),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.DebugMode)

	r := gin.New()

	// Route gin's access log through zerolog.
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Be more specific in production
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI at http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	authCtrl *userctrl.AuthController,
	contentCtrl *userctrl.ContentController,
	sessionCtrl *userctrl.SessionController,
	adminContentCtrl *adminctrl.ContentController,
	adminUserCtrl *adminctrl.UserController,
	adminStatsCtrl *adminctrl.StatsController,
) {
	api := router.Group("/api/v1")

	// Public routes
	auth := api.Group("/auth")
	{
		auth.POST("/register", authCtrl.Register)
		auth.POST("/login", authCtrl.Login)
	}

	// Authenticated quiz-taking routes
	authed := api.Group("")
	authed.Use(middleware.RequireAuth(cfg.Auth.JWTSecret))
	{
		authed.GET("/subjects", contentCtrl.ListSubjects)
		authed.GET("/subjects/:id", contentCtrl.GetSubject)
		authed.GET("/topics/:id", contentCtrl.GetTopic)
		authed.GET("/classes/:id", contentCtrl.GetClass)
		authed.GET("/levels/:id", contentCtrl.GetLevel)
		authed.GET("/levels/:id/quizzes", contentCtrl.GetLevelQuizzes)
		authed.GET("/quizzes/:id", contentCtrl.GetQuiz)

		authed.POST("/quizzes/:id/sessions", sessionCtrl.StartSession)
		authed.GET("/quizzes/:id/my-attempts", sessionCtrl.MyAttempts)
		authed.GET("/sessions/:sid", sessionCtrl.PollSession)
		authed.PUT("/sessions/:sid/answer", sessionCtrl.RecordAnswer)
		authed.PUT("/sessions/:sid/cursor", sessionCtrl.MoveCursor)
		authed.POST("/sessions/:sid/submit", sessionCtrl.SubmitSession)
	}

	// Admin console routes
	admin := api.Group("/admin")
	admin.Use(middleware.RequireAuth(cfg.Auth.JWTSecret), middleware.RequireAdmin())
	{
		admin.POST("/import", adminContentCtrl.ImportContent)

		admin.GET("/quizzes", adminContentCtrl.ListQuizzes)
		admin.GET("/quizzes/:id", adminContentCtrl.GetQuiz)
		admin.PUT("/quizzes/:id", adminContentCtrl.UpdateQuizMeta)
		admin.DELETE("/quizzes/:id", adminContentCtrl.DeleteQuiz)
		admin.PUT("/quizzes/:id/visibility", adminContentCtrl.ToggleVisibility)
		admin.POST("/quizzes/:id/questions", adminContentCtrl.AddQuestion)
		admin.PUT("/questions/:id", adminContentCtrl.UpdateQuestion)
		admin.DELETE("/questions/:id", adminContentCtrl.DeleteQuestion)
		admin.DELETE("/subjects/:id", adminContentCtrl.DeleteSubject)

		admin.GET("/users", adminUserCtrl.ListUsers)
		admin.POST("/users", adminUserCtrl.CreateUser)
		admin.PUT("/users/:id", adminUserCtrl.UpdateUser)
		admin.PUT("/users/:id/password", adminUserCtrl.ResetPassword)
		admin.DELETE("/users/:id", adminUserCtrl.DeleteUser)

		admin.GET("/statistics", adminStatsCtrl.GetStatistics)
		admin.GET("/attempts", adminStatsCtrl.ListAttempts)
		admin.GET("/attempts/export", adminStatsCtrl.ExportAttempts)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Olympiad Quiz API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Subject{},
		&model.Topic{},
		&model.Class{},
		&model.Level{},
		&model.Quiz{},
		&model.Question{},
		&model.Answer{},
		&model.User{},
		&model.QuizAttempt{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}

// BootstrapAdmin makes sure a usable admin account exists on first boot.
func BootstrapAdmin(userService service.UserService, cfg *config.Config) error {
	return userService.BootstrapAdmin(cfg.Admin.Username, cfg.Admin.Password)
}
