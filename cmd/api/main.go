package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"tidbok/internal/config"
	"tidbok/internal/database"
	"tidbok/internal/handlers"
	"tidbok/internal/logger"
	"tidbok/internal/middleware"
	"tidbok/internal/services"
	"tidbok/internal/validator"

	_ "tidbok/internal/docs" // Import swagger docs
)

// @title           Tidbok API
// @version         1.0
// @description     Tidbok is a time-billing back office: budget planning and publishing, pricing rule resolution, priced time entries, and KPI reporting for consulting work.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	auditService := services.NewAuditService(db)
	customerService := services.NewCustomerService(db)
	articleService := services.NewArticleService(db)
	employeeService := services.NewEmployeeService(db)
	budgetService := services.NewBudgetService(db)
	pricingService := services.NewPricingService(db)
	timeEntryService := services.NewTimeEntryService(db, pricingService, employeeService)
	reportService := services.NewReportService(db, budgetService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	customerHandler := handlers.NewCustomerHandler(customerService, auditService)
	articleHandler := handlers.NewArticleHandler(articleService, auditService)
	employeeHandler := handlers.NewEmployeeHandler(employeeService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, auditService)
	pricingHandler := handlers.NewPricingHandler(pricingService, auditService)
	timeEntryHandler := handlers.NewTimeEntryHandler(timeEntryService, auditService)
	reportHandler := handlers.NewReportHandler(reportService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.RefreshToken)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Customer routes
	customers := protected.Group("/customers")
	customers.POST("", customerHandler.CreateCustomer)
	customers.GET("", customerHandler.GetCustomers)
	customers.GET("/:id", customerHandler.GetCustomer)
	customers.PUT("/:id", customerHandler.UpdateCustomer)
	customers.DELETE("/:id", middleware.RequireAdmin(), customerHandler.DeleteCustomer)

	// Article group and article routes
	articleGroups := protected.Group("/article-groups")
	articleGroups.POST("", middleware.RequireAdmin(), articleHandler.CreateArticleGroup)
	articleGroups.GET("", articleHandler.GetArticleGroups)

	articles := protected.Group("/articles")
	articles.POST("", middleware.RequireAdmin(), articleHandler.CreateArticle)
	articles.GET("", articleHandler.GetArticles)
	articles.GET("/:id", articleHandler.GetArticle)
	articles.PUT("/:id", middleware.RequireAdmin(), articleHandler.UpdateArticle)

	// Employee routes
	employees := protected.Group("/employees")
	employees.POST("", middleware.RequireAdmin(), employeeHandler.CreateEmployee)
	employees.GET("", employeeHandler.GetEmployees)
	employees.GET("/:id", employeeHandler.GetEmployee)
	employees.PUT("/:id", middleware.RequireAdmin(), employeeHandler.UpdateEmployee)
	employees.POST("/:id/cost-history", middleware.RequireAdmin(), employeeHandler.AddCostHistory)
	employees.GET("/:id/cost-history", employeeHandler.GetCostHistory)

	// Budget routes
	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.CreateDraft)
	budgets.GET("", budgetHandler.GetEntries)
	budgets.GET("/effective", budgetHandler.GetEffective)
	budgets.GET("/aggregate", budgetHandler.GetAggregate)
	budgets.POST("/publish", middleware.RequireAdmin(), budgetHandler.Publish)
	budgets.DELETE("/drafts", budgetHandler.DeleteDrafts)
	budgets.GET("/:id", budgetHandler.GetEntry)
	budgets.PUT("/:id", budgetHandler.UpdateDraft)
	budgets.DELETE("/:id", budgetHandler.DeleteEntry)

	// Pricing rule routes
	pricingRules := protected.Group("/pricing-rules")
	pricingRules.POST("", middleware.RequireAdmin(), pricingHandler.CreateRule)
	pricingRules.GET("", pricingHandler.GetRules)
	pricingRules.GET("/resolve", pricingHandler.ResolveRule)
	pricingRules.GET("/:id", pricingHandler.GetRule)
	pricingRules.PUT("/:id", middleware.RequireAdmin(), pricingHandler.UpdateRule)
	pricingRules.DELETE("/:id", middleware.RequireAdmin(), pricingHandler.DeactivateRule)

	// Time entry routes
	timeEntries := protected.Group("/time-entries")
	timeEntries.POST("", timeEntryHandler.CreateTimeEntry)
	timeEntries.GET("", timeEntryHandler.GetTimeEntries)
	timeEntries.GET("/:id", timeEntryHandler.GetTimeEntry)
	timeEntries.PUT("/:id", timeEntryHandler.UpdateTimeEntry)
	timeEntries.DELETE("/:id", timeEntryHandler.DeleteTimeEntry)
	timeEntries.PUT("/:id/running-price", timeEntryHandler.SetRunningPrice)

	// Report routes
	reports := protected.Group("/reports")
	reports.GET("/utilization/:id", reportHandler.GetEmployeeUtilization)
	reports.GET("/customers/:id", reportHandler.GetCustomerReport)
	reports.GET("/fixed-price/:id", reportHandler.GetFixedPriceAnalysis)
	reports.GET("/portfolio", reportHandler.GetPortfolioOverview)

	log.Infof("Starting Tidbok backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
