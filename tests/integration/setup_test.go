package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"tidbok/internal/handlers"
	"tidbok/internal/logger"
	"tidbok/internal/middleware"
	"tidbok/internal/models"
	"tidbok/internal/services"
	"tidbok/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Customer{},
		&models.ArticleGroup{},
		&models.Article{},
		&models.Employee{},
		&models.EmployeeCostHistory{},
		&models.BudgetEntry{},
		&models.PricingRule{},
		&models.TimeEntry{},
		&models.AuditLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	userService := services.NewUserService(db)
	auditService := services.NewAuditService(db)
	customerService := services.NewCustomerService(db)
	articleService := services.NewArticleService(db)
	employeeService := services.NewEmployeeService(db)
	budgetService := services.NewBudgetService(db)
	pricingService := services.NewPricingService(db)
	timeEntryService := services.NewTimeEntryService(db, pricingService, employeeService)
	reportService := services.NewReportService(db, budgetService)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	customerHandler := handlers.NewCustomerHandler(customerService, auditService)
	articleHandler := handlers.NewArticleHandler(articleService, auditService)
	employeeHandler := handlers.NewEmployeeHandler(employeeService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, auditService)
	pricingHandler := handlers.NewPricingHandler(pricingService, auditService)
	timeEntryHandler := handlers.NewTimeEntryHandler(timeEntryService, auditService)
	reportHandler := handlers.NewReportHandler(reportService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.RefreshToken)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

	customers := protected.Group("/customers")
	customers.POST("", customerHandler.CreateCustomer)
	customers.GET("", customerHandler.GetCustomers)
	customers.GET("/:id", customerHandler.GetCustomer)
	customers.PUT("/:id", customerHandler.UpdateCustomer)
	customers.DELETE("/:id", middleware.RequireAdmin(), customerHandler.DeleteCustomer)

	articleGroups := protected.Group("/article-groups")
	articleGroups.POST("", middleware.RequireAdmin(), articleHandler.CreateArticleGroup)
	articleGroups.GET("", articleHandler.GetArticleGroups)

	articles := protected.Group("/articles")
	articles.POST("", middleware.RequireAdmin(), articleHandler.CreateArticle)
	articles.GET("", articleHandler.GetArticles)
	articles.GET("/:id", articleHandler.GetArticle)
	articles.PUT("/:id", middleware.RequireAdmin(), articleHandler.UpdateArticle)

	employees := protected.Group("/employees")
	employees.POST("", middleware.RequireAdmin(), employeeHandler.CreateEmployee)
	employees.GET("", employeeHandler.GetEmployees)
	employees.GET("/:id", employeeHandler.GetEmployee)
	employees.PUT("/:id", middleware.RequireAdmin(), employeeHandler.UpdateEmployee)
	employees.POST("/:id/cost-history", middleware.RequireAdmin(), employeeHandler.AddCostHistory)
	employees.GET("/:id/cost-history", employeeHandler.GetCostHistory)

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

	pricingRules := protected.Group("/pricing-rules")
	pricingRules.POST("", middleware.RequireAdmin(), pricingHandler.CreateRule)
	pricingRules.GET("", pricingHandler.GetRules)
	pricingRules.GET("/resolve", pricingHandler.ResolveRule)
	pricingRules.GET("/:id", pricingHandler.GetRule)
	pricingRules.PUT("/:id", middleware.RequireAdmin(), pricingHandler.UpdateRule)
	pricingRules.DELETE("/:id", middleware.RequireAdmin(), pricingHandler.DeactivateRule)

	timeEntries := protected.Group("/time-entries")
	timeEntries.POST("", timeEntryHandler.CreateTimeEntry)
	timeEntries.GET("", timeEntryHandler.GetTimeEntries)
	timeEntries.GET("/:id", timeEntryHandler.GetTimeEntry)
	timeEntries.PUT("/:id", timeEntryHandler.UpdateTimeEntry)
	timeEntries.DELETE("/:id", timeEntryHandler.DeleteTimeEntry)
	timeEntries.PUT("/:id/running-price", timeEntryHandler.SetRunningPrice)

	reports := protected.Group("/reports")
	reports.GET("/utilization/:id", reportHandler.GetEmployeeUtilization)
	reports.GET("/customers/:id", reportHandler.GetCustomerReport)
	reports.GET("/fixed-price/:id", reportHandler.GetFixedPriceAnalysis)
	reports.GET("/portfolio", reportHandler.GetPortfolioOverview)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a user with the given role and returns the access
// token, refresh token, and user ID.
func (app *testApp) registerUser(t *testing.T, email, password, role string) (accessToken, refreshToken string, userID float64) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"first_name":"Test","last_name":"User","role":%q}`, email, password, role)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["access_token"].(string), result["refresh_token"].(string), user["id"].(float64)
}

// registerAdmin registers an admin user and returns its access token.
func (app *testApp) registerAdmin(t *testing.T) string {
	t.Helper()
	n := dbCounter.Add(1)
	token, _, _ := app.registerUser(t, fmt.Sprintf("admin%d@test.com", n), "password123", "admin")
	return token
}

// loginUser logs in and returns the access and refresh tokens.
func (app *testApp) loginUser(t *testing.T, email, password string) (accessToken, refreshToken string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["access_token"].(string), result["refresh_token"].(string)
}

// createCustomer creates a customer through the API and returns its ID.
func (app *testApp) createCustomer(t *testing.T, token, name string, fixedPrice float64) float64 {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"org_number":"5560000001","fixed_price_amount":%g}`, name, fixedPrice)
	rec := app.request("POST", "/api/v1/customers", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create customer failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["customer"].(map[string]interface{})["id"].(float64)
}

// createArticle creates an article group of the given type plus one article
// in it, returning the article ID.
func (app *testApp) createArticle(t *testing.T, token, groupType, name string, fixedPrice bool) float64 {
	t.Helper()
	body := fmt.Sprintf(`{"name":"%s group","type":%q}`, name, groupType)
	rec := app.request("POST", "/api/v1/article-groups", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create article group failed: %d %s", rec.Code, rec.Body.String())
	}
	groupID := parseJSON(t, rec)["article_group"].(map[string]interface{})["id"].(float64)

	body = fmt.Sprintf(`{"name":%q,"group_id":%d,"included_in_fixed_price":%v}`, name, int(groupID), fixedPrice)
	rec = app.request("POST", "/api/v1/articles", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create article failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["article"].(map[string]interface{})["id"].(float64)
}

// createEmployee creates an employee through the API and returns its ID.
func (app *testApp) createEmployee(t *testing.T, token, email string) float64 {
	t.Helper()
	body := fmt.Sprintf(`{"first_name":"Kim","last_name":"Berg","email":%q,"cost_per_hour":500,"default_price_per_hour":1000,"weekly_hours":40,"target_utilization":0.8}`, email)
	rec := app.request("POST", "/api/v1/employees", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create employee failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["employee"].(map[string]interface{})["id"].(float64)
}
