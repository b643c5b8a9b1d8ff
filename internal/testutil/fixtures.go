package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"tidbok/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		Role:     models.UserRoleEmployee,
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCustomer creates an active customer without a fixed-price deal.
func CreateTestCustomer(t *testing.T, db *gorm.DB) *models.Customer {
	t.Helper()
	return CreateTestCustomerWithFixedPrice(t, db, 0)
}

// CreateTestCustomerWithFixedPrice creates a customer with the given
// monthly fixed-price amount.
func CreateTestCustomerWithFixedPrice(t *testing.T, db *gorm.DB, fixedPriceAmount float64) *models.Customer {
	t.Helper()

	customer := &models.Customer{
		Name:             fmt.Sprintf("Test Customer %d", nextID()),
		OrgNumber:        fmt.Sprintf("556%07d", nextID()),
		FixedPriceAmount: fixedPriceAmount,
		IsActive:         true,
	}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("failed to create test customer: %v", err)
	}
	return customer
}

// CreateTestArticleGroup creates an article group of the given type.
func CreateTestArticleGroup(t *testing.T, db *gorm.DB, groupType models.ArticleGroupType) *models.ArticleGroup {
	t.Helper()

	group := &models.ArticleGroup{
		Name: fmt.Sprintf("Test Group %d", nextID()),
		Type: groupType,
	}
	if err := db.Create(group).Error; err != nil {
		t.Fatalf("failed to create test article group: %v", err)
	}
	return group
}

// CreateTestArticle creates an active article in the given group.
func CreateTestArticle(t *testing.T, db *gorm.DB, groupID uint) *models.Article {
	t.Helper()

	article := &models.Article{
		Name:     fmt.Sprintf("Test Article %d", nextID()),
		GroupID:  groupID,
		IsActive: true,
	}
	if err := db.Create(article).Error; err != nil {
		t.Fatalf("failed to create test article: %v", err)
	}
	return article
}

// CreateTestFixedPriceArticle creates an article billed under fixed price.
func CreateTestFixedPriceArticle(t *testing.T, db *gorm.DB, groupID uint) *models.Article {
	t.Helper()

	article := &models.Article{
		Name:                 fmt.Sprintf("Test Fixed Article %d", nextID()),
		GroupID:              groupID,
		IncludedInFixedPrice: true,
		IsActive:             true,
	}
	if err := db.Create(article).Error; err != nil {
		t.Fatalf("failed to create test article: %v", err)
	}
	return article
}

// CreateTestEmployee creates an employee with standard rates: cost 500,
// default price 1000, 40-hour weeks.
func CreateTestEmployee(t *testing.T, db *gorm.DB) *models.Employee {
	t.Helper()

	n := nextID()
	employee := &models.Employee{
		FirstName:           "Test",
		LastName:            fmt.Sprintf("Employee %d", n),
		Email:               fmt.Sprintf("employee%d@test.com", n),
		CostPerHour:         500,
		DefaultPricePerHour: 1000,
		WeeklyHours:         40,
		TargetUtilization:   0.8,
		IsActive:            true,
	}
	if err := db.Create(employee).Error; err != nil {
		t.Fatalf("failed to create test employee: %v", err)
	}
	return employee
}

// CreateTestBudgetEntry creates a budget entry with the given status and
// start period.
func CreateTestBudgetEntry(t *testing.T, db *gorm.DB, customerID, articleID uint, status models.BudgetStatus, year, month int, hours, amount float64) *models.BudgetEntry {
	t.Helper()

	entry := &models.BudgetEntry{
		CustomerID: customerID,
		ArticleID:  articleID,
		StartYear:  year,
		StartMonth: month,
		Hours:      hours,
		Amount:     amount,
		Status:     status,
	}
	if status == models.BudgetStatusPublished {
		entry.Version = 1
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create test budget entry: %v", err)
	}
	return entry
}

// CreateTestPricingRule creates an active pricing rule from the given
// template. The template's scope and foreign keys are kept as provided.
func CreateTestPricingRule(t *testing.T, db *gorm.DB, rule models.PricingRule) *models.PricingRule {
	t.Helper()

	if rule.Name == "" {
		rule.Name = fmt.Sprintf("Test Rule %d", nextID())
	}
	rule.IsActive = true
	if err := db.Create(&rule).Error; err != nil {
		t.Fatalf("failed to create test pricing rule: %v", err)
	}
	return &rule
}

// CreateTestTimeEntry creates a time entry directly, bypassing the
// pricing pipeline. Derived fields are stored as given.
func CreateTestTimeEntry(t *testing.T, db *gorm.DB, employeeID, customerID, articleID uint, date time.Time, hours float64) *models.TimeEntry {
	t.Helper()

	entry := &models.TimeEntry{
		EmployeeID: employeeID,
		CustomerID: customerID,
		ArticleID:  articleID,
		Date:       date,
		Hours:      hours,
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create test time entry: %v", err)
	}
	return entry
}
