package services

import (
	"time"

	"tidbok/internal/budgeting"
	"tidbok/internal/kpi"
	"tidbok/internal/models"
	"tidbok/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string, role models.UserRole) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID uint, tokenHash string) error
	GetRefreshTokenHash(userID uint) (string, error)
}

// CustomerServicer defines the contract for customer-related business logic.
type CustomerServicer interface {
	CreateCustomer(name, orgNumber string, fixedPriceAmount float64) (*models.Customer, error)
	GetCustomers(page pagination.PageRequest, isActive *bool) (*pagination.PageResponse[models.Customer], error)
	GetCustomerByID(id uint) (*models.Customer, error)
	UpdateCustomer(id uint, name, orgNumber string, fixedPriceAmount *float64, isActive *bool) (*models.Customer, error)
	DeleteCustomer(id uint) error
}

// ArticleServicer defines the contract for article and article group logic.
type ArticleServicer interface {
	CreateArticleGroup(name string, groupType models.ArticleGroupType) (*models.ArticleGroup, error)
	GetArticleGroups() ([]models.ArticleGroup, error)
	CreateArticle(name string, groupID uint, includedInFixedPrice bool) (*models.Article, error)
	GetArticles(page pagination.PageRequest, isActive *bool, groupID *uint) (*pagination.PageResponse[models.Article], error)
	GetArticleByID(id uint) (*models.Article, error)
	UpdateArticle(id uint, name string, includedInFixedPrice, isActive *bool) (*models.Article, error)
}

// EmployeeServicer defines the contract for employee and cost-rate logic.
type EmployeeServicer interface {
	CreateEmployee(firstName, lastName, email string, costPerHour, defaultPricePerHour, weeklyHours, targetUtilization float64) (*models.Employee, error)
	GetEmployees(page pagination.PageRequest, isActive *bool) (*pagination.PageResponse[models.Employee], error)
	GetEmployeeByID(id uint) (*models.Employee, error)
	UpdateEmployee(id uint, costPerHour, defaultPricePerHour, weeklyHours, targetUtilization *float64, isActive *bool) (*models.Employee, error)
	AddCostHistory(employeeID uint, costPerHour float64, effectiveFrom time.Time, effectiveTo *time.Time) (*models.EmployeeCostHistory, error)
	GetCostHistory(employeeID uint) ([]models.EmployeeCostHistory, error)
	// EffectiveCostPerHour returns the cost rate in force on the given
	// date: the cost-history window containing the date wins over the
	// employee's current rate.
	EffectiveCostPerHour(employeeID uint, date time.Time) (float64, error)
}

// BudgetFilter restricts which budget entries are considered by the
// effectiveness and aggregation operations.
type BudgetFilter struct {
	CustomerID  *uint
	CustomerIDs []uint
	ArticleID   *uint
}

// PublishResult summarizes one publish cycle.
type PublishResult struct {
	Published []models.BudgetEntry `json:"published"`
	Closed    []models.BudgetEntry `json:"closed"`
	Version   int                  `json:"version"`
}

// BudgetServicer defines the contract for budget entry lifecycle,
// effectiveness evaluation, and range aggregation.
type BudgetServicer interface {
	CreateDraft(customerID, articleID uint, year, month int, hours, amount float64) (*models.BudgetEntry, error)
	GetEntries(page pagination.PageRequest, status *models.BudgetStatus, filter BudgetFilter) (*pagination.PageResponse[models.BudgetEntry], error)
	GetEntryByID(id uint) (*models.BudgetEntry, error)
	UpdateDraft(id uint, hours, amount *float64) (*models.BudgetEntry, error)
	DeleteEntry(id uint) error
	// DeleteDrafts bulk-deletes draft entries for a customer and target
	// month, returning how many rows were removed.
	DeleteDrafts(customerID uint, year, month int) (int64, error)
	// Publish promotes all draft entries targeting (year, month) to
	// published in one transaction, assigning each pair its next version
	// and auto-closing previously open published entries for the same
	// customer+article. An optional customer restricts the batch.
	Publish(year, month int, customerID *uint) (*PublishResult, error)
	EvaluateEffective(year, month int, filter BudgetFilter) ([]models.BudgetEntry, error)
	AggregateRange(startYear, startMonth, endYear, endMonth int, filter BudgetFilter) (map[string]budgeting.RangeTotal, error)
}

// PricingRuleInput carries the writable fields of a pricing rule.
type PricingRuleInput struct {
	Name                string
	Scope               models.PricingScope
	Priority            int
	CustomerID          *uint
	ArticleID           *uint
	ArticleGroupID      *uint
	PricePerHour        *float64
	Discount            *float64
	Markup              *float64
	FixedPriceComponent *float64
	MinimumCharge       *float64
	ValidFrom           *time.Time
	ValidTo             *time.Time
}

// PricingServicer defines the contract for pricing rule management and
// resolution.
type PricingServicer interface {
	CreateRule(input PricingRuleInput) (*models.PricingRule, error)
	GetRules(page pagination.PageRequest, isActive *bool, scope *models.PricingScope) (*pagination.PageResponse[models.PricingRule], error)
	GetRuleByID(id uint) (*models.PricingRule, error)
	UpdateRule(id uint, input PricingRuleInput) (*models.PricingRule, error)
	// DeactivateRule soft-disables a rule; rules are never physically deleted.
	DeactivateRule(id uint) error
	// ResolveRule selects the applicable rule for the combination, or
	// (nil, nil) when no rule applies.
	ResolveRule(customerID, articleID uint, date time.Time) (*models.PricingRule, error)
}

// TimeEntryFilter holds optional filter parameters for listing time entries.
type TimeEntryFilter struct {
	EmployeeID *uint
	CustomerID *uint
	ArticleID  *uint
	FromDate   *time.Time
	ToDate     *time.Time
}

// TimeEntryServicer defines the contract for time entry business logic.
// Derived pricing fields are owned by this service alone.
type TimeEntryServicer interface {
	CreateTimeEntry(employeeID, customerID, articleID uint, date time.Time, hours float64, note string) (*models.TimeEntry, error)
	GetTimeEntries(page pagination.PageRequest, filter TimeEntryFilter) (*pagination.PageResponse[models.TimeEntry], error)
	GetTimeEntryByID(id uint) (*models.TimeEntry, error)
	// UpdateTimeEntry applies the given changes and reruns the pricing
	// pipeline so the derived fields stay consistent.
	UpdateTimeEntry(id uint, date *time.Time, hours *float64, note *string) (*models.TimeEntry, error)
	DeleteTimeEntry(id uint) error
	// SetRunningPrice records (or clears) the separately tracked
	// would-have-billed value used by fixed-price variance reporting.
	SetRunningPrice(id uint, runningPrice *float64) (*models.TimeEntry, error)
}

// UtilizationReport is one employee's capacity and utilization for a month.
type UtilizationReport struct {
	EmployeeID        uint         `json:"employee_id"`
	Year              int          `json:"year"`
	Month             int          `json:"month"`
	Capacity          kpi.Capacity `json:"capacity"`
	AvailableHours    float64      `json:"available_hours"`
	TotalHours        float64      `json:"total_hours"`
	DebitableHours    float64      `json:"debitable_hours"`
	Utilization       float64      `json:"utilization"`
	TargetUtilization float64      `json:"target_utilization"`
}

// ReportLine is one article's actuals versus budget within a customer report.
type ReportLine struct {
	ArticleID          uint    `json:"article_id"`
	ArticleName        string  `json:"article_name,omitempty"`
	Hours              float64 `json:"hours"`
	Revenue            float64 `json:"revenue"`
	Cost               float64 `json:"cost"`
	ContributionMargin float64 `json:"contribution_margin"`
	MarginRatio        float64 `json:"margin_ratio"`
	BudgetHours        float64 `json:"budget_hours"`
	BudgetAmount       float64 `json:"budget_amount"`
	VarianceHours      float64 `json:"variance_hours"`
	VarianceAmount     float64 `json:"variance_amount"`
	DeviationPercent   float64 `json:"deviation_percent"`
}

// CustomerReport is a customer's per-article actuals against budget.
type CustomerReport struct {
	CustomerID         uint         `json:"customer_id"`
	CustomerName       string       `json:"customer_name"`
	Lines              []ReportLine `json:"lines"`
	TotalHours         float64      `json:"total_hours"`
	DebitableHours     float64      `json:"debitable_hours"`
	Revenue            float64      `json:"revenue"`
	ContributionMargin float64      `json:"contribution_margin"`
	MarginRatio        float64      `json:"margin_ratio"`
	BudgetHours        float64      `json:"budget_hours"`
	BudgetAmount       float64      `json:"budget_amount"`
	VarianceAmount     float64      `json:"variance_amount"`
	DeviationPercent   float64      `json:"deviation_percent"`
}

// FixedPriceReport compares fixed-price work against the agreed amount.
type FixedPriceReport struct {
	CustomerID          uint    `json:"customer_id"`
	CustomerName        string  `json:"customer_name"`
	FixedPriceAmount    float64 `json:"fixed_price_amount"`
	Hours               float64 `json:"hours"`
	CalculatedValue     float64 `json:"calculated_value"`
	Cost                float64 `json:"cost"`
	Margin              float64 `json:"margin"`
	CouldHaveBilledDiff float64 `json:"could_have_billed_diff"`
}

// PortfolioLine is one customer's totals in the portfolio overview.
type PortfolioLine struct {
	CustomerID         uint    `json:"customer_id"`
	CustomerName       string  `json:"customer_name"`
	Hours              float64 `json:"hours"`
	Revenue            float64 `json:"revenue"`
	ContributionMargin float64 `json:"contribution_margin"`
	MarginRatio        float64 `json:"margin_ratio"`
	BudgetHours        float64 `json:"budget_hours"`
	BudgetAmount       float64 `json:"budget_amount"`
	VarianceAmount     float64 `json:"variance_amount"`
	DeviationPercent   float64 `json:"deviation_percent"`
}

// PortfolioReport rolls up every customer against budget for a range.
type PortfolioReport struct {
	StartYear           int             `json:"start_year"`
	StartMonth          int             `json:"start_month"`
	EndYear             int             `json:"end_year"`
	EndMonth            int             `json:"end_month"`
	Lines               []PortfolioLine `json:"lines"`
	TotalHours          float64         `json:"total_hours"`
	TotalRevenue        float64         `json:"total_revenue"`
	TotalBudgetAmount   float64         `json:"total_budget_amount"`
	TotalVarianceAmount float64         `json:"total_variance_amount"`
}

// ReportServicer defines the contract for KPI reporting.
type ReportServicer interface {
	EmployeeUtilization(employeeID uint, year, month int) (*UtilizationReport, error)
	CustomerReport(customerID uint, startYear, startMonth, endYear, endMonth int) (*CustomerReport, error)
	FixedPriceAnalysis(customerID uint, startYear, startMonth, endYear, endMonth int) (*FixedPriceReport, error)
	PortfolioOverview(startYear, startMonth, endYear, endMonth int, customerIDs []uint) (*PortfolioReport, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}
