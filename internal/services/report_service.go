package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"tidbok/internal/budgeting"
	apperrors "tidbok/internal/errors"
	"tidbok/internal/kpi"
	"tidbok/internal/models"
)

// reportService computes the KPI reports from time entries and budgets.
type reportService struct {
	db      *gorm.DB
	budgets BudgetServicer
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB, budgetService BudgetServicer) ReportServicer {
	return &reportService{db: db, budgets: budgetService}
}

// monthBounds returns the first day of the month and the first day of
// the next month, as half-open bounds for date queries.
func monthBounds(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// rangeBounds returns half-open date bounds covering the inclusive
// month range.
func rangeBounds(startYear, startMonth, endYear, endMonth int) (time.Time, time.Time) {
	from, _ := monthBounds(startYear, startMonth)
	_, to := monthBounds(endYear, endMonth)
	return from, to
}

// workingDays counts Monday–Friday days in the month. Public holidays
// are not modelled.
func workingDays(year, month int) int {
	start, end := monthBounds(year, month)
	days := 0
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			days++
		}
	}
	return days
}

// toKPIEntries flattens time entries (with Article.Group preloaded) into
// the kpi package's input form.
func toKPIEntries(entries []models.TimeEntry) []kpi.Entry {
	out := make([]kpi.Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, kpi.Entry{
			Hours:            e.Hours,
			CalculatedPrice:  e.CalculatedPrice,
			CostAmount:       e.CostAmount,
			RunningPrice:     e.RunningPrice,
			ArticleGroupType: e.Article.Group.Type,
		})
	}
	return out
}

func (s *reportService) fetchEntries(query *gorm.DB) ([]models.TimeEntry, error) {
	var entries []models.TimeEntry
	if err := query.Preload("Article").Preload("Article.Group").
		Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entries, nil
}

// EmployeeUtilization reports one employee's hours and utilization for
// a calendar month. Capacity is working days × weeklyHours / 5, and
// absence comes from the employee's franvaro-group entries.
func (s *reportService) EmployeeUtilization(employeeID uint, year, month int) (*UtilizationReport, error) {
	if !validMonth(month) {
		return nil, apperrors.ErrInvalidPeriod
	}

	var employee models.Employee
	if err := s.db.First(&employee, employeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEmployeeNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	from, to := monthBounds(year, month)
	entries, err := s.fetchEntries(s.db.Where(
		"employee_id = ? AND date >= ? AND date < ?", employeeID, from, to,
	))
	if err != nil {
		return nil, err
	}

	var absence float64
	for _, e := range entries {
		if e.Article.Group.Type == models.ArticleGroupTypeFranvaro {
			absence += e.Hours
		}
	}
	capacity := kpi.Capacity{
		TotalWorkingHours: float64(workingDays(year, month)) * employee.WeeklyHours / 5,
		AbsenceHours:      absence,
	}
	kpiEntries := toKPIEntries(entries)

	return &UtilizationReport{
		EmployeeID:        employeeID,
		Year:              year,
		Month:             month,
		Capacity:          capacity,
		AvailableHours:    kpi.AvailableHours(capacity),
		TotalHours:        kpi.TotalHours(kpiEntries),
		DebitableHours:    kpi.DebitableHours(kpiEntries),
		Utilization:       kpi.Utilization(kpiEntries, capacity),
		TargetUtilization: employee.TargetUtilization,
	}, nil
}

// CustomerReport compares a customer's actuals against its effective
// budget per article across the month range.
func (s *reportService) CustomerReport(customerID uint, startYear, startMonth, endYear, endMonth int) (*CustomerReport, error) {
	if !validMonth(startMonth) || !validMonth(endMonth) {
		return nil, apperrors.ErrInvalidPeriod
	}

	var customer models.Customer
	if err := s.db.First(&customer, customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCustomerNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	from, to := rangeBounds(startYear, startMonth, endYear, endMonth)
	entries, err := s.fetchEntries(s.db.Where(
		"customer_id = ? AND date >= ? AND date < ?", customerID, from, to,
	))
	if err != nil {
		return nil, err
	}

	budgetTotals, err := s.budgets.AggregateRange(
		startYear, startMonth, endYear, endMonth,
		BudgetFilter{CustomerID: &customerID},
	)
	if err != nil {
		return nil, err
	}

	// Group actuals per article, then line them up against the budget.
	byArticle := make(map[uint][]models.TimeEntry)
	for _, e := range entries {
		byArticle[e.ArticleID] = append(byArticle[e.ArticleID], e)
	}

	report := &CustomerReport{
		CustomerID:   customerID,
		CustomerName: customer.Name,
	}
	seen := make(map[uint]bool)
	for articleID, articleEntries := range byArticle {
		seen[articleID] = true
		line := buildReportLine(articleID, articleEntries)
		if t, ok := budgetTotals[budgeting.RangeKey(customerID, articleID)]; ok {
			line.BudgetHours = t.Hours
			line.BudgetAmount = t.Amount
		}
		ke := toKPIEntries(articleEntries)
		budget := kpi.Budget{Hours: line.BudgetHours, Amount: line.BudgetAmount}
		line.VarianceHours = kpi.BudgetVarianceHours(ke, budget)
		line.VarianceAmount = kpi.BudgetVarianceAmount(ke, budget)
		line.DeviationPercent = kpi.BudgetDeviationPercent(line.Revenue, line.BudgetAmount)
		report.Lines = append(report.Lines, line)
	}
	// Budget lines with no actuals still show up, fully unspent.
	for _, t := range budgetTotals {
		if seen[t.ArticleID] {
			continue
		}
		report.Lines = append(report.Lines, ReportLine{
			ArticleID:        t.ArticleID,
			BudgetHours:      t.Hours,
			BudgetAmount:     t.Amount,
			VarianceHours:    -t.Hours,
			VarianceAmount:   -t.Amount,
			DeviationPercent: kpi.BudgetDeviationPercent(0, t.Amount),
		})
	}

	ke := toKPIEntries(entries)
	report.TotalHours = kpi.TotalHours(ke)
	report.DebitableHours = kpi.DebitableHours(ke)
	report.ContributionMargin = kpi.ContributionMargin(ke)
	report.MarginRatio = kpi.MarginRatio(ke)
	for _, line := range report.Lines {
		report.Revenue += line.Revenue
		report.BudgetHours += line.BudgetHours
		report.BudgetAmount += line.BudgetAmount
	}
	report.VarianceAmount = report.Revenue - report.BudgetAmount
	report.DeviationPercent = kpi.BudgetDeviationPercent(report.Revenue, report.BudgetAmount)
	return report, nil
}

func buildReportLine(articleID uint, entries []models.TimeEntry) ReportLine {
	line := ReportLine{ArticleID: articleID}
	if len(entries) > 0 {
		line.ArticleName = entries[0].Article.Name
	}
	ke := toKPIEntries(entries)
	line.Hours = kpi.TotalHours(ke)
	revenue, cost := sumRevenueCost(entries)
	line.Revenue = revenue
	line.Cost = cost
	line.ContributionMargin = kpi.ContributionMargin(ke)
	line.MarginRatio = kpi.MarginRatio(ke)
	return line
}

func sumRevenueCost(entries []models.TimeEntry) (revenue, cost float64) {
	for _, e := range entries {
		revenue += e.CalculatedPrice
		cost += e.CostAmount
	}
	return revenue, cost
}

// FixedPriceAnalysis compares work on fixed-price articles against the
// customer's fixed-price amount and reports the could-have-billed diff.
func (s *reportService) FixedPriceAnalysis(customerID uint, startYear, startMonth, endYear, endMonth int) (*FixedPriceReport, error) {
	if !validMonth(startMonth) || !validMonth(endMonth) {
		return nil, apperrors.ErrInvalidPeriod
	}

	var customer models.Customer
	if err := s.db.First(&customer, customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCustomerNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	from, to := rangeBounds(startYear, startMonth, endYear, endMonth)
	entries, err := s.fetchEntries(s.db.
		Joins("JOIN articles ON articles.id = time_entries.article_id").
		Where("time_entries.customer_id = ? AND time_entries.date >= ? AND time_entries.date < ?", customerID, from, to).
		Where("articles.included_in_fixed_price = ?", true))
	if err != nil {
		return nil, err
	}

	ke := toKPIEntries(entries)
	revenue, cost := sumRevenueCost(entries)

	// The fixed-price amount is monthly; scale it to the range length.
	months := len(budgeting.Months(
		budgeting.Month{Year: startYear, Month: startMonth},
		budgeting.Month{Year: endYear, Month: endMonth},
	))
	fixedPriceTotal := customer.FixedPriceAmount * float64(months)

	return &FixedPriceReport{
		CustomerID:          customerID,
		CustomerName:        customer.Name,
		FixedPriceAmount:    fixedPriceTotal,
		Hours:               kpi.TotalHours(ke),
		CalculatedValue:     revenue,
		Cost:                cost,
		Margin:              fixedPriceTotal - cost,
		CouldHaveBilledDiff: kpi.CouldHaveBilledDiff(ke),
	}, nil
}

// PortfolioOverview rolls up actuals versus budget per customer across
// the month range. An empty customer set means all active customers.
func (s *reportService) PortfolioOverview(startYear, startMonth, endYear, endMonth int, customerIDs []uint) (*PortfolioReport, error) {
	if !validMonth(startMonth) || !validMonth(endMonth) {
		return nil, apperrors.ErrInvalidPeriod
	}

	customerQuery := s.db.Model(&models.Customer{})
	if len(customerIDs) > 0 {
		customerQuery = customerQuery.Where("id IN ?", customerIDs)
	} else {
		customerQuery = customerQuery.Where("is_active = ?", true)
	}
	var customers []models.Customer
	if err := customerQuery.Order("name").Find(&customers).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	from, to := rangeBounds(startYear, startMonth, endYear, endMonth)
	report := &PortfolioReport{
		StartYear:  startYear,
		StartMonth: startMonth,
		EndYear:    endYear,
		EndMonth:   endMonth,
	}
	for _, customer := range customers {
		entries, err := s.fetchEntries(s.db.Where(
			"customer_id = ? AND date >= ? AND date < ?", customer.ID, from, to,
		))
		if err != nil {
			return nil, err
		}
		customerID := customer.ID
		budgetTotals, err := s.budgets.AggregateRange(
			startYear, startMonth, endYear, endMonth,
			BudgetFilter{CustomerID: &customerID},
		)
		if err != nil {
			return nil, err
		}
		var budget kpi.Budget
		for _, t := range budgetTotals {
			budget.Hours += t.Hours
			budget.Amount += t.Amount
		}

		ke := toKPIEntries(entries)
		revenue, _ := sumRevenueCost(entries)
		line := PortfolioLine{
			CustomerID:         customer.ID,
			CustomerName:       customer.Name,
			Hours:              kpi.TotalHours(ke),
			Revenue:            revenue,
			ContributionMargin: kpi.ContributionMargin(ke),
			MarginRatio:        kpi.MarginRatio(ke),
			BudgetHours:        budget.Hours,
			BudgetAmount:       budget.Amount,
			VarianceAmount:     kpi.BudgetVarianceAmount(ke, budget),
			DeviationPercent:   kpi.BudgetDeviationPercent(revenue, budget.Amount),
		}
		report.Lines = append(report.Lines, line)
		report.TotalHours += line.Hours
		report.TotalRevenue += line.Revenue
		report.TotalBudgetAmount += line.BudgetAmount
	}
	report.TotalVarianceAmount = report.TotalRevenue - report.TotalBudgetAmount
	return report, nil
}
