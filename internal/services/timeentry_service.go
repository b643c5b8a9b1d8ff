package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "tidbok/internal/errors"
	"tidbok/internal/models"
	"tidbok/internal/pagination"
	"tidbok/internal/pricing"
)

// timeEntryService owns time entries and their derived pricing fields.
type timeEntryService struct {
	db        *gorm.DB
	pricing   PricingServicer
	employees EmployeeServicer
}

// NewTimeEntryService creates a new TimeEntryServicer.
func NewTimeEntryService(db *gorm.DB, pricingService PricingServicer, employeeService EmployeeServicer) TimeEntryServicer {
	return &timeEntryService{db: db, pricing: pricingService, employees: employeeService}
}

// price runs rule resolution and the calculation pipeline for the entry,
// writing the derived fields in place.
func (s *timeEntryService) price(entry *models.TimeEntry) error {
	rule, err := s.pricing.ResolveRule(entry.CustomerID, entry.ArticleID, entry.Date)
	if err != nil {
		return err
	}

	var employee models.Employee
	if err := s.db.First(&employee, entry.EmployeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrEmployeeNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	costPerHour, err := s.employees.EffectiveCostPerHour(entry.EmployeeID, entry.Date)
	if err != nil {
		return err
	}

	result := pricing.Calculate(entry.Hours, rule, employee.DefaultPricePerHour, costPerHour)
	entry.CostAmount = result.CostAmount
	entry.CalculatedPrice = result.CalculatedPrice
	entry.PricingRuleID = nil
	if rule != nil {
		entry.PricingRuleID = &rule.ID
	}
	return nil
}

// CreateTimeEntry records worked hours and derives their cost and price.
func (s *timeEntryService) CreateTimeEntry(employeeID, customerID, articleID uint, date time.Time, hours float64, note string) (*models.TimeEntry, error) {
	if hours <= 0 || hours > 24 {
		return nil, apperrors.ErrInvalidHours
	}

	var customer models.Customer
	if err := s.db.First(&customer, customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCustomerNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	entry := &models.TimeEntry{
		EmployeeID: employeeID,
		CustomerID: customerID,
		ArticleID:  articleID,
		Date:       date,
		Hours:      hours,
		Note:       note,
	}
	if err := s.price(entry); err != nil {
		return nil, err
	}
	if err := s.db.Create(entry).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entry, nil
}

// GetTimeEntries returns a paginated, filtered list of time entries.
func (s *timeEntryService) GetTimeEntries(page pagination.PageRequest, filter TimeEntryFilter) (*pagination.PageResponse[models.TimeEntry], error) {
	page.Defaults()

	query := s.db.Model(&models.TimeEntry{})
	if filter.EmployeeID != nil {
		query = query.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.ArticleID != nil {
		query = query.Where("article_id = ?", *filter.ArticleID)
	}
	if filter.FromDate != nil {
		query = query.Where("date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("date <= ?", *filter.ToDate)
	}

	var totalItems int64
	if err := query.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var entries []models.TimeEntry
	if err := query.Preload("Employee").Preload("Customer").Preload("Article").
		Order("date DESC, id DESC").
		Scopes(pagination.Paginate(page)).Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(entries, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetTimeEntryByID returns a time entry by ID.
func (s *timeEntryService) GetTimeEntryByID(id uint) (*models.TimeEntry, error) {
	var entry models.TimeEntry
	if err := s.db.Preload("Employee").Preload("Customer").Preload("Article").
		First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTimeEntryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &entry, nil
}

// UpdateTimeEntry applies the changes and reruns the pricing pipeline.
// An edit that changes the date can resolve a different rule; the stored
// derived fields always reflect the entry's current values.
func (s *timeEntryService) UpdateTimeEntry(id uint, date *time.Time, hours *float64, note *string) (*models.TimeEntry, error) {
	entry, err := s.GetTimeEntryByID(id)
	if err != nil {
		return nil, err
	}

	if date != nil {
		entry.Date = *date
	}
	if hours != nil {
		if *hours <= 0 || *hours > 24 {
			return nil, apperrors.ErrInvalidHours
		}
		entry.Hours = *hours
	}
	if note != nil {
		entry.Note = *note
	}

	if err := s.price(entry); err != nil {
		return nil, err
	}
	if err := s.db.Save(entry).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entry, nil
}

// DeleteTimeEntry soft-deletes a time entry.
func (s *timeEntryService) DeleteTimeEntry(id uint) error {
	entry, err := s.GetTimeEntryByID(id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(entry).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// SetRunningPrice records or clears the would-have-billed value. A nil
// price clears it, dropping the entry out of fixed-price variance math.
func (s *timeEntryService) SetRunningPrice(id uint, runningPrice *float64) (*models.TimeEntry, error) {
	entry, err := s.GetTimeEntryByID(id)
	if err != nil {
		return nil, err
	}
	if runningPrice != nil && *runningPrice < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "running price must not be negative")
	}
	if err := s.db.Model(entry).Update("running_price", runningPrice).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	entry.RunningPrice = runningPrice
	return entry, nil
}
