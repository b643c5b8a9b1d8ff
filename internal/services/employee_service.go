package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "tidbok/internal/errors"
	"tidbok/internal/models"
	"tidbok/internal/pagination"
)

// employeeService handles employee and cost-rate business logic.
type employeeService struct {
	db *gorm.DB
}

// NewEmployeeService creates a new EmployeeServicer.
func NewEmployeeService(db *gorm.DB) EmployeeServicer {
	return &employeeService{db: db}
}

// CreateEmployee creates a new employee.
func (s *employeeService) CreateEmployee(firstName, lastName, email string, costPerHour, defaultPricePerHour, weeklyHours, targetUtilization float64) (*models.Employee, error) {
	if firstName == "" || lastName == "" || email == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "first name, last name, and email are required")
	}

	employee := &models.Employee{
		FirstName:           firstName,
		LastName:            lastName,
		Email:               email,
		CostPerHour:         costPerHour,
		DefaultPricePerHour: defaultPricePerHour,
		WeeklyHours:         weeklyHours,
		TargetUtilization:   targetUtilization,
		IsActive:            true,
	}
	if err := s.db.Create(employee).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return employee, nil
}

// GetEmployees returns a paginated list of employees.
func (s *employeeService) GetEmployees(page pagination.PageRequest, isActive *bool) (*pagination.PageResponse[models.Employee], error) {
	page.Defaults()

	base := s.db.Model(&models.Employee{})
	if isActive != nil {
		base = base.Where("is_active = ?", *isActive)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var employees []models.Employee
	if err := base.Order("last_name, first_name").Scopes(pagination.Paginate(page)).Find(&employees).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(employees, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetEmployeeByID returns an employee by ID.
func (s *employeeService) GetEmployeeByID(id uint) (*models.Employee, error) {
	var employee models.Employee
	if err := s.db.First(&employee, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEmployeeNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &employee, nil
}

// UpdateEmployee updates an existing employee's rate and capacity fields.
func (s *employeeService) UpdateEmployee(id uint, costPerHour, defaultPricePerHour, weeklyHours, targetUtilization *float64, isActive *bool) (*models.Employee, error) {
	employee, err := s.GetEmployeeByID(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if costPerHour != nil {
		updates["cost_per_hour"] = *costPerHour
	}
	if defaultPricePerHour != nil {
		updates["default_price_per_hour"] = *defaultPricePerHour
	}
	if weeklyHours != nil {
		updates["weekly_hours"] = *weeklyHours
	}
	if targetUtilization != nil {
		updates["target_utilization"] = *targetUtilization
	}
	if isActive != nil {
		updates["is_active"] = *isActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(employee).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return employee, nil
}

// AddCostHistory records a cost-rate override for a date range.
func (s *employeeService) AddCostHistory(employeeID uint, costPerHour float64, effectiveFrom time.Time, effectiveTo *time.Time) (*models.EmployeeCostHistory, error) {
	if _, err := s.GetEmployeeByID(employeeID); err != nil {
		return nil, err
	}
	if effectiveTo != nil && effectiveTo.Before(effectiveFrom) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "effective_to must not precede effective_from")
	}

	record := &models.EmployeeCostHistory{
		EmployeeID:    employeeID,
		CostPerHour:   costPerHour,
		EffectiveFrom: effectiveFrom,
		EffectiveTo:   effectiveTo,
	}
	if err := s.db.Create(record).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return record, nil
}

// GetCostHistory returns all cost-history records for an employee.
func (s *employeeService) GetCostHistory(employeeID uint) ([]models.EmployeeCostHistory, error) {
	if _, err := s.GetEmployeeByID(employeeID); err != nil {
		return nil, err
	}

	var records []models.EmployeeCostHistory
	if err := s.db.Where("employee_id = ?", employeeID).Order("effective_from DESC").Find(&records).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return records, nil
}

// EffectiveCostPerHour resolves the cost rate in force on the given date.
// A history window containing the date takes precedence; when several
// windows overlap, the most recently starting one wins.
func (s *employeeService) EffectiveCostPerHour(employeeID uint, date time.Time) (float64, error) {
	employee, err := s.GetEmployeeByID(employeeID)
	if err != nil {
		return 0, err
	}

	var record models.EmployeeCostHistory
	err = s.db.
		Where("employee_id = ? AND effective_from <= ?", employeeID, date).
		Where("effective_to IS NULL OR effective_to >= ?", date).
		Order("effective_from DESC").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return employee.CostPerHour, nil
		}
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return record.CostPerHour, nil
}
