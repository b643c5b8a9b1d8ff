package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "tidbok/internal/errors"
	"tidbok/internal/models"
	"tidbok/internal/pagination"
)

// customerService handles customer-related business logic.
type customerService struct {
	db *gorm.DB
}

// NewCustomerService creates a new CustomerServicer.
func NewCustomerService(db *gorm.DB) CustomerServicer {
	return &customerService{db: db}
}

// CreateCustomer creates a new customer.
func (s *customerService) CreateCustomer(name, orgNumber string, fixedPriceAmount float64) (*models.Customer, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "customer name is required")
	}

	customer := &models.Customer{
		Name:             name,
		OrgNumber:        orgNumber,
		FixedPriceAmount: fixedPriceAmount,
		IsActive:         true,
	}
	if err := s.db.Create(customer).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return customer, nil
}

// GetCustomers returns a paginated list of customers.
func (s *customerService) GetCustomers(page pagination.PageRequest, isActive *bool) (*pagination.PageResponse[models.Customer], error) {
	page.Defaults()

	base := s.db.Model(&models.Customer{})
	if isActive != nil {
		base = base.Where("is_active = ?", *isActive)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var customers []models.Customer
	if err := base.Order("name").Scopes(pagination.Paginate(page)).Find(&customers).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(customers, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetCustomerByID returns a customer by ID.
func (s *customerService) GetCustomerByID(id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCustomerNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &customer, nil
}

// UpdateCustomer updates an existing customer's fields.
func (s *customerService) UpdateCustomer(id uint, name, orgNumber string, fixedPriceAmount *float64, isActive *bool) (*models.Customer, error) {
	customer, err := s.GetCustomerByID(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != "" {
		updates["name"] = name
	}
	if orgNumber != "" {
		updates["org_number"] = orgNumber
	}
	if fixedPriceAmount != nil {
		updates["fixed_price_amount"] = *fixedPriceAmount
	}
	if isActive != nil {
		updates["is_active"] = *isActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(customer).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return customer, nil
}

// DeleteCustomer soft-deletes a customer.
func (s *customerService) DeleteCustomer(id uint) error {
	customer, err := s.GetCustomerByID(id)
	if err != nil {
		return err
	}

	if err := s.db.Delete(customer).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
