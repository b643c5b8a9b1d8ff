package services

import (
	"errors"

	"gorm.io/gorm"

	"tidbok/internal/budgeting"
	apperrors "tidbok/internal/errors"
	"tidbok/internal/models"
	"tidbok/internal/pagination"
)

// budgetService handles budget entry lifecycle and evaluation.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

func validMonth(month int) bool {
	return month >= 1 && month <= 12
}

// applyBudgetFilter narrows a query to the filter's customer(s) and article.
func applyBudgetFilter(q *gorm.DB, filter BudgetFilter) *gorm.DB {
	if filter.CustomerID != nil {
		q = q.Where("customer_id = ?", *filter.CustomerID)
	}
	if len(filter.CustomerIDs) > 0 {
		q = q.Where("customer_id IN ?", filter.CustomerIDs)
	}
	if filter.ArticleID != nil {
		q = q.Where("article_id = ?", *filter.ArticleID)
	}
	return q
}

// CreateDraft creates a draft budget entry targeting one calendar month.
func (s *budgetService) CreateDraft(customerID, articleID uint, year, month int, hours, amount float64) (*models.BudgetEntry, error) {
	if !validMonth(month) || year <= 0 {
		return nil, apperrors.ErrInvalidPeriod
	}
	if hours < 0 || amount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "hours and amount must not be negative")
	}

	var customer models.Customer
	if err := s.db.First(&customer, customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCustomerNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	var article models.Article
	if err := s.db.First(&article, articleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrArticleNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	entry := &models.BudgetEntry{
		CustomerID: customerID,
		ArticleID:  articleID,
		StartYear:  year,
		StartMonth: month,
		Hours:      hours,
		Amount:     amount,
		Status:     models.BudgetStatusDraft,
	}
	if err := s.db.Create(entry).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entry, nil
}

// GetEntries returns a paginated, filtered list of budget entries.
func (s *budgetService) GetEntries(page pagination.PageRequest, status *models.BudgetStatus, filter BudgetFilter) (*pagination.PageResponse[models.BudgetEntry], error) {
	page.Defaults()

	base := applyBudgetFilter(s.db.Model(&models.BudgetEntry{}), filter)
	if status != nil {
		base = base.Where("status = ?", *status)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var entries []models.BudgetEntry
	if err := base.Preload("Customer").Preload("Article").
		Order("customer_id, article_id, start_year, start_month").
		Scopes(pagination.Paginate(page)).Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(entries, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetEntryByID returns a budget entry by ID.
func (s *budgetService) GetEntryByID(id uint) (*models.BudgetEntry, error) {
	var entry models.BudgetEntry
	if err := s.db.Preload("Customer").Preload("Article").First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetEntryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &entry, nil
}

// UpdateDraft updates hours/amount on a draft entry. Published entries
// are immutable history and cannot be edited.
func (s *budgetService) UpdateDraft(id uint, hours, amount *float64) (*models.BudgetEntry, error) {
	entry, err := s.GetEntryByID(id)
	if err != nil {
		return nil, err
	}
	if entry.Status != models.BudgetStatusDraft {
		return nil, apperrors.ErrBudgetNotDraft
	}

	updates := make(map[string]interface{})
	if hours != nil {
		if *hours < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "hours must not be negative")
		}
		updates["hours"] = *hours
	}
	if amount != nil {
		if *amount < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
		}
		updates["amount"] = *amount
	}

	if len(updates) > 0 {
		if err := s.db.Model(entry).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return entry, nil
}

// DeleteEntry soft-deletes a single budget entry.
func (s *budgetService) DeleteEntry(id uint) error {
	entry, err := s.GetEntryByID(id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(entry).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// DeleteDrafts bulk-deletes draft entries for a customer and target month.
func (s *budgetService) DeleteDrafts(customerID uint, year, month int) (int64, error) {
	if !validMonth(month) {
		return 0, apperrors.ErrInvalidPeriod
	}

	result := s.db.Where(
		"customer_id = ? AND start_year = ? AND start_month = ? AND status = ?",
		customerID, year, month, models.BudgetStatusDraft,
	).Delete(&models.BudgetEntry{})
	if result.Error != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	return result.RowsAffected, nil
}

// Publish promotes all draft entries targeting (year, month) in a single
// transaction. Each (customer, article) pair gets the next version after
// its highest published one, and a previously open published entry for
// the same pair is closed to the month before the new start. A budget
// report running concurrently sees either the pre- or post-publish
// state, never a mix.
func (s *budgetService) Publish(year, month int, customerID *uint) (*PublishResult, error) {
	if !validMonth(month) || year <= 0 {
		return nil, apperrors.ErrInvalidPeriod
	}

	result := &PublishResult{}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		draftQuery := tx.Where(
			"start_year = ? AND start_month = ? AND status = ?",
			year, month, models.BudgetStatusDraft,
		)
		if customerID != nil {
			draftQuery = draftQuery.Where("customer_id = ?", *customerID)
		}

		var drafts []models.BudgetEntry
		if err := draftQuery.Find(&drafts).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if len(drafts) == 0 {
			return apperrors.ErrNothingToPublish
		}

		prevMonth := budgeting.Month{Year: year, Month: month}.Prev()

		for i := range drafts {
			draft := &drafts[i]

			// Close the currently open published entry for this pair.
			var open []models.BudgetEntry
			if err := tx.Where(
				"customer_id = ? AND article_id = ? AND status = ? AND end_year IS NULL",
				draft.CustomerID, draft.ArticleID, models.BudgetStatusPublished,
			).Find(&open).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			for j := range open {
				if err := tx.Model(&open[j]).Updates(map[string]interface{}{
					"end_year":  prevMonth.Year,
					"end_month": prevMonth.Month,
				}).Error; err != nil {
					return apperrors.Wrap(apperrors.ErrInternalServer, err)
				}
				open[j].EndYear = &prevMonth.Year
				open[j].EndMonth = &prevMonth.Month
				result.Closed = append(result.Closed, open[j])
			}

			// Next version for this pair.
			var maxVersion int
			if err := tx.Model(&models.BudgetEntry{}).
				Where("customer_id = ? AND article_id = ? AND status = ?",
					draft.CustomerID, draft.ArticleID, models.BudgetStatusPublished).
				Select("COALESCE(MAX(version), 0)").Scan(&maxVersion).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}

			nextVersion := maxVersion + 1
			if err := tx.Model(draft).Updates(map[string]interface{}{
				"status":  models.BudgetStatusPublished,
				"version": nextVersion,
			}).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			draft.Status = models.BudgetStatusPublished
			draft.Version = nextVersion
			result.Published = append(result.Published, *draft)
			if nextVersion > result.Version {
				result.Version = nextVersion
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// EvaluateEffective returns the deduplicated published entries in force
// for the given month.
func (s *budgetService) EvaluateEffective(year, month int, filter BudgetFilter) ([]models.BudgetEntry, error) {
	if !validMonth(month) {
		return nil, apperrors.ErrInvalidPeriod
	}

	entries, err := s.fetchPublished(filter)
	if err != nil {
		return nil, err
	}
	return budgeting.Effective(entries, budgeting.Month{Year: year, Month: month}), nil
}

// AggregateRange sums effective budget hours/amount per customer+article
// across every month of the inclusive range. An inverted range yields an
// empty map.
func (s *budgetService) AggregateRange(startYear, startMonth, endYear, endMonth int, filter BudgetFilter) (map[string]budgeting.RangeTotal, error) {
	if !validMonth(startMonth) || !validMonth(endMonth) {
		return nil, apperrors.ErrInvalidPeriod
	}

	entries, err := s.fetchPublished(filter)
	if err != nil {
		return nil, err
	}
	start := budgeting.Month{Year: startYear, Month: startMonth}
	end := budgeting.Month{Year: endYear, Month: endMonth}
	return budgeting.AggregateRange(entries, start, end), nil
}

// fetchPublished loads the published entries matching the filter as one
// snapshot, so evaluation never observes a half-published state.
func (s *budgetService) fetchPublished(filter BudgetFilter) ([]models.BudgetEntry, error) {
	q := applyBudgetFilter(
		s.db.Where("status = ?", models.BudgetStatusPublished),
		filter,
	)

	var entries []models.BudgetEntry
	if err := q.Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entries, nil
}
