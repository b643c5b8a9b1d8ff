package testutil_test

import (
	"testing"

	"tidbok/internal/errors"
	"tidbok/internal/models"
	"tidbok/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{"users", "customers", "article_groups", "articles", "employees", "employee_cost_histories", "budget_entries", "pricing_rules", "time_entries", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	if user.ID == 0 {
		t.Fatal("user should have a non-zero ID")
	}

	customer := testutil.CreateTestCustomerWithFixedPrice(t, db, 50000)
	if customer.FixedPriceAmount != 50000 {
		t.Errorf("expected fixed price 50000, got %f", customer.FixedPriceAmount)
	}

	group := testutil.CreateTestArticleGroup(t, db, models.ArticleGroupTypeOrdinarie)
	if group.Type != models.ArticleGroupTypeOrdinarie {
		t.Errorf("expected ordinarie group type, got %s", group.Type)
	}

	article := testutil.CreateTestArticle(t, db, group.ID)
	if article.GroupID != group.ID {
		t.Errorf("expected group ID %d, got %d", group.ID, article.GroupID)
	}

	employee := testutil.CreateTestEmployee(t, db)
	if employee.DefaultPricePerHour != 1000 {
		t.Errorf("expected default price 1000, got %f", employee.DefaultPricePerHour)
	}

	entry := testutil.CreateTestBudgetEntry(t, db, customer.ID, article.ID, models.BudgetStatusPublished, 2025, 1, 100, 80000)
	if entry.Version != 1 {
		t.Errorf("expected published entry to start at version 1, got %d", entry.Version)
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrCustomerNotFound, "custom message")
	testutil.AssertAppError(t, err, "CUSTOMER_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
