package services_test

import (
	"testing"
	"time"

	"tidbok/internal/models"
	"tidbok/internal/services"
	"tidbok/internal/testutil"
)

func floatPtr(f float64) *float64 { return &f }

func TestCreateRule(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := services.NewPricingService(db)

	customer := testutil.CreateTestCustomer(t, db)

	t.Run("creates global rule", func(t *testing.T) {
		rule, err := service.CreateRule(services.PricingRuleInput{
			Name:         "Standard rate",
			Scope:        models.PricingScopeGlobal,
			PricePerHour: floatPtr(1200),
		})
		testutil.AssertNoError(t, err)
		if !rule.IsActive {
			t.Error("new rule should be active")
		}
	})

	t.Run("rejects customer scope without customer id", func(t *testing.T) {
		_, err := service.CreateRule(services.PricingRuleInput{
			Name:  "Broken",
			Scope: models.PricingScopeCustomer,
		})
		testutil.AssertAppError(t, err, "INVALID_SCOPE_TARGET")
	})

	t.Run("rejects customer_article scope missing article id", func(t *testing.T) {
		_, err := service.CreateRule(services.PricingRuleInput{
			Name:       "Broken",
			Scope:      models.PricingScopeCustomerArticle,
			CustomerID: &customer.ID,
		})
		testutil.AssertAppError(t, err, "INVALID_SCOPE_TARGET")
	})

	t.Run("rejects discount above 1", func(t *testing.T) {
		_, err := service.CreateRule(services.PricingRuleInput{
			Name:     "Broken",
			Scope:    models.PricingScopeGlobal,
			Discount: floatPtr(1.5),
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestResolveRule(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := services.NewPricingService(db)

	customer := testutil.CreateTestCustomer(t, db)
	group := testutil.CreateTestArticleGroup(t, db, models.ArticleGroupTypeOrdinarie)
	article := testutil.CreateTestArticle(t, db, group.ID)
	date := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("no rules resolves to nil", func(t *testing.T) {
		rule, err := service.ResolveRule(customer.ID, article.ID, date)
		testutil.AssertNoError(t, err)
		if rule != nil {
			t.Errorf("expected no rule, got %q", rule.Name)
		}
	})

	t.Run("unknown article is a hard error", func(t *testing.T) {
		_, err := service.ResolveRule(customer.ID, 99999, date)
		testutil.AssertAppError(t, err, "ARTICLE_NOT_FOUND")
	})

	t.Run("more specific scope beats higher priority", func(t *testing.T) {
		global := testutil.CreateTestPricingRule(t, db, models.PricingRule{
			Name:         "Global high priority",
			Scope:        models.PricingScopeGlobal,
			Priority:     100,
			PricePerHour: floatPtr(900),
		})
		forCustomer := testutil.CreateTestPricingRule(t, db, models.PricingRule{
			Name:         "Customer rate",
			Scope:        models.PricingScopeCustomer,
			Priority:     0,
			CustomerID:   &customer.ID,
			PricePerHour: floatPtr(1100),
		})

		resolved, err := service.ResolveRule(customer.ID, article.ID, date)
		testutil.AssertNoError(t, err)
		if resolved == nil || resolved.ID != forCustomer.ID {
			t.Fatalf("expected customer rule %d to win over global %d", forCustomer.ID, global.ID)
		}
	})

	t.Run("group rule applies via the article's group", func(t *testing.T) {
		otherCustomer := testutil.CreateTestCustomer(t, db)
		groupRule := testutil.CreateTestPricingRule(t, db, models.PricingRule{
			Name:           "Group rate",
			Scope:          models.PricingScopeArticleGroup,
			ArticleGroupID: &group.ID,
			PricePerHour:   floatPtr(950),
		})

		resolved, err := service.ResolveRule(otherCustomer.ID, article.ID, date)
		testutil.AssertNoError(t, err)
		if resolved == nil || resolved.ID != groupRule.ID {
			t.Fatal("expected the article-group rule to win over global")
		}
	})

	t.Run("expired rule is skipped", func(t *testing.T) {
		pastTo := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
		expired := testutil.CreateTestPricingRule(t, db, models.PricingRule{
			Name:         "Expired customer_article",
			Scope:        models.PricingScopeCustomerArticle,
			CustomerID:   &customer.ID,
			ArticleID:    &article.ID,
			PricePerHour: floatPtr(2000),
			ValidTo:      &pastTo,
		})

		resolved, err := service.ResolveRule(customer.ID, article.ID, date)
		testutil.AssertNoError(t, err)
		if resolved != nil && resolved.ID == expired.ID {
			t.Error("expired rule must not resolve")
		}
	})
}

func TestDeactivateRule(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := services.NewPricingService(db)

	customer := testutil.CreateTestCustomer(t, db)
	group := testutil.CreateTestArticleGroup(t, db, models.ArticleGroupTypeOrdinarie)
	article := testutil.CreateTestArticle(t, db, group.ID)

	rule := testutil.CreateTestPricingRule(t, db, models.PricingRule{
		Scope:        models.PricingScopeGlobal,
		PricePerHour: floatPtr(1000),
	})

	testutil.AssertNoError(t, service.DeactivateRule(rule.ID))

	// Still readable, no longer resolvable.
	reloaded, err := service.GetRuleByID(rule.ID)
	testutil.AssertNoError(t, err)
	if reloaded.IsActive {
		t.Error("rule should be inactive")
	}

	resolved, err := service.ResolveRule(customer.ID, article.ID, time.Now())
	testutil.AssertNoError(t, err)
	if resolved != nil {
		t.Error("deactivated rule must not resolve")
	}
}

func TestScopeClearsForeignKeys(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := services.NewPricingService(db)

	customer := testutil.CreateTestCustomer(t, db)

	// A global rule with a stray customer id must come back clean.
	rule, err := service.CreateRule(services.PricingRuleInput{
		Name:         "Global",
		Scope:        models.PricingScopeGlobal,
		CustomerID:   &customer.ID,
		PricePerHour: floatPtr(1000),
	})
	testutil.AssertNoError(t, err)
	if rule.CustomerID != nil {
		t.Error("global rule should not keep a customer id")
	}
}
