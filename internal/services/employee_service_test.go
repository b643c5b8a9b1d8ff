package services_test

import (
	"testing"
	"time"

	"tidbok/internal/services"
	"tidbok/internal/testutil"
)

func TestEffectiveCostPerHour(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := services.NewEmployeeService(db)

	employee := testutil.CreateTestEmployee(t, db) // current rate 500

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	_, err := service.AddCostHistory(employee.ID, 400, from, &to)
	testutil.AssertNoError(t, err)

	openFrom := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	_, err = service.AddCostHistory(employee.ID, 450, openFrom, nil)
	testutil.AssertNoError(t, err)

	t.Run("closed window wins for dates inside it", func(t *testing.T) {
		rate, err := service.EffectiveCostPerHour(employee.ID, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
		testutil.AssertNoError(t, err)
		if rate != 400 {
			t.Errorf("expected 400, got %f", rate)
		}
	})

	t.Run("open window covers later dates", func(t *testing.T) {
		rate, err := service.EffectiveCostPerHour(employee.ID, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))
		testutil.AssertNoError(t, err)
		if rate != 450 {
			t.Errorf("expected 450, got %f", rate)
		}
	})

	t.Run("falls back to current rate before any window", func(t *testing.T) {
		rate, err := service.EffectiveCostPerHour(employee.ID, time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC))
		testutil.AssertNoError(t, err)
		if rate != 500 {
			t.Errorf("expected fallback 500, got %f", rate)
		}
	})

	t.Run("unknown employee", func(t *testing.T) {
		_, err := service.EffectiveCostPerHour(99999, time.Now())
		testutil.AssertAppError(t, err, "EMPLOYEE_NOT_FOUND")
	})
}

func TestAddCostHistory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := services.NewEmployeeService(db)

	employee := testutil.CreateTestEmployee(t, db)

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	record, err := service.AddCostHistory(employee.ID, 420, from, nil)
	testutil.AssertNoError(t, err)
	if record.CostPerHour != 420 {
		t.Errorf("expected 420, got %f", record.CostPerHour)
	}

	history, err := service.GetCostHistory(employee.ID)
	testutil.AssertNoError(t, err)
	if len(history) != 1 {
		t.Errorf("expected 1 history record, got %d", len(history))
	}

	t.Run("unknown employee", func(t *testing.T) {
		_, err := service.AddCostHistory(99999, 420, from, nil)
		testutil.AssertAppError(t, err, "EMPLOYEE_NOT_FOUND")
	})
}
