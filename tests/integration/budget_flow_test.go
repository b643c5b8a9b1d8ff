package integration

import (
	"fmt"
	"net/http"
	"testing"
)

// TestBudgetFlow_DraftPublishEffective walks the full budget lifecycle:
// create drafts, publish them, revise with a second publish, and read the
// effective budget before and after the revision takes hold.
func TestBudgetFlow_DraftPublishEffective(t *testing.T) {
	app := setupApp(t)
	admin := app.registerAdmin(t)

	customerID := app.createCustomer(t, admin, "Acme AB", 0)
	articleID := app.createArticle(t, admin, "ordinarie", "Consulting", false)

	// Draft 100h/80000 from March 2025.
	body := fmt.Sprintf(`{"customer_id":%d,"article_id":%d,"year":2025,"month":3,"hours":100,"amount":80000}`,
		int(customerID), int(articleID))
	rec := app.request("POST", "/api/v1/budgets", body, admin)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create draft failed: %d %s", rec.Code, rec.Body.String())
	}
	entry := parseJSON(t, rec)["budget_entry"].(map[string]interface{})
	if entry["status"] != "draft" {
		t.Fatalf("expected draft, got %v", entry["status"])
	}

	// First publish assigns version 1.
	rec = app.request("POST", "/api/v1/budgets/publish", `{"year":2025,"month":3}`, admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("publish failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	if result["version"].(float64) != 1 {
		t.Errorf("expected version 1, got %v", result["version"])
	}
	if len(result["published"].([]interface{})) != 1 {
		t.Errorf("expected 1 published entry")
	}

	// Publishing again with no drafts conflicts.
	rec = app.request("POST", "/api/v1/budgets/publish", `{"year":2025,"month":3}`, admin)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on empty publish, got %d", rec.Code)
	}

	// Revision: new draft 150h from June 2025, published, closes the original.
	body = fmt.Sprintf(`{"customer_id":%d,"article_id":%d,"year":2025,"month":6,"hours":150,"amount":120000}`,
		int(customerID), int(articleID))
	rec = app.request("POST", "/api/v1/budgets", body, admin)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create revision draft failed: %d %s", rec.Code, rec.Body.String())
	}
	rec = app.request("POST", "/api/v1/budgets/publish", `{"year":2025,"month":6}`, admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("revision publish failed: %d %s", rec.Code, rec.Body.String())
	}
	result = parseJSON(t, rec)
	if result["version"].(float64) != 2 {
		t.Errorf("expected version 2, got %v", result["version"])
	}
	if len(result["closed"].([]interface{})) != 1 {
		t.Errorf("expected the original entry to be closed")
	}

	// Effective budget for April still sees the original 100h.
	rec = app.request("GET", "/api/v1/budgets/effective?year=2025&month=4", "", admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("effective failed: %d %s", rec.Code, rec.Body.String())
	}
	entries := parseJSON(t, rec)["entries"].([]interface{})
	if len(entries) != 1 {
		t.Fatalf("expected 1 effective entry for April, got %d", len(entries))
	}
	if entries[0].(map[string]interface{})["hours"].(float64) != 100 {
		t.Errorf("expected 100h effective in April, got %v", entries[0].(map[string]interface{})["hours"])
	}

	// From June the revision wins.
	rec = app.request("GET", "/api/v1/budgets/effective?year=2025&month=7", "", admin)
	entries = parseJSON(t, rec)["entries"].([]interface{})
	if len(entries) != 1 {
		t.Fatalf("expected 1 effective entry for July, got %d", len(entries))
	}
	if entries[0].(map[string]interface{})["hours"].(float64) != 150 {
		t.Errorf("expected 150h effective in July, got %v", entries[0].(map[string]interface{})["hours"])
	}

	// Aggregate April through July: 100+100+150+150.
	rec = app.request("GET", "/api/v1/budgets/aggregate?start_year=2025&start_month=4&end_year=2025&end_month=7", "", admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("aggregate failed: %d %s", rec.Code, rec.Body.String())
	}
	totals := parseJSON(t, rec)["totals"].(map[string]interface{})
	key := fmt.Sprintf("%d:%d", int(customerID), int(articleID))
	pair, ok := totals[key].(map[string]interface{})
	if !ok {
		t.Fatalf("expected totals for %s, got %v", key, totals)
	}
	if pair["hours"].(float64) != 500 {
		t.Errorf("expected 500 aggregated hours, got %v", pair["hours"])
	}
}

func TestBudgetFlow_DraftEditAndBulkDelete(t *testing.T) {
	app := setupApp(t)
	admin := app.registerAdmin(t)

	customerID := app.createCustomer(t, admin, "Nord AB", 0)
	articleID := app.createArticle(t, admin, "ordinarie", "Advisory", false)

	body := fmt.Sprintf(`{"customer_id":%d,"article_id":%d,"year":2025,"month":1,"hours":40,"amount":32000}`,
		int(customerID), int(articleID))
	rec := app.request("POST", "/api/v1/budgets", body, admin)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create draft failed: %d %s", rec.Code, rec.Body.String())
	}
	entryID := parseJSON(t, rec)["budget_entry"].(map[string]interface{})["id"].(float64)

	// Drafts are editable.
	rec = app.request("PUT", fmt.Sprintf("/api/v1/budgets/%d", int(entryID)), `{"hours":60}`, admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("update draft failed: %d %s", rec.Code, rec.Body.String())
	}
	if parseJSON(t, rec)["budget_entry"].(map[string]interface{})["hours"].(float64) != 60 {
		t.Error("expected updated hours 60")
	}

	// Bulk delete clears the customer's drafts for the month.
	rec = app.request("DELETE",
		fmt.Sprintf("/api/v1/budgets/drafts?customer_id=%d&year=2025&month=1", int(customerID)), "", admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("bulk delete failed: %d %s", rec.Code, rec.Body.String())
	}
	if parseJSON(t, rec)["deleted"].(float64) != 1 {
		t.Error("expected 1 deleted draft")
	}

	// Published entries reject edits.
	body = fmt.Sprintf(`{"customer_id":%d,"article_id":%d,"year":2025,"month":2,"hours":40,"amount":32000}`,
		int(customerID), int(articleID))
	app.request("POST", "/api/v1/budgets", body, admin)
	app.request("POST", "/api/v1/budgets/publish", `{"year":2025,"month":2}`, admin)

	rec = app.request("GET", "/api/v1/budgets?status=published", "", admin)
	published := parseJSON(t, rec)["data"].([]interface{})
	if len(published) != 1 {
		t.Fatalf("expected 1 published entry, got %d", len(published))
	}
	publishedID := published[0].(map[string]interface{})["id"].(float64)

	rec = app.request("PUT", fmt.Sprintf("/api/v1/budgets/%d", int(publishedID)), `{"hours":99}`, admin)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 editing published entry, got %d: %s", rec.Code, rec.Body.String())
	}
}
