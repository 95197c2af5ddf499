package integration

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestInvoiceFlow_DraftToPaid(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "invoice@test.com", "password123")

	clientID := app.createClient(t, token, "Acme Corp", "billing@acme.com")
	projectID := app.createProject(t, token, clientID, 100000)

	// Create an invoice for $500 with 10% tax
	dueDate := time.Now().UTC().AddDate(0, 1, 0).Format(time.RFC3339)
	rec := app.request("POST", "/api/v1/invoices",
		fmt.Sprintf(`{"client_id":%.0f,"project_id":%.0f,"due_date":%q,"amount":50000,"tax_rate":10}`,
			clientID, projectID, dueDate), token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	invoice := parseJSON(t, rec)["invoice"].(map[string]interface{})
	invoiceID := invoice["id"].(float64)

	number := invoice["invoice_number"].(string)
	expectedPrefix := "INV-" + time.Now().UTC().Format("200601") + "-"
	if !strings.HasPrefix(number, expectedPrefix) {
		t.Errorf("expected invoice number prefixed %q, got %q", expectedPrefix, number)
	}
	if invoice["status"] != "draft" {
		t.Errorf("expected draft status, got %v", invoice["status"])
	}
	if invoice["tax_amount"].(float64) != 5000 {
		t.Errorf("expected tax amount 5000, got %v", invoice["tax_amount"])
	}

	// Send it
	rec = app.request("POST", fmt.Sprintf("/api/v1/invoices/%.0f/mark-sent", invoiceID), "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("mark-sent failed: %d %s", rec.Code, rec.Body.String())
	}
	if parseJSON(t, rec)["invoice"].(map[string]interface{})["status"] != "sent" {
		t.Error("expected sent status after mark-sent")
	}

	// Settle it in full; the matching income record comes back alongside
	rec = app.request("POST", fmt.Sprintf("/api/v1/invoices/%.0f/mark-paid", invoiceID),
		`{"payment_method":"cheque"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("mark-paid failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	paid := result["invoice"].(map[string]interface{})
	if paid["status"] != "paid" {
		t.Errorf("expected paid status, got %v", paid["status"])
	}
	if paid["paid_amount"].(float64) != 55000 {
		t.Errorf("expected paid amount 55000 (amount plus tax), got %v", paid["paid_amount"])
	}
	income := result["income"].(map[string]interface{})
	if income["income_type"] != "project_payment" {
		t.Errorf("expected project_payment income, got %v", income["income_type"])
	}
	if income["status"] != "received" {
		t.Errorf("expected received income, got %v", income["status"])
	}
	if income["payment_method"] != "cheque" {
		t.Errorf("expected cheque payment method, got %v", income["payment_method"])
	}

	// The income is queryable on its own
	rec = app.request("GET", "/api/v1/incomes", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("list incomes failed: %d %s", rec.Code, rec.Body.String())
	}
	incomes := parseJSON(t, rec)["data"].([]interface{})
	if len(incomes) != 1 {
		t.Fatalf("expected exactly 1 income after settlement, got %d", len(incomes))
	}

	// Settling twice is rejected
	rec = app.request("POST", fmt.Sprintf("/api/v1/invoices/%.0f/mark-paid", invoiceID), "", token)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on second mark-paid, got %d: %s", rec.Code, rec.Body.String())
	}
	errObj := parseJSON(t, rec)["error"].(map[string]interface{})
	if errObj["code"] != "INVOICE_ALREADY_PAID" {
		t.Errorf("expected INVOICE_ALREADY_PAID, got %v", errObj["code"])
	}

	// And no second income appeared
	rec = app.request("GET", "/api/v1/incomes", "", token)
	incomes = parseJSON(t, rec)["data"].([]interface{})
	if len(incomes) != 1 {
		t.Errorf("expected still 1 income after rejected double settlement, got %d", len(incomes))
	}
}

func TestInvoiceFlow_PartialPayments(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "partial@test.com", "password123")

	clientID := app.createClient(t, token, "Globex", "ap@globex.com")
	projectID := app.createProject(t, token, clientID, 100000)

	dueDate := time.Now().UTC().AddDate(0, 1, 0).Format(time.RFC3339)
	rec := app.request("POST", "/api/v1/invoices",
		fmt.Sprintf(`{"client_id":%.0f,"project_id":%.0f,"due_date":%q,"amount":50000}`,
			clientID, projectID, dueDate), token)
	invoice := parseJSON(t, rec)["invoice"].(map[string]interface{})
	invoiceID := invoice["id"].(float64)

	app.request("POST", fmt.Sprintf("/api/v1/invoices/%.0f/mark-sent", invoiceID), "", token)

	// First payment covers part of the balance
	rec = app.request("POST", fmt.Sprintf("/api/v1/invoices/%.0f/payments", invoiceID),
		`{"amount":20000,"payment_reference":"TXN-001"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	updated := parseJSON(t, rec)["invoice"].(map[string]interface{})
	if updated["status"] != "partially_paid" {
		t.Errorf("expected partially_paid, got %v", updated["status"])
	}
	if updated["paid_amount"].(float64) != 20000 {
		t.Errorf("expected paid amount 20000, got %v", updated["paid_amount"])
	}

	// Second payment covers the rest and flips the invoice to paid
	rec = app.request("POST", fmt.Sprintf("/api/v1/invoices/%.0f/payments", invoiceID),
		`{"amount":30000}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	updated = parseJSON(t, rec)["invoice"].(map[string]interface{})
	if updated["status"] != "paid" {
		t.Errorf("expected paid after covering balance, got %v", updated["status"])
	}

	// Partial payments never create income records
	rec = app.request("GET", "/api/v1/incomes", "", token)
	incomes := parseJSON(t, rec)["data"].([]interface{})
	if len(incomes) != 0 {
		t.Errorf("expected no incomes from partial payments, got %d", len(incomes))
	}
}

func TestInvoiceFlow_CancelAndTerminalState(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "cancel@test.com", "password123")

	clientID := app.createClient(t, token, "Initech", "ap@initech.com")
	projectID := app.createProject(t, token, clientID, 50000)

	dueDate := time.Now().UTC().AddDate(0, 1, 0).Format(time.RFC3339)
	rec := app.request("POST", "/api/v1/invoices",
		fmt.Sprintf(`{"client_id":%.0f,"project_id":%.0f,"due_date":%q,"amount":10000}`,
			clientID, projectID, dueDate), token)
	invoiceID := parseJSON(t, rec)["invoice"].(map[string]interface{})["id"].(float64)

	rec = app.request("POST", fmt.Sprintf("/api/v1/invoices/%.0f/cancel", invoiceID), "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel failed: %d %s", rec.Code, rec.Body.String())
	}
	if parseJSON(t, rec)["invoice"].(map[string]interface{})["status"] != "cancelled" {
		t.Error("expected cancelled status")
	}

	// A cancelled invoice cannot be settled
	rec = app.request("POST", fmt.Sprintf("/api/v1/invoices/%.0f/mark-paid", invoiceID), "", token)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 settling a cancelled invoice, got %d", rec.Code)
	}
	errObj := parseJSON(t, rec)["error"].(map[string]interface{})
	if errObj["code"] != "INVALID_STATUS_TRANSITION" {
		t.Errorf("expected INVALID_STATUS_TRANSITION, got %v", errObj["code"])
	}
}

func TestInvoiceFlow_RejectsPastDueDate(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "pastdue@test.com", "password123")

	clientID := app.createClient(t, token, "Umbrella", "ap@umbrella.com")
	projectID := app.createProject(t, token, clientID, 50000)

	dueDate := time.Now().UTC().AddDate(0, 0, -7).Format(time.RFC3339)
	rec := app.request("POST", "/api/v1/invoices",
		fmt.Sprintf(`{"client_id":%.0f,"project_id":%.0f,"due_date":%q,"amount":10000}`,
			clientID, projectID, dueDate), token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for past due date, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestInvoiceFlow_SequentialNumbering(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "seq@test.com", "password123")

	clientID := app.createClient(t, token, "Stark", "ap@stark.com")
	projectID := app.createProject(t, token, clientID, 100000)

	dueDate := time.Now().UTC().AddDate(0, 1, 0).Format(time.RFC3339)
	prefix := "INV-" + time.Now().UTC().Format("200601") + "-"
	for i, want := range []string{"0001", "0002", "0003"} {
		rec := app.request("POST", "/api/v1/invoices",
			fmt.Sprintf(`{"client_id":%.0f,"project_id":%.0f,"due_date":%q,"amount":10000}`,
				clientID, projectID, dueDate), token)
		if rec.Code != http.StatusCreated {
			t.Fatalf("invoice %d: expected 201, got %d: %s", i+1, rec.Code, rec.Body.String())
		}
		number := parseJSON(t, rec)["invoice"].(map[string]interface{})["invoice_number"].(string)
		if number != prefix+want {
			t.Errorf("invoice %d: expected %s, got %s", i+1, prefix+want, number)
		}
	}
}
