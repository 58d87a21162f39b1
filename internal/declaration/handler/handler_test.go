package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"taxfill/internal/declaration/service"
	declarationstore "taxfill/internal/declaration/store/declaration"
	deductionstore "taxfill/internal/declaration/store/deduction"
	incomestore "taxfill/internal/declaration/store/income"
	id "taxfill/pkg/domain"
	"taxfill/pkg/requestcontext"
)

// newDeclarationRouter builds a router backed by the in-memory stores with the
// given user pre-authenticated, standing in for the JWT middleware.
func newDeclarationRouter(t *testing.T, userID id.UserID) chi.Router {
	t.Helper()

	store := declarationstore.NewInMemory(incomestore.NewInMemory(), deductionstore.NewInMemory())
	svc, err := service.New(store)
	if err != nil {
		t.Fatalf("failed to build service: %v", err)
	}
	h := New(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(requestcontext.WithUserID(r.Context(), userID)))
		})
	})
	h.Register(router)
	return router
}

func postJSON(t *testing.T, router chi.Router, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func putJSON(t *testing.T, router chi.Router, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPut, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeDeclaration(t *testing.T, rec *httptest.ResponseRecorder) DeclarationResponse {
	t.Helper()
	var resp DeclarationResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode declaration response: %v", err)
	}
	return resp
}

func TestAuthenticationRequired(t *testing.T) {
	router := newDeclarationRouter(t, id.UserID{})

	req := httptest.NewRequest(http.MethodGet, "/declarations", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without authenticated user, got %d", rec.Code)
	}
}

func TestCreateAndFetchDeclaration(t *testing.T) {
	userID := id.NewUserID()
	router := newDeclarationRouter(t, userID)

	rec := postJSON(t, router, "/declarations", map[string]any{
		"year":   2025,
		"status": "SUBMITTED",
		"incomes": []map[string]any{
			{"type": "SALARY", "description": "day job", "amount": 100000},
		},
		"deductions": []map[string]any{
			{"type": "EDUCATION", "description": "tuition", "amount": 60000},
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating declaration, got %d: %s", rec.Code, rec.Body.String())
	}
	created := decodeDeclaration(t, rec)
	if created.ID == "" {
		t.Fatal("expected declaration id in response")
	}
	if created.TaxDue != 6000 {
		t.Fatalf("expected computed tax_due 6000, got %v", created.TaxDue)
	}
	if created.TaxRefund != 54000 {
		t.Fatalf("expected computed tax_refund 54000, got %v", created.TaxRefund)
	}

	getReq := httptest.NewRequest(http.MethodGet, "/declarations/"+created.ID, nil)
	getRec := httptest.NewRecorder()
	router.ServeHTTP(getRec, getReq)
	if getRec.Code != http.StatusOK {
		t.Fatalf("expected 200 fetching declaration, got %d", getRec.Code)
	}
	fetched := decodeDeclaration(t, getRec)
	if len(fetched.Incomes) != 1 || len(fetched.Deductions) != 1 {
		t.Fatalf("expected 1 income and 1 deduction, got %d and %d",
			len(fetched.Incomes), len(fetched.Deductions))
	}
	if fetched.TotalIncome != 100000 {
		t.Fatalf("expected total_income 100000, got %v", fetched.TotalIncome)
	}
}

func TestCreateRejectsBadPayloads(t *testing.T) {
	router := newDeclarationRouter(t, id.NewUserID())

	cases := []struct {
		name    string
		payload map[string]any
	}{
		{"missing year", map[string]any{"status": "DRAFT"}},
		{"unknown status", map[string]any{"year": 2025, "status": "PENDING"}},
		{"negative amount", map[string]any{
			"year":    2025,
			"status":  "DRAFT",
			"incomes": []map[string]any{{"type": "SALARY", "amount": -1}},
		}},
		{"unknown income type", map[string]any{
			"year":    2025,
			"status":  "DRAFT",
			"incomes": []map[string]any{{"type": "GAMBLING", "amount": 10}},
		}},
		{"submitted without deductions", map[string]any{
			"year":    2025,
			"status":  "SUBMITTED",
			"incomes": []map[string]any{{"type": "SALARY", "amount": 10}},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postJSON(t, router, "/declarations", tc.payload)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestDuplicateSubmissionReturnsConflict(t *testing.T) {
	router := newDeclarationRouter(t, id.NewUserID())

	payload := map[string]any{
		"year":       2025,
		"status":     "SUBMITTED",
		"incomes":    []map[string]any{{"type": "SALARY", "amount": 1000}},
		"deductions": []map[string]any{{"type": "HEALTH", "amount": 100}},
	}
	if rec := postJSON(t, router, "/declarations", payload); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 on first submission, got %d", rec.Code)
	}
	if rec := postJSON(t, router, "/declarations", payload); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on second submission, got %d", rec.Code)
	}
}

func TestUpdateDeclarationViaHandler(t *testing.T) {
	router := newDeclarationRouter(t, id.NewUserID())

	rec := postJSON(t, router, "/declarations", map[string]any{
		"year":    2025,
		"status":  "DRAFT",
		"incomes": []map[string]any{{"type": "SALARY", "amount": 1000}},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating draft, got %d", rec.Code)
	}
	created := decodeDeclaration(t, rec)

	updateRec := putJSON(t, router, "/declarations/"+created.ID, map[string]any{
		"year":   2025,
		"status": "SUBMITTED",
		"incomes": []map[string]any{
			{"id": created.Incomes[0].ID, "type": "SALARY", "amount": 1000},
		},
		"deductions": []map[string]any{{"type": "HEALTH", "amount": 100}},
	})
	if updateRec.Code != http.StatusOK {
		t.Fatalf("expected 200 updating declaration, got %d: %s", updateRec.Code, updateRec.Body.String())
	}
	updated := decodeDeclaration(t, updateRec)
	if updated.Status != "SUBMITTED" {
		t.Fatalf("expected status SUBMITTED, got %s", updated.Status)
	}
	if updated.TaxDue != 90 {
		t.Fatalf("expected recomputed tax_due 90, got %v", updated.TaxDue)
	}
	if updated.Incomes[0].ID != created.Incomes[0].ID {
		t.Fatal("expected income identity to survive the update")
	}
}

func TestUpdateUnknownDeclarationReturns404(t *testing.T) {
	router := newDeclarationRouter(t, id.NewUserID())

	rec := putJSON(t, router, "/declarations/"+id.NewDeclarationID().String(), map[string]any{
		"year":   2025,
		"status": "DRAFT",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown declaration, got %d", rec.Code)
	}
}

func TestUpdateChangesDraftYear(t *testing.T) {
	router := newDeclarationRouter(t, id.NewUserID())

	rec := postJSON(t, router, "/declarations", map[string]any{
		"year":   2024,
		"status": "DRAFT",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating draft, got %d", rec.Code)
	}
	created := decodeDeclaration(t, rec)

	updateRec := putJSON(t, router, "/declarations/"+created.ID, map[string]any{
		"year":   2026,
		"status": "DRAFT",
	})
	if updateRec.Code != http.StatusOK {
		t.Fatalf("expected 200 moving draft year, got %d: %s", updateRec.Code, updateRec.Body.String())
	}
	if updated := decodeDeclaration(t, updateRec); updated.Year != 2026 {
		t.Fatalf("expected year 2026 after update, got %d", updated.Year)
	}

	missingYear := putJSON(t, router, "/declarations/"+created.ID, map[string]any{
		"status": "DRAFT",
	})
	if missingYear.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without year, got %d", missingYear.Code)
	}
}

func TestListDeclarationsFiltered(t *testing.T) {
	router := newDeclarationRouter(t, id.NewUserID())

	for _, year := range []int{2024, 2025} {
		rec := postJSON(t, router, "/declarations", map[string]any{
			"year":   year,
			"status": "DRAFT",
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201 creating draft for %d, got %d", year, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/declarations?year=2025", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 listing declarations, got %d", rec.Code)
	}
	var declarations []DeclarationResponse
	if err := json.NewDecoder(rec.Body).Decode(&declarations); err != nil {
		t.Fatalf("failed to decode list response: %v", err)
	}
	if len(declarations) != 1 || declarations[0].Year != 2025 {
		t.Fatalf("expected exactly the 2025 declaration, got %+v", declarations)
	}
}
