package nbp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/portfel-dev/portfel/internal/models"
)

func TestGetRateTables_ParsesResponse(t *testing.T) {
	mockResp := []models.RateTable{
		{
			Table:         "A",
			No:            "043/A/NBP/2024",
			EffectiveDate: "2024-02-29",
			Rates: []models.TableRate{
				{Currency: "dolar amerykański", Code: "USD", Mid: 3.9803},
				{Currency: "euro", Code: "EUR", Mid: 4.3121},
			},
		},
		{
			Table:         "A",
			No:            "044/A/NBP/2024",
			EffectiveDate: "2024-03-01",
			Rates: []models.TableRate{
				{Currency: "euro", Code: "EUR", Mid: 4.3},
			},
		},
	}

	var capturedPath, capturedQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		capturedQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(mockResp)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	tables, err := client.GetRateTables(context.Background(), "2024-02-28", "2024-03-01")
	if err != nil {
		t.Fatalf("GetRateTables failed: %v", err)
	}

	if capturedPath != "/exchangerates/tables/a/2024-02-28/2024-03-01/" {
		t.Errorf("unexpected path %s", capturedPath)
	}
	if capturedQuery != "format=json" {
		t.Errorf("expected query format=json, got %s", capturedQuery)
	}
	if len(tables) != 2 {
		t.Fatalf("expected 2 tables, got %d", len(tables))
	}
	if tables[0].EffectiveDate != "2024-02-29" {
		t.Errorf("expected effective date 2024-02-29, got %s", tables[0].EffectiveDate)
	}
	if tables[0].Rates[0].Code != "USD" || tables[0].Rates[0].Mid != 3.9803 {
		t.Errorf("unexpected first rate: %+v", tables[0].Rates[0])
	}
	if tables[1].Rates[0].Code != "EUR" || tables[1].Rates[0].Mid != 4.3 {
		t.Errorf("unexpected second table rate: %+v", tables[1].Rates[0])
	}
}

func TestGetRateTables_UsesConfiguredTable(t *testing.T) {
	var capturedPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL), WithTable("b"))
	if _, err := client.GetRateTables(context.Background(), "2024-01-01", "2024-01-31"); err != nil {
		t.Fatalf("GetRateTables failed: %v", err)
	}
	if capturedPath != "/exchangerates/tables/b/2024-01-01/2024-01-31/" {
		t.Errorf("unexpected path %s", capturedPath)
	}
}

func TestGetRateTables_NotFoundReturnsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// NBP answers 404 when no table was published in the range
		http.Error(w, "404 NotFound", http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	tables, err := client.GetRateTables(context.Background(), "2024-03-02", "2024-03-03")
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if tables != nil {
		t.Errorf("expected nil tables, got %v", tables)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", apiErr.StatusCode)
	}
}

func TestGetRateTables_MalformedBodyReturnsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	if _, err := client.GetRateTables(context.Background(), "2024-01-01", "2024-01-31"); err == nil {
		t.Fatal("expected decode error")
	}
}
