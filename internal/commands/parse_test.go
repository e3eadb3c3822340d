package commands

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/portfel-dev/portfel/internal/models"
)

const statementCSV = "Action,Time,Total,Currency (Total),Notes,ID\r\n" +
	"Deposit,2024-03-01 09:10:11,100,EUR,Bank transfer,tx-1\r\n" +
	"Lending interest,2024-03-01 09:10:11,0.17,EUR,,tx-2\r\n" +
	"Withdrawal,2024-03-01 18:00:00,40,PLN,,tx-3\r\n"

func newRateServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tables := []models.RateTable{{
			Table:         "A",
			EffectiveDate: "2024-03-01",
			Rates:         []models.TableRate{{Code: "EUR", Mid: 4.3}},
		}}
		json.NewEncoder(w).Encode(tables)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeStatement(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCommand(t *testing.T, args ...string) *bytes.Buffer {
	t.Helper()
	root := NewRootCommand()
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		t.Fatalf("command failed: %v", err)
	}
	return buf
}

func TestParseCommand_EndToEnd(t *testing.T) {
	srv := newRateServer(t)
	t.Setenv("PORTFEL_NBP_BASE_URL", srv.URL)
	t.Setenv("PORTFEL_LOG_LEVEL", "error")

	path := writeStatement(t, "statement.csv", statementCSV)
	buf := runCommand(t, "parse", path)

	var out parseOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if len(out.Portfolio.Deposits) != 1 {
		t.Fatalf("expected 1 deposit, got %d", len(out.Portfolio.Deposits))
	}
	dep := out.Portfolio.Deposits[0]
	if math.Abs(dep.TotalPLN-430) > 1e-9 {
		t.Errorf("TotalPLN = %v, want 430", dep.TotalPLN)
	}
	if len(out.Portfolio.Withdrawals) != 1 || out.Portfolio.Withdrawals[0].TotalPLN != 40 {
		t.Errorf("unexpected withdrawals: %+v", out.Portfolio.Withdrawals)
	}
	if len(out.Reports) != 1 {
		t.Fatalf("expected 1 report, got %d", len(out.Reports))
	}
	if out.Reports[0].Unrecognized != 1 {
		t.Errorf("Unrecognized = %d, want 1 (Lending interest)", out.Reports[0].Unrecognized)
	}
}

func TestParseCommand_MergesMultipleFiles(t *testing.T) {
	srv := newRateServer(t)
	t.Setenv("PORTFEL_NBP_BASE_URL", srv.URL)
	t.Setenv("PORTFEL_LOG_LEVEL", "error")

	first := writeStatement(t, "2023.csv",
		"Action,Time,Total,Currency (Total),ID\nDeposit,2023-06-01 09:00:00,10,PLN,a\n")
	second := writeStatement(t, "2024.csv",
		"Action,Time,Total,Currency (Total),ID\nDeposit,2024-03-01 09:00:00,20,PLN,b\n")

	buf := runCommand(t, "parse", first, second)

	var out parseOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(out.Portfolio.Deposits) != 2 {
		t.Fatalf("expected 2 merged deposits, got %d", len(out.Portfolio.Deposits))
	}
	if out.Portfolio.Deposits[0].ID != "a" || out.Portfolio.Deposits[1].ID != "b" {
		t.Errorf("merge order broken: %+v", out.Portfolio.Deposits)
	}
	if len(out.Reports) != 2 {
		t.Errorf("expected 2 reports, got %d", len(out.Reports))
	}
}

func TestParseCommand_OfflineNeverFetches(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte("[]"))
	}))
	defer srv.Close()
	t.Setenv("PORTFEL_NBP_BASE_URL", srv.URL)
	t.Setenv("PORTFEL_LOG_LEVEL", "error")

	path := writeStatement(t, "statement.csv", statementCSV)
	buf := runCommand(t, "parse", "--offline", path)

	var out parseOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if calls != 0 {
		t.Errorf("offline parse hit the rate API %d times", calls)
	}
	dep := out.Portfolio.Deposits[0]
	if dep.TotalPLN != dep.Total {
		t.Errorf("offline TotalPLN = %v, want raw %v", dep.TotalPLN, dep.Total)
	}
}

func TestRateCommand_ResolvesRate(t *testing.T) {
	srv := newRateServer(t)
	t.Setenv("PORTFEL_NBP_BASE_URL", srv.URL)
	t.Setenv("PORTFEL_LOG_LEVEL", "error")

	buf := runCommand(t, "rate", "EUR", "2024-03-01")

	want := "1 EUR = 4.3000 PLN (2024-03-01)\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestRateCommand_RejectsBadDate(t *testing.T) {
	root := NewRootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"rate", "EUR", "March 1st"})
	if err := root.Execute(); err == nil {
		t.Fatal("expected error for malformed date")
	}
}
