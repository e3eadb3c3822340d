package rates

import (
	"testing"

	"github.com/portfel-dev/portfel/internal/interfaces"
	"github.com/portfel-dev/portfel/internal/models"
)

func TestCache_PutGet(t *testing.T) {
	c := NewCache()

	if _, ok := c.Get("2024-03-01", "EUR"); ok {
		t.Fatal("empty cache should miss")
	}

	c.Put("2024-03-01", "EUR", 4.3)
	mid, ok := c.Get("2024-03-01", "EUR")
	if !ok || mid != 4.3 {
		t.Errorf("Get = (%v, %v), want (4.3, true)", mid, ok)
	}

	// Last write wins
	c.Put("2024-03-01", "EUR", 4.31)
	mid, _ = c.Get("2024-03-01", "EUR")
	if mid != 4.31 {
		t.Errorf("after overwrite Get = %v, want 4.31", mid)
	}
}

func TestCache_PutTableStoresAllCurrencies(t *testing.T) {
	c := NewCache()
	c.PutTable(models.RateTable{
		EffectiveDate: "2024-03-01",
		Rates: []models.TableRate{
			{Code: "USD", Mid: 3.98},
			{Code: "EUR", Mid: 4.30},
			{Code: "GBP", Mid: 5.03},
		},
	})

	for code, want := range map[string]float64{"USD": 3.98, "EUR": 4.30, "GBP": 5.03} {
		mid, ok := c.Get("2024-03-01", code)
		if !ok || mid != want {
			t.Errorf("Get(%s) = (%v, %v), want (%v, true)", code, mid, ok, want)
		}
	}
	if c.Len() != 3 {
		t.Errorf("Len = %d, want 3", c.Len())
	}
}

func TestCache_PeriodMarkersMatchExactBounds(t *testing.T) {
	c := NewCache()

	c.MarkPeriodLoaded("2024-01-01", "2024-03-31")
	if !c.IsPeriodLoaded("2024-01-01", "2024-03-31") {
		t.Error("exact bounds should match")
	}
	// Containment is not range-aware: slightly different bounds miss.
	if c.IsPeriodLoaded("2024-01-02", "2024-03-31") {
		t.Error("different start should not match")
	}
	if c.IsPeriodLoaded("2024-01-01", "2024-03-30") {
		t.Error("different end should not match")
	}
}

func TestCache_SnapshotRestore(t *testing.T) {
	c := NewCache()
	c.Put("2024-03-01", "EUR", 4.3)
	c.MarkPeriodLoaded("2023-12-01", "2024-03-01")

	snap := c.Snapshot()

	// Deep copy: mutating the snapshot must not touch the cache.
	snap.Rates["2024-03-01"]["EUR"] = 9.9
	if mid, _ := c.Get("2024-03-01", "EUR"); mid != 4.3 {
		t.Errorf("snapshot mutation leaked into cache: %v", mid)
	}

	restored := NewCache()
	restored.Restore(c.Snapshot())
	if mid, ok := restored.Get("2024-03-01", "EUR"); !ok || mid != 4.3 {
		t.Errorf("restored Get = (%v, %v), want (4.3, true)", mid, ok)
	}
	if !restored.IsPeriodLoaded("2023-12-01", "2024-03-01") {
		t.Error("restored cache lost period marker")
	}
}

func TestCache_RestoreDoesNotOverwriteExisting(t *testing.T) {
	c := NewCache()
	c.Put("2024-03-01", "EUR", 4.31)

	c.Restore(&interfaces.RateSnapshot{
		Rates: map[string]map[string]float64{
			"2024-03-01": {"EUR": 4.00, "USD": 3.98},
		},
	})

	if mid, _ := c.Get("2024-03-01", "EUR"); mid != 4.31 {
		t.Errorf("Restore overwrote fresh rate: %v", mid)
	}
	if mid, ok := c.Get("2024-03-01", "USD"); !ok || mid != 3.98 {
		t.Errorf("Restore dropped new rate: (%v, %v)", mid, ok)
	}
}
