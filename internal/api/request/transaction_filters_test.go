package request

import (
	"testing"
)

func TestParseTransactionFilters(t *testing.T) {
	t.Run("default values when no parameters provided", func(t *testing.T) {
		filter, err := ParseTransactionFilters("", "", "", "", "")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if filter.Limit != 100 {
			t.Errorf("Expected default Limit 100, got %d", filter.Limit)
		}
		if filter.Offset != 0 {
			t.Errorf("Expected default Offset 0, got %d", filter.Offset)
		}
		if filter.Type != "" || filter.Category != "" || filter.TransactionID != "" {
			t.Errorf("Expected empty text filters, got %+v", filter)
		}
	})

	t.Run("text filters are trimmed", func(t *testing.T) {
		filter, err := ParseTransactionFilters(" deposit ", "savings", "tx-1", "", "")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if filter.Type != "deposit" {
			t.Errorf("Expected Type 'deposit', got '%s'", filter.Type)
		}
		if filter.Category != "savings" || filter.TransactionID != "tx-1" {
			t.Errorf("Unexpected filter %+v", filter)
		}
	})

	t.Run("limit is capped", func(t *testing.T) {
		filter, err := ParseTransactionFilters("", "", "", "5000", "20")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if filter.Limit != 1000 {
			t.Errorf("Expected Limit 1000, got %d", filter.Limit)
		}
		if filter.Offset != 20 {
			t.Errorf("Expected Offset 20, got %d", filter.Offset)
		}
	})

	t.Run("invalid limit", func(t *testing.T) {
		for _, limit := range []string{"abc", "0", "-3"} {
			if _, err := ParseTransactionFilters("", "", "", limit, ""); err == nil {
				t.Errorf("Expected error for limit %q", limit)
			}
		}
	})

	t.Run("invalid offset", func(t *testing.T) {
		if _, err := ParseTransactionFilters("", "", "", "", "-1"); err == nil {
			t.Error("Expected error for negative offset")
		}
	})
}
