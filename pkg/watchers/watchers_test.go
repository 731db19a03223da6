package watchers

import (
	"os"
	"path/filepath"
	"testing"
)

func writeWatchersFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write watchers file: %v", err)
	}
	return path
}

func TestLoadRegistryYAML(t *testing.T) {
	path := writeWatchersFile(t, "watchers.yaml", `
watches:
  - id: recent-orders
    name: Recent Orders
    type: orders
    limit: 25
    config:
      status: paid
  - id: catalog-products
    name: Catalog Products
    type: products
`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}

	watches := reg.All()
	if len(watches) != 2 {
		t.Fatalf("expected 2 watches, got %d", len(watches))
	}

	w, ok := reg.ByID("recent-orders")
	if !ok {
		t.Fatalf("expected watch id recent-orders to be loaded")
	}
	if w.Type != WatchTypeOrders {
		t.Errorf("type = %q, want %q", w.Type, WatchTypeOrders)
	}
	if w.Limit != 25 {
		t.Errorf("limit = %d, want 25", w.Limit)
	}
	if got := ConfigString(w, ConfigStatusKey, ""); got != "paid" {
		t.Errorf("config status = %q, want paid", got)
	}

	// Omitted limit falls back to the default page size.
	p, ok := reg.ByID("catalog-products")
	if !ok {
		t.Fatalf("expected watch id catalog-products to be loaded")
	}
	if p.Limit != defaultWatchLimit {
		t.Errorf("limit = %d, want default %d", p.Limit, defaultWatchLimit)
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	path := writeWatchersFile(t, "watchers.json", `
{"watches": [{"id": "recent-orders", "name": "Recent Orders", "type": "orders"}]}
`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if len(reg.All()) != 1 {
		t.Fatalf("expected 1 watch, got %d", len(reg.All()))
	}
}

func TestLoadRegistryDuplicateID(t *testing.T) {
	path := writeWatchersFile(t, "watchers.yaml", `
watches:
  - id: duplicate
    name: Watch One
    type: orders
  - id: duplicate
    name: Watch Two
    type: products
`)

	if _, err := LoadRegistry(path); err == nil {
		t.Fatalf("expected duplicate watch error, got nil")
	}
}

func TestLoadRegistryValidation(t *testing.T) {
	missingName := writeWatchersFile(t, "watchers.yaml", `
watches:
  - id: w1
    type: orders
`)
	if _, err := LoadRegistry(missingName); err == nil {
		t.Error("missing name: expected error")
	}

	hugeLimit := writeWatchersFile(t, "watchers.yml", `
watches:
  - id: w1
    name: Watch One
    type: orders
    limit: 100000
`)
	if _, err := LoadRegistry(hugeLimit); err == nil {
		t.Error("limit above maximum: expected error")
	}
}
