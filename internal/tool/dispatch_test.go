package tool

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/gamedex-io/gamedex/internal/catalog"
	"github.com/gamedex-io/gamedex/pkg/protocol"
)

// stubStore is an in-memory catalog.Store for dispatcher tests.
type stubStore struct {
	products  []protocol.ProductRecord
	created   *protocol.ProductRecord
	createErr error
	listErr   error

	lastName     string
	lastCategory string
	lastPlatform string
	lastPrice    float64
	lastFeatured bool
}

func (s *stubStore) ListAll() ([]protocol.ProductRecord, error) {
	return s.products, s.listErr
}

func (s *stubStore) FindByNameSubstring(string) ([]protocol.ProductRecord, error) {
	return s.products, s.listErr
}

func (s *stubStore) FindByCategory(string) ([]protocol.ProductRecord, error) {
	return s.products, s.listErr
}

func (s *stubStore) FindByPlatform(string) ([]protocol.ProductRecord, error) {
	return s.products, s.listErr
}

func (s *stubStore) FindByPriceRange(float64, float64) ([]protocol.ProductRecord, error) {
	return s.products, s.listErr
}

func (s *stubStore) Create(name, category string, price float64, platform string, featured bool) (*protocol.ProductRecord, error) {
	s.lastName = name
	s.lastCategory = category
	s.lastPrice = price
	s.lastPlatform = platform
	s.lastFeatured = featured
	return s.created, s.createErr
}

func (s *stubStore) ListFeatured() ([]protocol.ProductRecord, error) {
	return s.products, s.listErr
}

func (s *stubStore) FindSimilar(string) ([]protocol.ProductRecord, error) {
	return s.products, s.listErr
}

func newTestDispatcher(t *testing.T, store catalog.Store) *Dispatcher {
	t.Helper()
	reg := NewRegistry()
	if err := RegisterCatalogTools(reg, store); err != nil {
		t.Fatalf("register tools: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewDispatcher(reg, logger)
}

func TestDispatcher_UnknownTool(t *testing.T) {
	d := newTestDispatcher(t, &stubStore{})
	res := d.Invoke(context.Background(), "frobnicate", nil)
	if res.OK {
		t.Fatal("expected failure for unknown tool")
	}
	want := "tool 'frobnicate' not found"
	if res.Error != want {
		t.Errorf("expected %q, got %q", want, res.Error)
	}
}

func TestDispatcher_ZeroArgTool(t *testing.T) {
	store := &stubStore{products: []protocol.ProductRecord{{ID: 1, Name: "Hades"}}}
	d := newTestDispatcher(t, store)

	for _, args := range []map[string]any{nil, {}} {
		res := d.Invoke(context.Background(), "list_products", args)
		if !res.OK {
			t.Fatalf("args %v: unexpected failure: %s", args, res.Error)
		}
		got, ok := res.Result.([]protocol.ProductRecord)
		if !ok {
			t.Fatalf("args %v: unexpected result type %T", args, res.Result)
		}
		if len(got) != 1 || got[0].Name != "Hades" {
			t.Errorf("args %v: unexpected result %v", args, got)
		}
	}
}

func TestDispatcher_RejectsUnknownKeys(t *testing.T) {
	d := newTestDispatcher(t, &stubStore{})
	res := d.Invoke(context.Background(), "list_products", map[string]any{"foo": 1})
	if res.OK {
		t.Fatal("expected failure for unexpected argument")
	}
	want := `invalid arguments for tool 'list_products': unexpected argument "foo"`
	if res.Error != want {
		t.Errorf("expected %q, got %q", want, res.Error)
	}
}

func TestDispatcher_MissingArgument(t *testing.T) {
	d := newTestDispatcher(t, &stubStore{})
	res := d.Invoke(context.Background(), "find_product", map[string]any{})
	if res.OK {
		t.Fatal("expected failure for missing argument")
	}
	want := `invalid arguments for tool 'find_product': missing required argument "name"`
	if res.Error != want {
		t.Errorf("expected %q, got %q", want, res.Error)
	}
}

func TestDispatcher_ValidationPassthrough(t *testing.T) {
	store := &stubStore{createErr: &catalog.ValidationError{Reason: "product name is required"}}
	d := newTestDispatcher(t, store)

	res := d.Invoke(context.Background(), "add_product", map[string]any{
		"name":     "x",
		"category": "Indie",
		"price":    1.0,
		"platform": "PC",
	})
	if res.OK {
		t.Fatal("expected failure")
	}
	if res.Error != "product name is required" {
		t.Errorf("expected store message verbatim, got %q", res.Error)
	}
}

func TestDispatcher_InternalError(t *testing.T) {
	store := &stubStore{listErr: errors.New("boom")}
	d := newTestDispatcher(t, store)

	res := d.Invoke(context.Background(), "list_products", nil)
	if res.OK {
		t.Fatal("expected failure")
	}
	want := "internal error while executing tool 'list_products': boom"
	if res.Error != want {
		t.Errorf("expected %q, got %q", want, res.Error)
	}
}

func TestDispatcher_AddProductFeaturedDefault(t *testing.T) {
	store := &stubStore{created: &protocol.ProductRecord{ID: 7, Name: "Celeste"}}
	d := newTestDispatcher(t, store)

	res := d.Invoke(context.Background(), "add_product", map[string]any{
		"name":     "Celeste",
		"category": "Indie",
		"price":    19.99,
		"platform": "PC",
	})
	if !res.OK {
		t.Fatalf("unexpected failure: %s", res.Error)
	}
	if store.lastFeatured {
		t.Error("expected is_featured to default to false")
	}

	res = d.Invoke(context.Background(), "add_product", map[string]any{
		"name":        "Celeste",
		"category":    "Indie",
		"price":       19.99,
		"platform":    "PC",
		"is_featured": 1.0,
	})
	if !res.OK {
		t.Fatalf("unexpected failure: %s", res.Error)
	}
	if !store.lastFeatured {
		t.Error("expected is_featured=1 to set the flag")
	}
}

func TestDispatcher_CalculateBypassesRegistry(t *testing.T) {
	// An empty registry proves calculate is resolved before lookup.
	d := NewDispatcher(NewRegistry(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	res := d.Invoke(context.Background(), "calculate", map[string]any{"expression": "2 + 3"})
	if !res.OK {
		t.Fatalf("unexpected failure: %s", res.Error)
	}
	if res.Result != int64(5) {
		t.Errorf("expected int64 5, got %v (%T)", res.Result, res.Result)
	}
}

func TestDispatcher_CalculateMissingExpression(t *testing.T) {
	d := newTestDispatcher(t, &stubStore{})
	res := d.Invoke(context.Background(), "calculate", nil)
	if res.OK {
		t.Fatal("expected failure")
	}
	if res.Error != "no expression given" {
		t.Errorf("expected evaluator message, got %q", res.Error)
	}
}
