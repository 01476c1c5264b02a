package snipeit_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/oakvale-college/lifecycle-service/internal/adapters/snipeit"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *snipeit.Client) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server, snipeit.NewClient(server.URL, "test-api-key")
}

func TestClient_FetchPage(t *testing.T) {
	var gotAuth, gotPath string
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.String()
		_ = json.NewEncoder(w).Encode(map[string]any{
			"total": 2,
			"rows": []map[string]any{
				{"id": 1, "name": "MacBook Air", "asset_tag": "OAK-0001", "status_id": 1},
				{"id": 2, "name": "ThinkPad T14", "asset_tag": "OAK-0002", "status_id": 2},
			},
		})
	})

	assets, total, err := client.FetchPage(context.Background(), 50, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer test-api-key" {
		t.Errorf("authorization header = %q", gotAuth)
	}
	if gotPath != "/api/v1/hardware?limit=50&offset=0" {
		t.Errorf("path = %q", gotPath)
	}
	if total != 2 || len(assets) != 2 {
		t.Fatalf("got %d assets (total %d)", len(assets), total)
	}
	if !assets[0].Available {
		t.Errorf("status_id 1 should mark the asset available")
	}
	if assets[1].Available {
		t.Errorf("status_id 2 should not mark the asset available")
	}
}

func TestClient_FetchByID_NotFound(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	asset, err := client.FetchByID(context.Background(), 999)
	if err != nil {
		t.Fatalf("a 404 must map to nil, nil: %v", err)
	}
	if asset != nil {
		t.Errorf("expected nil asset, got %+v", asset)
	}
}

func TestClient_RepeatedNotFoundKeepsBreakerClosed(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/hardware/42" {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id": 42, "name": "iPad", "asset_tag": "OAK-0042", "status_id": 1,
			})
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	// Enough consecutive misses to trip the breaker if a 404 counted
	// as a failure.
	for i := 0; i < 5; i++ {
		asset, err := client.FetchByTag(context.Background(), "missing-tag")
		if err != nil {
			t.Fatalf("lookup %d: a 404 must map to nil, nil: %v", i, err)
		}
		if asset != nil {
			t.Fatalf("lookup %d: expected nil asset, got %+v", i, asset)
		}
	}

	asset, err := client.FetchByID(context.Background(), 42)
	if err != nil {
		t.Fatalf("breaker should still be closed after misses: %v", err)
	}
	if asset == nil || asset.ID != 42 {
		t.Fatalf("asset 42 not returned: %+v", asset)
	}
}

func TestClient_FetchByTag(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/hardware/bytag/OAK-0042" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": 42, "name": "iPad", "asset_tag": "OAK-0042", "status_id": 1,
		})
	})

	asset, err := client.FetchByTag(context.Background(), "OAK-0042")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if asset == nil || asset.ID != 42 {
		t.Fatalf("asset 42 not returned: %+v", asset)
	}
}

func TestClient_Checkout(t *testing.T) {
	var gotBody map[string]any
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/hardware/7/checkout" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "success"})
	})

	if err := client.Checkout(context.Background(), 7, "p-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotBody["checkout_to_type"] != "user" || gotBody["assigned_user"] != "p-1" {
		t.Errorf("checkout payload = %v", gotBody)
	}
}

func TestClient_Checkout_Rejected(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":   "error",
			"messages": "Asset is not available for checkout",
		})
	})

	if err := client.Checkout(context.Background(), 7, "p-1"); err == nil {
		t.Fatal("expected error for rejected checkout")
	}
}

func TestClient_Checkin_ServerError(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	if err := client.Checkin(context.Background(), 7); err == nil {
		t.Fatal("expected error on 500")
	}
}
