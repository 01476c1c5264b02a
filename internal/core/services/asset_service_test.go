package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oakvale-college/lifecycle-service/internal/core/domain"
	"github.com/oakvale-college/lifecycle-service/internal/core/services"
	"github.com/oakvale-college/lifecycle-service/test/mocks"
)

func TestAssetService_List_CacheHitSkipsGateway(t *testing.T) {
	gateway := mocks.NewMockAssetGateway()
	cache := mocks.NewMockAssetCache()
	service := services.NewAssetService(gateway, cache, mocks.NewMockAssignmentRepository())

	cached := []domain.Asset{{ID: 1, AssetTag: "OAK-0001"}}
	cache.PutPage(context.Background(), 1, 20, cached, 1)

	assets, total, err := service.List(context.Background(), 1, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(assets) != 1 {
		t.Errorf("got %d assets (total %d), want 1", len(assets), total)
	}
	if gateway.FetchPageCalls != 0 {
		t.Errorf("gateway should not be hit on a cache hit")
	}
}

func TestAssetService_List_MissFillsCache(t *testing.T) {
	gateway := mocks.NewMockAssetGateway()
	cache := mocks.NewMockAssetCache()
	service := services.NewAssetService(gateway, cache, mocks.NewMockAssignmentRepository())

	gateway.SeedAsset(domain.Asset{ID: 1, AssetTag: "OAK-0001"})
	gateway.SeedAsset(domain.Asset{ID: 2, AssetTag: "OAK-0002"})

	assets, total, err := service.List(context.Background(), 1, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 || len(assets) != 2 {
		t.Errorf("got %d assets (total %d), want 2", len(assets), total)
	}
	if cache.PutPageCalls != 1 {
		t.Errorf("page should be cached after a miss")
	}
}

func TestAssetService_List_GatewayFailureDegradesToEmpty(t *testing.T) {
	gateway := mocks.NewMockAssetGateway()
	gateway.FetchPageError = errors.New("snipe-it unreachable")
	service := services.NewAssetService(gateway, mocks.NewMockAssetCache(), mocks.NewMockAssignmentRepository())

	assets, total, err := service.List(context.Background(), 1, 20)
	if err != nil {
		t.Fatalf("outage must degrade, not fail: %v", err)
	}
	if len(assets) != 0 || total != 0 {
		t.Errorf("expected empty result, got %d assets", len(assets))
	}
}

func TestAssetService_Get(t *testing.T) {
	gateway := mocks.NewMockAssetGateway()
	cache := mocks.NewMockAssetCache()
	service := services.NewAssetService(gateway, cache, mocks.NewMockAssignmentRepository())

	gateway.SeedAsset(domain.Asset{ID: 42, AssetTag: "OAK-0042"})

	asset, err := service.Get(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if asset == nil || asset.ID != 42 {
		t.Fatalf("asset 42 not returned")
	}

	// Second read is served from the cache.
	if _, err := service.Get(context.Background(), 42); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gateway.FetchByIDCalls) != 1 {
		t.Errorf("expected one gateway lookup, got %d", len(gateway.FetchByIDCalls))
	}

	// Unknown assets come back nil without error.
	missing, err := service.Get(context.Background(), 999)
	if err != nil || missing != nil {
		t.Errorf("expected nil, nil for unknown asset, got %v, %v", missing, err)
	}
}

func TestAssetService_PersonAssets(t *testing.T) {
	gateway := mocks.NewMockAssetGateway()
	assignments := mocks.NewMockAssignmentRepository()
	service := services.NewAssetService(gateway, mocks.NewMockAssetCache(), assignments)

	returned := time.Now().UTC()
	gateway.SeedAsset(domain.Asset{ID: 1, AssetTag: "OAK-0001"})
	gateway.SeedAsset(domain.Asset{ID: 2, AssetTag: "OAK-0002"})
	assignments.SeedAssignment(domain.AssetAssignment{ID: "a-1", PersonID: "p-1", AssetID: 1, AssetTag: "OAK-0001"})
	assignments.SeedAssignment(domain.AssetAssignment{ID: "a-2", PersonID: "p-1", AssetID: 2, AssetTag: "OAK-0002", ReturnedAt: &returned})
	assignments.SeedAssignment(domain.AssetAssignment{ID: "a-3", PersonID: "p-2", AssetID: 3, AssetTag: "OAK-0003"})

	assets, err := service.PersonAssets(context.Background(), "p-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(assets) != 1 || assets[0].ID != 1 {
		t.Fatalf("expected only the outstanding asset 1, got %v", assets)
	}
}

func TestAssetService_PersonAssets_PartialGatewayFailure(t *testing.T) {
	gateway := mocks.NewMockAssetGateway()
	assignments := mocks.NewMockAssignmentRepository()
	service := services.NewAssetService(gateway, mocks.NewMockAssetCache(), assignments)

	gateway.FetchByIDError = errors.New("snipe-it unreachable")
	assignments.SeedAssignment(domain.AssetAssignment{ID: "a-1", PersonID: "p-1", AssetID: 1, AssetTag: "OAK-0001"})

	assets, err := service.PersonAssets(context.Background(), "p-1")
	if err != nil {
		t.Fatalf("lookup failures must not abort the fan-out: %v", err)
	}
	if len(assets) != 0 {
		t.Errorf("expected empty result, got %v", assets)
	}
}

func TestAssetService_Sync(t *testing.T) {
	gateway := mocks.NewMockAssetGateway()
	cache := mocks.NewMockAssetCache()
	service := services.NewAssetService(gateway, cache, mocks.NewMockAssignmentRepository())

	for i := 1; i <= 7; i++ {
		gateway.SeedAsset(domain.Asset{ID: i})
	}

	synced, err := service.Sync(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if synced != 7 {
		t.Errorf("synced = %d, want 7", synced)
	}
	if cache.PutAssetCalls != 7 {
		t.Errorf("expected 7 cache writes, got %d", cache.PutAssetCalls)
	}
}
