package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/oakvale-college/lifecycle-service/internal/core/domain"
	"github.com/oakvale-college/lifecycle-service/internal/core/ports"
)

// MockAssetGateway implements ports.AssetGateway for testing. It serves
// assets from an in-memory map instead of a live Snipe-IT instance.
type MockAssetGateway struct {
	mu sync.RWMutex

	// In-memory storage keyed by asset id
	assets map[int]*domain.Asset

	// Call tracking for verification
	FetchPageCalls  int
	FetchByIDCalls  []int
	FetchByTagCalls []string
	CheckoutCalls   []string
	CheckinCalls    []int

	// Error injection for testing error scenarios
	FetchPageError  error
	FetchByIDError  error
	FetchByTagError error
	CheckoutError   error
	CheckinError    error
}

var _ ports.AssetGateway = (*MockAssetGateway)(nil)

func NewMockAssetGateway() *MockAssetGateway {
	return &MockAssetGateway{
		assets: make(map[int]*domain.Asset),
	}
}

// SeedAsset adds an asset for test setup.
func (m *MockAssetGateway) SeedAsset(asset domain.Asset) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assets[asset.ID] = &asset
}

func (m *MockAssetGateway) FetchPage(ctx context.Context, limit, offset int) ([]domain.Asset, int, error) {
	m.mu.Lock()
	m.FetchPageCalls++
	m.mu.Unlock()

	if m.FetchPageError != nil {
		return nil, 0, m.FetchPageError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var all []domain.Asset
	for _, a := range m.assets {
		all = append(all, *a)
	}
	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (m *MockAssetGateway) FetchByID(ctx context.Context, assetID int) (*domain.Asset, error) {
	m.mu.Lock()
	m.FetchByIDCalls = append(m.FetchByIDCalls, assetID)
	m.mu.Unlock()

	if m.FetchByIDError != nil {
		return nil, m.FetchByIDError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	asset, ok := m.assets[assetID]
	if !ok {
		return nil, nil
	}
	copied := *asset
	return &copied, nil
}

func (m *MockAssetGateway) FetchByTag(ctx context.Context, assetTag string) (*domain.Asset, error) {
	m.mu.Lock()
	m.FetchByTagCalls = append(m.FetchByTagCalls, assetTag)
	m.mu.Unlock()

	if m.FetchByTagError != nil {
		return nil, m.FetchByTagError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, a := range m.assets {
		if a.AssetTag == assetTag {
			copied := *a
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *MockAssetGateway) Checkout(ctx context.Context, assetID int, personID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CheckoutCalls = append(m.CheckoutCalls, fmt.Sprintf("%d/%s", assetID, personID))

	if m.CheckoutError != nil {
		return m.CheckoutError
	}

	if asset, ok := m.assets[assetID]; ok {
		asset.AssignedTo = personID
	}
	return nil
}

func (m *MockAssetGateway) Checkin(ctx context.Context, assetID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CheckinCalls = append(m.CheckinCalls, assetID)

	if m.CheckinError != nil {
		return m.CheckinError
	}

	if asset, ok := m.assets[assetID]; ok {
		asset.AssignedTo = ""
	}
	return nil
}

// MockAssetCache implements ports.AssetCache for testing.
type MockAssetCache struct {
	mu sync.RWMutex

	assets map[int]domain.Asset
	pages  map[string][]domain.Asset
	totals map[string]int

	GetAssetCalls int
	GetPageCalls  int
	PutAssetCalls int
	PutPageCalls  int
}

var _ ports.AssetCache = (*MockAssetCache)(nil)

func NewMockAssetCache() *MockAssetCache {
	return &MockAssetCache{
		assets: make(map[int]domain.Asset),
		pages:  make(map[string][]domain.Asset),
		totals: make(map[string]int),
	}
}

func (m *MockAssetCache) GetAsset(ctx context.Context, assetID int) (*domain.Asset, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetAssetCalls++
	asset, ok := m.assets[assetID]
	if !ok {
		return nil, false
	}
	return &asset, true
}

func (m *MockAssetCache) PutAsset(ctx context.Context, asset domain.Asset) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PutAssetCalls++
	m.assets[asset.ID] = asset
}

func (m *MockAssetCache) GetPage(ctx context.Context, page, pageSize int) ([]domain.Asset, int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetPageCalls++
	key := pageKey(page, pageSize)
	assets, ok := m.pages[key]
	if !ok {
		return nil, 0, false
	}
	return assets, m.totals[key], true
}

func (m *MockAssetCache) PutPage(ctx context.Context, page, pageSize int, assets []domain.Asset, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PutPageCalls++
	key := pageKey(page, pageSize)
	m.pages[key] = assets
	m.totals[key] = total
}

func pageKey(page, pageSize int) string {
	return fmt.Sprintf("%d:%d", page, pageSize)
}
