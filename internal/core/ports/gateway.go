package ports

import (
	"context"

	"github.com/oakvale-college/lifecycle-service/internal/core/domain"
)

// AssetGateway is the boundary to the external asset-management system.
// Implementations return transport and decoding failures as errors; the
// asset service decides how to degrade.
type AssetGateway interface {
	// FetchPage returns one page of assets plus the total count the
	// external system reports.
	FetchPage(ctx context.Context, limit, offset int) ([]domain.Asset, int, error)
	// FetchByID returns nil without error when the asset does not exist.
	FetchByID(ctx context.Context, assetID int) (*domain.Asset, error)
	// FetchByTag returns nil without error when no asset carries the tag.
	FetchByTag(ctx context.Context, assetTag string) (*domain.Asset, error)
	Checkout(ctx context.Context, assetID int, personID string) error
	Checkin(ctx context.Context, assetID int) error
}

// AssetCache is a best-effort read cache in front of the gateway. Misses
// and backend failures both surface as ok=false; writes may silently fail.
type AssetCache interface {
	GetAsset(ctx context.Context, assetID int) (*domain.Asset, bool)
	PutAsset(ctx context.Context, asset domain.Asset)
	GetPage(ctx context.Context, page, pageSize int) ([]domain.Asset, int, bool)
	PutPage(ctx context.Context, page, pageSize int, assets []domain.Asset, total int)
}
