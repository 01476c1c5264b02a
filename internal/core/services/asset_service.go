package services

import (
	"context"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/oakvale-college/lifecycle-service/internal/core/domain"
	"github.com/oakvale-college/lifecycle-service/internal/core/ports"
)

const (
	// maxAssetLookups bounds the parallel per-assignment gateway calls.
	maxAssetLookups = 5
	// syncPageSize is the page size used when walking the full inventory.
	syncPageSize = 50
)

// AssetService reads device records through the external gateway with a
// best-effort cache in front. Read failures degrade to empty results; the
// caller only ever sees absence of data.
type AssetService struct {
	gateway     ports.AssetGateway
	cache       ports.AssetCache
	assignments ports.AssignmentRepository
}

var _ ports.AssetService = (*AssetService)(nil)

func NewAssetService(gateway ports.AssetGateway, cache ports.AssetCache, assignments ports.AssignmentRepository) *AssetService {
	return &AssetService{gateway: gateway, cache: cache, assignments: assignments}
}

func (s *AssetService) List(ctx context.Context, page, pageSize int) ([]domain.Asset, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = syncPageSize
	}

	if assets, total, ok := s.cache.GetPage(ctx, page, pageSize); ok {
		return assets, total, nil
	}

	assets, total, err := s.gateway.FetchPage(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		log.Printf("assets: page %d fetch failed, returning empty: %v", page, err)
		return []domain.Asset{}, 0, nil
	}

	s.cache.PutPage(ctx, page, pageSize, assets, total)
	for _, a := range assets {
		s.cache.PutAsset(ctx, a)
	}
	return assets, total, nil
}

func (s *AssetService) Get(ctx context.Context, assetID int) (*domain.Asset, error) {
	if asset, ok := s.cache.GetAsset(ctx, assetID); ok {
		return asset, nil
	}

	asset, err := s.gateway.FetchByID(ctx, assetID)
	if err != nil {
		log.Printf("assets: fetch of asset %d failed: %v", assetID, err)
		return nil, nil
	}
	if asset != nil {
		s.cache.PutAsset(ctx, *asset)
	}
	return asset, nil
}

// PersonAssets resolves every asset assigned to a person. Lookups fan out
// with bounded parallelism; one failed lookup does not abort the others.
func (s *AssetService) PersonAssets(ctx context.Context, personID string) ([]domain.Asset, error) {
	assignments, err := s.assignments.ListByPerson(ctx, personID)
	if err != nil {
		return nil, err
	}
	if len(assignments) == 0 {
		return []domain.Asset{}, nil
	}

	var mu sync.Mutex
	assets := make([]domain.Asset, 0, len(assignments))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxAssetLookups)
	for _, assignment := range assignments {
		if assignment.ReturnedAt != nil {
			continue
		}
		assignment := assignment
		g.Go(func() error {
			asset, err := s.gateway.FetchByID(gctx, assignment.AssetID)
			if err != nil {
				log.Printf("assets: lookup of assigned asset %d failed: %v", assignment.AssetID, err)
				return nil
			}
			if asset == nil {
				return nil
			}
			mu.Lock()
			assets = append(assets, *asset)
			mu.Unlock()
			return nil
		})
	}
	// Workers never return errors; Wait is for completion only.
	_ = g.Wait()

	return assets, nil
}

// Sync walks the full external inventory and refreshes the cache. A page
// failure stops the walk but keeps what was already synced.
func (s *AssetService) Sync(ctx context.Context) (int, error) {
	synced := 0
	for offset := 0; ; offset += syncPageSize {
		assets, total, err := s.gateway.FetchPage(ctx, syncPageSize, offset)
		if err != nil {
			log.Printf("assets: sync stopped at offset %d: %v", offset, err)
			return synced, nil
		}
		for _, a := range assets {
			s.cache.PutAsset(ctx, a)
		}
		synced += len(assets)
		if len(assets) < syncPageSize || synced >= total {
			break
		}
	}
	log.Printf("assets: synced %d assets from inventory", synced)
	return synced, nil
}
