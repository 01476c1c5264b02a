package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oakvale-college/lifecycle-service/internal/core/domain"
	"github.com/oakvale-college/lifecycle-service/internal/core/ports"
)

const assetTTL = 10 * time.Minute

// RedisAssetCache is a best-effort cache-aside store for Snipe-IT records.
// Redis being down only costs cache hits: every failure is logged and
// reported as a miss.
type RedisAssetCache struct {
	client *redis.Client
}

var _ ports.AssetCache = (*RedisAssetCache)(nil)

func NewRedisAssetCache(client *redis.Client) *RedisAssetCache {
	return &RedisAssetCache{client: client}
}

func assetKey(assetID int) string {
	return fmt.Sprintf("snipeit:asset:%d", assetID)
}

func pageKey(page, pageSize int) string {
	return fmt.Sprintf("snipeit:page:%d:%d", page, pageSize)
}

type cachedPage struct {
	Assets []domain.Asset `json:"assets"`
	Total  int            `json:"total"`
}

func (c *RedisAssetCache) GetAsset(ctx context.Context, assetID int) (*domain.Asset, bool) {
	data, err := c.client.Get(ctx, assetKey(assetID)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Printf("asset cache: get %d failed: %v", assetID, err)
		return nil, false
	}

	var asset domain.Asset
	if err := json.Unmarshal(data, &asset); err != nil {
		log.Printf("asset cache: corrupt entry for %d: %v", assetID, err)
		return nil, false
	}
	return &asset, true
}

func (c *RedisAssetCache) PutAsset(ctx context.Context, asset domain.Asset) {
	data, err := json.Marshal(asset)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, assetKey(asset.ID), data, assetTTL).Err(); err != nil {
		log.Printf("asset cache: put %d failed: %v", asset.ID, err)
	}
}

func (c *RedisAssetCache) GetPage(ctx context.Context, page, pageSize int) ([]domain.Asset, int, bool) {
	data, err := c.client.Get(ctx, pageKey(page, pageSize)).Bytes()
	if err == redis.Nil {
		return nil, 0, false
	}
	if err != nil {
		log.Printf("asset cache: get page %d failed: %v", page, err)
		return nil, 0, false
	}

	var cached cachedPage
	if err := json.Unmarshal(data, &cached); err != nil {
		log.Printf("asset cache: corrupt page entry %d: %v", page, err)
		return nil, 0, false
	}
	return cached.Assets, cached.Total, true
}

func (c *RedisAssetCache) PutPage(ctx context.Context, page, pageSize int, assets []domain.Asset, total int) {
	data, err := json.Marshal(cachedPage{Assets: assets, Total: total})
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, pageKey(page, pageSize), data, assetTTL).Err(); err != nil {
		log.Printf("asset cache: put page %d failed: %v", page, err)
	}
}
