package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/medtrack/inventory-api/internal/application/dto"
	"github.com/medtrack/inventory-api/internal/application/usecase"
)

const (
	searchKeyPrefix = "product:search:"
	versionKey      = "product:search:version"
	searchTTL       = 5 * time.Minute
)

var _ usecase.SearchCache = (*SearchCache)(nil)

// SearchCache caché read-through en Redis para el autocompletado de productos.
// Las entradas llevan la versión del catálogo en la clave: Invalidate incrementa
// la versión y las entradas viejas quedan huérfanas hasta expirar por TTL.
type SearchCache struct {
	client *redis.Client
}

// NewSearchCache construye la caché con un cliente Redis ya conectado.
func NewSearchCache(client *redis.Client) *SearchCache {
	return &SearchCache{client: client}
}

// GetSearch devuelve los resultados cacheados para la consulta, si existen.
func (c *SearchCache) GetSearch(ctx context.Context, query string) ([]dto.ProductSearchResult, bool, error) {
	key, err := c.key(ctx, query)
	if err != nil {
		return nil, false, err
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache get: %w", err)
	}
	var results []dto.ProductSearchResult
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, false, nil
	}
	return results, true, nil
}

// SetSearch cachea los resultados de la consulta con TTL.
func (c *SearchCache) SetSearch(ctx context.Context, query string, results []dto.ProductSearchResult) error {
	key, err := c.key(ctx, query)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("cache marshal: %w", err)
	}
	return c.client.Set(ctx, key, raw, searchTTL).Err()
}

// Invalidate descarta todas las búsquedas cacheadas incrementando la versión del catálogo.
func (c *SearchCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, versionKey).Err()
}

func (c *SearchCache) key(ctx context.Context, query string) (string, error) {
	version, err := c.client.Get(ctx, versionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("cache version: %w", err)
	}
	return fmt.Sprintf("%s%d:%s", searchKeyPrefix, version, query), nil
}
