package infra

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync/atomic"
	"time"

	"jumboscan/internal/dto"

	"github.com/karlseguin/ccache/v3"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	prefijoCacheProducto = "producto:"
	claveGeneracion      = prefijoCacheProducto + "gen"
)

// CacheProductos is a two-level lookup cache for barcode/SAP scans: an
// in-process ccache in front of an optional shared Redis. Keys carry the
// catalogue generation, which Invalidar bumps, so a lookup that read the
// database before an import cannot store its result under the new catalogue.
type CacheProductos struct {
	local *ccache.Cache[*dto.ProductoResponse]
	rdb   *redis.Client
	ttl   time.Duration
	gen   atomic.Uint64
}

// Generacion identifies the catalogue a lookup is reading. Take it before
// going to the database and pass it to Get and Set.
type Generacion struct {
	local  uint64
	remota int64 // -1 when redis could not be read
}

// NewCacheProductos builds the cache; rdb may be nil.
func NewCacheProductos(rdb *redis.Client, ttl time.Duration) *CacheProductos {
	if ttl <= 0 {
		ttl = 4 * time.Hour
	}
	return &CacheProductos{
		local: ccache.New(ccache.Configure[*dto.ProductoResponse]().MaxSize(1000)),
		rdb:   rdb,
		ttl:   ttl,
	}
}

func (c *CacheProductos) Generacion(ctx context.Context) Generacion {
	g := Generacion{local: c.gen.Load()}
	if c.rdb == nil {
		return g
	}
	n, err := c.rdb.Get(ctx, claveGeneracion).Int64()
	switch {
	case err == nil:
		g.remota = n
	case errors.Is(err, redis.Nil):
	default:
		log.Warn().Err(err).Msg("cache: redis generation read failed")
		g.remota = -1
	}
	return g
}

func (g Generacion) claveLocal(codigo string) string {
	return strconv.FormatUint(g.local, 10) + "." + strconv.FormatInt(g.remota, 10) + ":" + codigo
}

func (g Generacion) claveRemota(codigo string) string {
	return prefijoCacheProducto + strconv.FormatInt(g.remota, 10) + ":" + codigo
}

// Get returns the cached product for codigo, checking the local level first.
func (c *CacheProductos) Get(ctx context.Context, g Generacion, codigo string) (*dto.ProductoResponse, bool) {
	if item := c.local.Get(g.claveLocal(codigo)); item != nil && !item.Expired() {
		return item.Value(), true
	}
	if c.rdb == nil || g.remota < 0 {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, g.claveRemota(codigo)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("codigo", codigo).Msg("cache: redis get failed")
		}
		return nil, false
	}
	var p dto.ProductoResponse
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, false
	}
	c.local.Set(g.claveLocal(codigo), &p, c.localTTL())
	return &p, true
}

// Set stores p on both levels under generation g. A value read before an
// invalidation lands under the old generation and is never served again.
// Redis errors are logged and ignored.
func (c *CacheProductos) Set(ctx context.Context, g Generacion, codigo string, p *dto.ProductoResponse) {
	if g.local != c.gen.Load() {
		return
	}
	c.local.Set(g.claveLocal(codigo), p, c.localTTL())
	if c.rdb == nil || g.remota < 0 {
		return
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, g.claveRemota(codigo), raw, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("codigo", codigo).Msg("cache: redis set failed")
	}
}

// Invalidar starts a new generation and drops every cached product. Called
// after each successful import.
func (c *CacheProductos) Invalidar(ctx context.Context) error {
	c.gen.Add(1)
	c.local.Clear()
	if c.rdb == nil {
		return nil
	}
	if err := c.rdb.Incr(ctx, claveGeneracion).Err(); err != nil {
		return err
	}
	iter := c.rdb.Scan(ctx, 0, prefijoCacheProducto+"*:*", 500).Iterator()
	var claves []string
	for iter.Next(ctx) {
		claves = append(claves, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(claves) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, claves...).Err()
}

// bounds how long an entry outlives a redis outage
func (c *CacheProductos) localTTL() time.Duration {
	if c.ttl < 5*time.Minute {
		return c.ttl
	}
	return 5 * time.Minute
}
