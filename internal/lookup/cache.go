package lookup

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cached wraps another Sources with a short-TTL Redis cache. Only positive
// (ok=true) lookups are cached; a cache failure falls through to the inner
// source. Current weather is deliberately not cached.
type Cached struct {
	inner Sources
	rdb   *redis.Client
	ttl   time.Duration
}

func NewCached(inner Sources, rdb *redis.Client, ttl time.Duration) *Cached {
	return &Cached{inner: inner, rdb: rdb, ttl: ttl}
}

func (c *Cached) get(ctx context.Context, key string) (string, bool) {
	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			zap.L().Debug("lookup cache get failed", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	return val, true
}

func (c *Cached) set(ctx context.Context, key, val string) {
	if err := c.rdb.Set(ctx, key, val, c.ttl).Err(); err != nil {
		zap.L().Debug("lookup cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *Cached) IsMalicious(ctx context.Context, url string) (bool, bool) {
	key := "lookup:gsb:" + url
	if v, hit := c.get(ctx, key); hit {
		return v == "1", true
	}
	malicious, ok := c.inner.IsMalicious(ctx, url)
	if ok {
		v := "0"
		if malicious {
			v = "1"
		}
		c.set(ctx, key, v)
	}
	return malicious, ok
}

func (c *Cached) DomainAgeDays(ctx context.Context, domain string) (int, bool) {
	key := "lookup:rdap:" + domain
	if v, hit := c.get(ctx, key); hit {
		if age, err := strconv.Atoi(v); err == nil {
			return age, true
		}
	}
	age, ok := c.inner.DomainAgeDays(ctx, domain)
	if ok {
		c.set(ctx, key, strconv.Itoa(age))
	}
	return age, ok
}

func (c *Cached) MedianPrice(ctx context.Context, city, name string) (float64, bool) {
	key := "lookup:price:" + strings.ToLower(city+"|"+name)
	if v, hit := c.get(ctx, key); hit {
		if price, err := strconv.ParseFloat(v, 64); err == nil {
			return price, true
		}
	}
	price, ok := c.inner.MedianPrice(ctx, city, name)
	if ok {
		c.set(ctx, key, strconv.FormatFloat(price, 'f', -1, 64))
	}
	return price, ok
}

func (c *Cached) OfficialWebsite(ctx context.Context, city, name string) (string, bool) {
	key := "lookup:site:" + strings.ToLower(city+"|"+name)
	if v, hit := c.get(ctx, key); hit {
		return v, true
	}
	site, ok := c.inner.OfficialWebsite(ctx, city, name)
	if ok {
		c.set(ctx, key, site)
	}
	return site, ok
}

func (c *Cached) WeatherTip(ctx context.Context, city string) (string, bool) {
	return c.inner.WeatherTip(ctx, city)
}

func (c *Cached) CountryAdvisory(ctx context.Context, countryCode string) (float64, string, bool) {
	key := "lookup:advisory:" + strings.ToUpper(countryCode)
	if v, hit := c.get(ctx, key); hit {
		score, msg, parsed := parseAdvisoryCache(v)
		if parsed {
			return score, msg, true
		}
	}
	score, msg, ok := c.inner.CountryAdvisory(ctx, countryCode)
	if ok {
		c.set(ctx, key, strconv.FormatFloat(score, 'f', -1, 64)+"|"+msg)
	}
	return score, msg, ok
}

func parseAdvisoryCache(v string) (float64, string, bool) {
	idx := strings.Index(v, "|")
	if idx < 0 {
		return 0, "", false
	}
	score, err := strconv.ParseFloat(v[:idx], 64)
	if err != nil {
		return 0, "", false
	}
	return score, v[idx+1:], true
}
