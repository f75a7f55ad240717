package analysis

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const metricsTTL = 7 * 24 * time.Hour

const failurePrefix = "failure:"

type HourlyMetrics struct {
	Date           string
	Hour           int
	Analyses       int64
	Failures       int64
	CacheHits      int64
	AvgLatencyMs   int64
	FailuresByKind map[Kind]int64
}

// Metrics keeps hourly analysis counters in Redis hashes.
type Metrics struct {
	redis *redis.Client
}

func NewMetrics(redisClient *redis.Client) *Metrics {
	return &Metrics{redis: redisClient}
}

func MetricsRedisKey(date string, hour int) string {
	return "analysis:metrics:" + date + ":" + strconv.Itoa(hour)
}

func (m *Metrics) Record(ctx context.Context, res Result, cached bool, latencyMs int64) error {
	now := time.Now().UTC()
	key := MetricsRedisKey(now.Format("2006-01-02"), now.Hour())

	pipe := m.redis.Pipeline()
	pipe.HIncrBy(ctx, key, "analyses", 1)
	if !res.OK() {
		pipe.HIncrBy(ctx, key, "failures", 1)
		pipe.HIncrBy(ctx, key, failurePrefix+string(res.Kind()), 1)
	}
	if cached {
		pipe.HIncrBy(ctx, key, "cache_hits", 1)
	}
	pipe.HIncrBy(ctx, key, "total_latency_ms", latencyMs)
	pipe.HIncrBy(ctx, key, "latency_count", 1)
	pipe.Expire(ctx, key, metricsTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// Get returns the non-empty hourly buckets of the last hours, newest first.
func (m *Metrics) Get(ctx context.Context, hours int) ([]*HourlyMetrics, error) {
	now := time.Now().UTC()
	var out []*HourlyMetrics

	for i := 0; i < hours; i++ {
		t := now.Add(-time.Duration(i) * time.Hour)
		key := MetricsRedisKey(t.Format("2006-01-02"), t.Hour())

		data, err := m.redis.HGetAll(ctx, key).Result()
		if err != nil {
			return nil, err
		}
		if len(data) == 0 {
			continue
		}

		hm := &HourlyMetrics{
			Date:           t.Format("2006-01-02"),
			Hour:           t.Hour(),
			FailuresByKind: make(map[Kind]int64),
		}
		hm.Analyses, _ = strconv.ParseInt(data["analyses"], 10, 64)
		hm.Failures, _ = strconv.ParseInt(data["failures"], 10, 64)
		hm.CacheHits, _ = strconv.ParseInt(data["cache_hits"], 10, 64)

		totalLatency, _ := strconv.ParseInt(data["total_latency_ms"], 10, 64)
		latencyCount, _ := strconv.ParseInt(data["latency_count"], 10, 64)
		if latencyCount > 0 {
			hm.AvgLatencyMs = totalLatency / latencyCount
		}

		for field, v := range data {
			if kind, ok := strings.CutPrefix(field, failurePrefix); ok {
				hm.FailuresByKind[Kind(kind)], _ = strconv.ParseInt(v, 10, 64)
			}
		}

		out = append(out, hm)
	}

	return out, nil
}
