package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/insect-control-api/internal/config"
	"github.com/vfg2006/insect-control-api/internal/domain"
)

const testOwner = "maria@exemplo.com"

func newTestCache(t *testing.T) (SummaryCache, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisSummaryCache(client, time.Minute), server
}

func sampleSummary() *domain.ServicesSummary {
	return &domain.ServicesSummary{
		TotalServices:    3,
		TotalRevenuePaid: decimal.RequireFromString("300.5"),
		RevenueByMonth:   map[string]decimal.Decimal{"2025-02": decimal.RequireFromString("300.5")},
		BestMonth:        "2025-02",
		BestMonthValue:   decimal.RequireFromString("300.5"),
		CountByType:      map[string]int{"Cupim": 2, "Rato": 1},
		TopType:          "Cupim",
		TopTypeCount:     2,
		TopTypes:         []domain.TypeCount{{Type: "Cupim", Count: 2}, {Type: "Rato", Count: 1}},
	}
}

func TestRedisSummaryCache_SetGet(t *testing.T) {
	ctx := context.Background()
	summaryCache, server := newTestCache(t)

	generation, err := summaryCache.Generation(ctx, testOwner)
	require.NoError(t, err)
	assert.Zero(t, generation)

	_, found, err := summaryCache.Get(ctx, testOwner, generation)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, summaryCache.Set(ctx, testOwner, generation, sampleSummary()))

	got, found, err := summaryCache.Get(ctx, testOwner, generation)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 3, got.TotalServices)
	assert.True(t, got.TotalRevenuePaid.Equal(decimal.RequireFromString("300.5")))
	assert.Equal(t, "Cupim", got.TopType)
	assert.Equal(t, sampleSummary().TopTypes, got.TopTypes)

	assert.Equal(t, time.Minute, server.TTL(summaryKey(testOwner, generation)))
}

func TestRedisSummaryCache_InvalidateMudaGeracao(t *testing.T) {
	ctx := context.Background()
	summaryCache, _ := newTestCache(t)

	require.NoError(t, summaryCache.Set(ctx, testOwner, 0, sampleSummary()))
	require.NoError(t, summaryCache.Invalidate(ctx, testOwner))

	generation, err := summaryCache.Generation(ctx, testOwner)
	require.NoError(t, err)
	assert.Equal(t, int64(1), generation)

	_, found, err := summaryCache.Get(ctx, testOwner, generation)
	require.NoError(t, err)
	assert.False(t, found, "resumo da geração anterior não pode ser servido")

	// outro usuário não é afetado
	other, err := summaryCache.Generation(ctx, "joao@exemplo.com")
	require.NoError(t, err)
	assert.Zero(t, other)
}

func TestRedisSummaryCache_ConteudoCorrompido(t *testing.T) {
	ctx := context.Background()
	summaryCache, server := newTestCache(t)

	require.NoError(t, server.Set(summaryKey(testOwner, 0), "{quebrado"))

	_, found, err := summaryCache.Get(ctx, testOwner, 0)
	assert.Error(t, err)
	assert.False(t, found)
}

func TestRedisSummaryCache_RedisIndisponivel(t *testing.T) {
	ctx := context.Background()
	summaryCache, server := newTestCache(t)
	server.Close()

	_, err := summaryCache.Generation(ctx, testOwner)
	assert.Error(t, err)
	assert.Error(t, summaryCache.Invalidate(ctx, testOwner))
}

func TestNewRedisClient(t *testing.T) {
	server := miniredis.RunT(t)
	addr := server.Addr()

	client, err := NewRedisClient(context.Background(), config.Redis{Addr: addr})
	require.NoError(t, err)
	client.Close()

	server.Close()
	_, err = NewRedisClient(context.Background(), config.Redis{Addr: addr})
	assert.Error(t, err)
}

func TestNoopSummaryCache(t *testing.T) {
	ctx := context.Background()
	summaryCache := NewNoopSummaryCache()

	require.NoError(t, summaryCache.Set(ctx, testOwner, 0, sampleSummary()))
	require.NoError(t, summaryCache.Invalidate(ctx, testOwner))

	generation, err := summaryCache.Generation(ctx, testOwner)
	require.NoError(t, err)
	assert.Zero(t, generation)

	_, found, err := summaryCache.Get(ctx, testOwner, generation)
	require.NoError(t, err)
	assert.False(t, found)
}
