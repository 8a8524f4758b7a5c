// Package cache guarda resumos de serviços já calculados por usuário
package cache

//go:generate mockgen -source=summary.go -destination=mocks/summary.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/insect-control-api/internal/config"
	"github.com/vfg2006/insect-control-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// SummaryCache armazena resumos por usuário e geração.
// Cada escrita nos serviços do usuário incrementa a geração, então um cálculo
// iniciado antes da escrita nunca é servido depois dela.
type SummaryCache interface {
	Generation(ctx context.Context, owner string) (int64, error)
	Get(ctx context.Context, owner string, generation int64) (*domain.ServicesSummary, bool, error)
	Set(ctx context.Context, owner string, generation int64, summary *domain.ServicesSummary) error
	Invalidate(ctx context.Context, owner string) error
}

// NewRedisClient cria o cliente e valida a conexão
func NewRedisClient(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("erro ao conectar no Redis: %w", err)
	}

	logrus.WithField("addr", cfg.Addr).Info("Conexão com Redis estabelecida com sucesso")
	return client, nil
}

type redisSummaryCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisSummaryCache(client redis.Cmdable, ttl time.Duration) SummaryCache {
	return &redisSummaryCache{
		client: client,
		ttl:    ttl,
	}
}

func generationKey(owner string) string {
	return "summary:gen:" + owner
}

func summaryKey(owner string, generation int64) string {
	return fmt.Sprintf("summary:%s:%d", owner, generation)
}

func (c *redisSummaryCache) Generation(ctx context.Context, owner string) (int64, error) {
	generation, err := c.client.Get(ctx, generationKey(owner)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	return generation, nil
}

func (c *redisSummaryCache) Get(ctx context.Context, owner string, generation int64) (*domain.ServicesSummary, bool, error) {
	data, err := c.client.Get(ctx, summaryKey(owner, generation)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var summary domain.ServicesSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, false, err
	}

	return &summary, true, nil
}

func (c *redisSummaryCache) Set(ctx context.Context, owner string, generation int64, summary *domain.ServicesSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, summaryKey(owner, generation), data, c.ttl).Err()
}

func (c *redisSummaryCache) Invalidate(ctx context.Context, owner string) error {
	return c.client.Incr(ctx, generationKey(owner)).Err()
}

type noopSummaryCache struct{}

// NewNoopSummaryCache é usado quando o Redis está desabilitado
func NewNoopSummaryCache() SummaryCache {
	return noopSummaryCache{}
}

func (noopSummaryCache) Generation(context.Context, string) (int64, error) { return 0, nil }

func (noopSummaryCache) Get(context.Context, string, int64) (*domain.ServicesSummary, bool, error) {
	return nil, false, nil
}

func (noopSummaryCache) Set(context.Context, string, int64, *domain.ServicesSummary) error {
	return nil
}

func (noopSummaryCache) Invalidate(context.Context, string) error { return nil }
