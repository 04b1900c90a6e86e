package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/jimlawless/whereami"
	"github.com/redis/go-redis/v9"

	"github.com/DRSN-tech/indexer-backend/internal/cfg"
	"github.com/DRSN-tech/indexer-backend/internal/domain"
	"github.com/DRSN-tech/indexer-backend/pkg/clients"
	"github.com/DRSN-tech/indexer-backend/pkg/e"
)

// FingerprintRepo хранит отпечатки содержимого проиндексированных элементов
// в Redis. Используется для пропуска неизменившихся элементов при повторных
// проходах индексации.
type FingerprintRepo struct {
	client *clients.RedisClient
	cfg    *cfg.RedisCfg
}

func NewFingerprintRepo(client *clients.RedisClient, cfg *cfg.RedisCfg) *FingerprintRepo {
	return &FingerprintRepo{
		client: client,
		cfg:    cfg,
	}
}

// Get возвращает сохраненный отпечаток элемента или пустую строку,
// если отпечаток еще не записан
func (r *FingerprintRepo) Get(ctx context.Context, modality domain.Modality, id string) (string, error) {
	value, err := r.client.Client.Get(ctx, fingerprintKey(modality, id)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return value, nil
}

// Set записывает отпечаток элемента. При нулевом TTL отпечаток живет
// до явной перезаписи.
func (r *FingerprintRepo) Set(ctx context.Context, modality domain.Modality, id string, fingerprint string) error {
	err := r.client.Client.Set(ctx, fingerprintKey(modality, id), fingerprint, r.cfg.FingerprintTTL).Err()
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// fingerprintKey возвращает Redis-ключ отпечатка одного элемента
func fingerprintKey(modality domain.Modality, id string) string {
	return fmt.Sprintf("fingerprint:%s:%s", modality, id)
}
