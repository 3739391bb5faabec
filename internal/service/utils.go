package service

import (
	"context"
	"log/slog"

	"github.com/phongtro/phongtro/internal/domain"
)

const defaultPageSize = 50

// cached serves bucket/key from the cache, loading and storing it on a miss.
// Cache write failures are logged, never returned.
func cached[T any](
	ctx context.Context,
	cache domain.Cache,
	logger *slog.Logger,
	bucket, key string,
	load func(ctx context.Context) (T, error),
) (T, error) {
	var value T
	if cache.Get(bucket, key, &value) {
		logger.Debug("cache hit", "bucket", bucket, "key", key)
		return value, nil
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}
	if err := cache.Set(bucket, key, value); err != nil {
		logger.Error("failed to cache response", "bucket", bucket, "key", key, "error", err)
	}
	return value, nil
}

// fetchAll walks every page of a paginated endpoint.
// page is 1-based; fetch returns the items of one page and the total count.
func fetchAll[T any](
	ctx context.Context,
	fetch func(ctx context.Context, page, limit int) ([]T, int, error),
	pageSize int,
	onProgress func(loaded, total int),
) ([]T, error) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	var all []T
	page := 1

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		items, total, err := fetch(ctx, page, pageSize)
		if err != nil {
			return nil, err
		}

		all = append(all, items...)

		if onProgress != nil {
			onProgress(len(all), total)
		}

		if len(all) >= total || len(items) == 0 {
			break
		}
		page++
	}

	return all, nil
}
