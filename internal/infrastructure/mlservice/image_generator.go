package mlservice

import (
	"context"
	"time"

	"github.com/DRSN-tech/indexer-backend/internal/proto"
	"github.com/DRSN-tech/indexer-backend/pkg/e"
	"github.com/DRSN-tech/indexer-backend/pkg/jitter"
	"github.com/DRSN-tech/indexer-backend/pkg/logger"
)

// ImageGenerator клиент векторизации изображений через внешний ML-сервис.
// Картинка декодируется и приводится к тензору на стороне индексатора,
// модель получает уже нормализованный вход фиксированного размера.
type ImageGenerator struct {
	client     proto.EmbedderServiceClient
	maxRetries int
	logger     logger.Logger
}

func NewImageGenerator(client proto.EmbedderServiceClient, maxRetries int, logger logger.Logger) *ImageGenerator {
	return &ImageGenerator{
		client:     client,
		maxRetries: maxRetries,
		logger:     logger,
	}
}

// Generate декодирует изображение, готовит тензор и выполняет векторизацию
// с retry-логикой. Ошибка декодирования возвращается без повторных попыток.
func (g *ImageGenerator) Generate(ctx context.Context, imageBytes []byte) ([]float32, error) {
	const op = "ImageGenerator.Generate"

	tensor, err := PreprocessImage(imageBytes)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	req := proto.EmbedImageRequest{
		Tensor:   tensor,
		Width:    cropSize,
		Height:   cropSize,
		Channels: channels,
	}

	var lastErr error
	for attempt := 0; attempt < g.maxRetries; attempt++ {
		res, err := g.client.EmbedImage(ctx, &req)
		if err == nil {
			if len(res.Vector) == 0 {
				return nil, e.Wrap(op, e.ErrEmptyVector)
			}
			return res.Vector, nil
		}

		lastErr = err
		if attempt == g.maxRetries-1 {
			break
		}

		sleepTime := jitter.ExponentialBackoff(
			baseJitter,
			maxJitter,
			attempt,
			jitter.DefaultJitter,
		)

		g.logger.Warnf("image embedding failed, retrying in %v (attempt %d)", sleepTime, attempt+1)
		select {
		case <-time.After(sleepTime):
		case <-ctx.Done():
			return nil, e.Wrap(op, ctx.Err())
		}
	}

	return nil, e.Wrap(op, mapGRPCError(lastErr))
}
