package mlservice

import (
	"context"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/DRSN-tech/indexer-backend/internal/proto"
	"github.com/DRSN-tech/indexer-backend/pkg/e"
	"github.com/DRSN-tech/indexer-backend/pkg/jitter"
	"github.com/DRSN-tech/indexer-backend/pkg/logger"
)

const (
	baseJitter = 1 * time.Second
	maxJitter  = 30 * time.Second
)

// TextGenerator клиент векторизации текста через внешний ML-сервис
type TextGenerator struct {
	client     proto.EmbedderServiceClient
	maxRetries int
	logger     logger.Logger
}

func NewTextGenerator(client proto.EmbedderServiceClient, maxRetries int, logger logger.Logger) *TextGenerator {
	return &TextGenerator{
		client:     client,
		maxRetries: maxRetries,
		logger:     logger,
	}
}

// Generate выполняет векторизацию текста с retry-логикой и экспоненциальной задержкой.
// Недоступность модели после исчерпания попыток возвращается как e.ErrModelUnavailable.
func (g *TextGenerator) Generate(ctx context.Context, text string) ([]float32, error) {
	const op = "TextGenerator.Generate"

	if text == "" {
		return nil, e.Wrap(op, e.ErrEmptyText)
	}

	var lastErr error
	for attempt := 0; attempt < g.maxRetries; attempt++ {
		res, err := g.client.EmbedText(ctx, &proto.EmbedTextRequest{Text: text})
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

		g.logger.Warnf("text embedding failed, retrying in %v (attempt %d)", sleepTime, attempt+1)
		select {
		case <-time.After(sleepTime):
		case <-ctx.Done():
			return nil, e.Wrap(op, ctx.Err())
		}
	}

	return nil, e.Wrap(op, mapGRPCError(lastErr))
}

// mapGRPCError переводит статусы недоступности модели в доменную ошибку
func mapGRPCError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	switch st.Code() {
	case codes.Unavailable, codes.FailedPrecondition, codes.Unimplemented:
		return e.ErrModelUnavailable
	default:
		return err
	}
}
