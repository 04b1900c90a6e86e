package usecase

import (
	"context"

	"github.com/DRSN-tech/indexer-backend/internal/domain"
)

// TextGeneratorInfra превращает текст в вектор фиксированной длины.
// Временные сбои ретраятся внутри реализации; исчерпание попыток
// возвращается как e.ErrModelUnavailable.
type TextGeneratorInfra interface {
	Generate(ctx context.Context, text string) ([]float32, error)
}

// ImageGeneratorInfra превращает байты изображения в вектор фиксированной длины.
// Возвращает e.ErrDecodeImage, если байты не декодируются как изображение.
type ImageGeneratorInfra interface {
	Generate(ctx context.Context, imageBytes []byte) ([]float32, error)
}

// ImageSource перечисляет изображения каталога.
// Walk вызывает fn последовательно для каждого найденного изображения;
// ошибка fn прерывает обход.
type ImageSource interface {
	Walk(ctx context.Context, fn func(asset *domain.ImageAsset) error) error
}

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
	GetPayloadBytes(run *domain.IndexRun) ([]byte, error)
}
