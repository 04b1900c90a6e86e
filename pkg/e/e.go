package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Ошибки генераторов эмбеддингов
	ErrEmptyText        = fmt.Errorf("input text is empty")
	ErrDecodeImage      = fmt.Errorf("image bytes are not decodable")
	ErrModelUnavailable = fmt.Errorf("embedding model is unavailable")

	// Ошибки векторного хранилища
	ErrDimensionMismatch = fmt.Errorf("embedding dimension mismatch")
	ErrStoreUnavailable  = fmt.Errorf("vector store is unavailable")
	ErrEmptyVector       = fmt.Errorf("embedding vector is empty")

	// Ошибки пайплайна индексации
	ErrMissingItemID  = fmt.Errorf("catalog item id is required")
	ErrRunNotFound    = fmt.Errorf("index run not found")
	ErrPassInProgress = fmt.Errorf("index pass is already running")

	// 400 Bad Request
	ErrStatusBadRequest = fmt.Errorf("bad request")
	ErrUnknownModality  = fmt.Errorf("unknown modality")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
