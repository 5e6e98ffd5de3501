package storage

import (
	"context"
	"io"
	"time"
)

type UploadResult struct {
	Key  string
	ETag string
}

// FileUploader — приватное хранилище скриншотов оплаты.
// Объекты не публичные, просмотр только по подписанной ссылке.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	PresignGetURL(ctx context.Context, key string, expires time.Duration) (string, error)
}
