package blob

import (
	"errors"

	"github.com/minio/minio-go/v7"
)

// ErrNotFound is returned when the requested object key does not exist in
// the bucket.
var ErrNotFound = errors.New("blob: object not found")

// translateError maps MinIO error responses onto package sentinels so that
// callers never depend on minio-go types.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var resp minio.ErrorResponse
	if errors.As(err, &resp) && resp.Code == "NoSuchKey" {
		return ErrNotFound
	}
	return err
}
