package inference

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Error kinds for the two inference operations. Callers match them with
// errors.Is; a timed-out call additionally matches ErrTimeout.
var (
	// ErrExtraction is returned when the service fails to extract text:
	// error status, timeout, or unparseable output.
	ErrExtraction = errors.New("inference: extraction failed")

	// ErrEmbedding is returned when the service fails to produce an
	// embedding, or the input text is empty after trimming.
	ErrEmbedding = errors.New("inference: embedding failed")

	// ErrTimeout marks a call abandoned because its time bound elapsed.
	// It always appears wrapped inside ErrExtraction or ErrEmbedding.
	ErrTimeout = errors.New("inference: request timed out")

	// ErrEmptyText is returned by GenerateEmbedding for input that is
	// empty after trimming whitespace. The service is not contacted.
	ErrEmptyText = errors.New("inference: text is empty")
)

// DimensionMismatchError reports an embedding response whose vector length
// differs from the configured dimension. It is a fatal integration error:
// retrying will not help, so the pipeline must not retry it.
type DimensionMismatchError struct {
	Want int
	Got  int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("inference: embedding dimension mismatch: want %d, got %d", e.Want, e.Got)
}

// IsDimensionMismatch reports whether err is (or wraps) a DimensionMismatchError.
func IsDimensionMismatch(err error) bool {
	var dm *DimensionMismatchError
	return errors.As(err, &dm)
}

// wrapKind classifies err under the given operation kind, additionally
// tagging timeouts so that errors.Is(err, ErrTimeout) holds.
func wrapKind(kind error, err error) error {
	if isTimeout(err) {
		return fmt.Errorf("%w: %w: %w", kind, ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", kind, err)
}

// isTimeout reports whether err stems from an elapsed deadline, either on
// the caller's context or on the underlying network connection.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
