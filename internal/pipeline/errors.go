package pipeline

import "errors"

var (
	// ErrAlreadyProcessing is returned when another run currently holds the
	// material in the processing state.
	ErrAlreadyProcessing = errors.New("pipeline: material is already being processed")

	// ErrDownload classifies blob download failures, parallel to the
	// inference client's extraction and embedding kinds.
	ErrDownload = errors.New("pipeline: download failed")

	// ErrQueueFull is returned by the dispatcher when every worker is busy.
	// The request was not enqueued; the caller should retry later.
	ErrQueueFull = errors.New("pipeline: processing queue is full")

	// ErrUnsupportedMimeType is returned for materials whose stored MIME
	// type is not in the processable set. The run fails without contacting
	// the inference service.
	ErrUnsupportedMimeType = errors.New("pipeline: unsupported mime type")

	// errEmptyExtraction marks an extraction round that produced no usable
	// text. The service treats empty text as a valid response, but for a
	// course material it almost always means a transient extraction
	// hiccup, so the run retries the phase.
	errEmptyExtraction = errors.New("pipeline: extraction produced empty text")
)
