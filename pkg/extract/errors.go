package extract

import "errors"

var (
	// ErrMissingInput marks a required corpus directory or artifact that does
	// not exist. It is fatal for the run.
	ErrMissingInput = errors.New("missing input")

	// ErrMalformedDocument marks a corpus file without a valid doc_id header.
	// The document is skipped and the run continues.
	ErrMalformedDocument = errors.New("malformed document")
)
