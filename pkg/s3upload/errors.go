package s3upload

import "errors"

// ErrInvalidURI indicates a malformed s3://bucket/prefix URI.
var ErrInvalidURI = errors.New("invalid S3 URI")
