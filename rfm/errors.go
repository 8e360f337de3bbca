package rfm

import "errors"

var (
	ErrInsufficientCustomers = errors.New("insufficient distinct customers for quantile segmentation")
	ErrInvalidTimestamp      = errors.New("invalid purchase timestamp")
	ErrUnmappedSegment       = errors.New("rf score has no segment")
)
