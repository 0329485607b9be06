package baseline

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration reports invalid construction options, settings or filter lists.
	ErrConfiguration = errors.New("configuration error")
	// ErrValidation reports invalid call-time input such as an empty site hash.
	ErrValidation = errors.New("validation error")
	// ErrNoData is returned when no reading survives the filter stages.
	ErrNoData = errors.New("no data")
	// ErrMalformedResponse is returned when a provider answer has no items list.
	ErrMalformedResponse = fmt.Errorf("%w: usage response has no items", ErrConfiguration)
)

// Failure kinds used as metric labels.
const (
	KindConfiguration = "configuration"
	KindValidation    = "validation"
	KindNoData        = "no_data"
	KindProvider      = "provider"
)

// FailureKind classifies err into one of the Kind constants. Errors that do
// not wrap a sentinel of this package are attributed to the provider.
func FailureKind(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrNoData):
		return KindNoData
	case errors.Is(err, ErrConfiguration):
		return KindConfiguration
	default:
		return KindProvider
	}
}
