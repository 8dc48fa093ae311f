package convert

import (
	"errors"

	"github.com/ssargent/omniconv/pkg/codec"
	"github.com/ssargent/omniconv/pkg/storage"
)

// Error kinds reported to users
const (
	KindTruncatedRecord       = "TruncatedRecord"
	KindFieldTooLong          = "FieldTooLong"
	KindFieldType             = "FieldTypeError"
	KindSeriesCountMismatch   = "SeriesCountMismatch"
	KindPayloadLengthMismatch = "PayloadLengthMismatch"
	KindIO                    = "IoError"
	KindUnknown               = "Error"
)

var kinds = []struct {
	err  error
	name string
}{
	{storage.ErrIO, KindIO},
	{codec.ErrTruncatedRecord, KindTruncatedRecord},
	{codec.ErrFieldTooLong, KindFieldTooLong},
	{codec.ErrFieldType, KindFieldType},
	{codec.ErrSeriesCountMismatch, KindSeriesCountMismatch},
	{codec.ErrPayloadLengthMismatch, KindPayloadLengthMismatch},
}

// ErrorKind names the kind of a conversion error
func ErrorKind(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return KindUnknown
}

// IsInputError reports whether err was caused by the content of the input
// rather than by the environment.
func IsInputError(err error) bool {
	switch ErrorKind(err) {
	case KindIO, KindUnknown:
		return false
	default:
		return true
	}
}
