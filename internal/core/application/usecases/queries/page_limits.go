package queries

import (
	"errors"
	"math"

	"shop/internal/core/domain/model/fetch"
	"shop/internal/pkg/errs"
)

// PageLimits bounds the limit a client may request.
type PageLimits struct {
	Default int
	Max     int
}

// NewPageLimits requires 1 <= def <= maxLimit.
func NewPageLimits(def, maxLimit int) (PageLimits, error) {
	var defErr, maxErr error
	if maxLimit < 1 {
		maxErr = errs.NewValueIsOutOfRangeError("max page limit", maxLimit, 1, math.MaxInt)
	}
	if def < 1 || def > maxLimit {
		defErr = errs.NewValueIsOutOfRangeError("default page limit", def, 1, maxLimit)
	}
	if err := errors.Join(defErr, maxErr); err != nil {
		return PageLimits{}, err
	}
	return PageLimits{Default: def, Max: maxLimit}, nil
}

// resolve builds the page for the given raw params. A missing param takes its
// default. It returns nil when neither is set and the read is not paged.
func (l PageLimits) resolve(offset, limit *int, required bool) (*fetch.Page, error) {
	if offset == nil && limit == nil && !required {
		return nil, nil
	}

	o, n := 0, l.Default
	if offset != nil {
		o = *offset
	}
	if limit != nil {
		n = *limit
		if n > l.Max {
			return nil, errs.NewValueIsOutOfRangeError("limit", n, 1, l.Max)
		}
	}

	page, err := fetch.NewPage(o, n)
	if err != nil {
		return nil, err
	}
	return &page, nil
}
