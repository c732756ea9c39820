package ilerr

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
)

// Errors accumulates the errors of a load. A nil *Errors holds no errors.
type Errors struct {
	errs []IleError
}

func (r *Errors) With(err ...IleError) *Errors {
	if r == nil {
		return &Errors{errs: err}
	}
	r.errs = append(r.errs, err...)
	return r
}

func (r *Errors) Merge(err *Errors) *Errors {
	if r == nil {
		return err
	}
	if err == nil || len(err.errs) == 0 {
		return r
	}
	return r.With(err.errs...)
}

// Errors returns the accumulated errors sorted by position
func (r *Errors) Errors() []IleError {
	if r == nil {
		return nil
	}
	return slices.SortedStableFunc(slices.Values(r.errs), func(a, b IleError) int {
		return cmp.Compare(a.Pos(), b.Pos())
	})
}

func (r *Errors) HasError() bool {
	if r == nil {
		return false
	}
	return len(r.errs) > 0
}

func (r *Errors) LogValue() slog.Value {
	var vals []slog.Attr
	for i, v := range r.Errors() {
		vals = append(vals, slog.Attr{
			Key: fmt.Sprint("e", i),
			Value: slog.GroupValue(
				slog.Attr{
					Key:   "msg",
					Value: slog.StringValue(FormatWithCode(v)),
				},
			),
		})
	}
	return slog.GroupValue(vals...)
}
