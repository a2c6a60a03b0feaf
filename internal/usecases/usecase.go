// Package usecases defines the validate-then-execute contract every business
// operation implements, and the runner that enforces it.
package usecases

import (
	"context"
	"sort"
	"time"

	apperrors "notifyhub/internal/common/errors"
	"notifyhub/internal/common/metrics"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// UseCase is the pipeline contract. Validate coerces raw input (trimming,
// defaults) and reports failures as a multi-field ValidationError; Execute is
// only invoked with validated input and is the sole place side effects may
// happen. Errors out of Execute propagate to the caller untranslated.
type UseCase[I, O any] interface {
	Name() string
	Validate(ctx context.Context, input I) (I, error)
	Execute(ctx context.Context, input I) (O, error)
}

// Run drives one invocation through the pipeline and records metrics. Each
// call is independent; no state is shared across invocations.
func Run[I, O any](ctx context.Context, uc UseCase[I, O], input I) (O, error) {
	start := time.Now()

	validated, err := uc.Validate(ctx, input)
	if err != nil {
		metrics.UseCaseFailures.WithLabelValues(uc.Name(), string(apperrors.KindOf(err))).Inc()
		var zero O
		return zero, err
	}

	out, err := uc.Execute(ctx, validated)
	metrics.UseCaseDuration.WithLabelValues(uc.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UseCaseFailures.WithLabelValues(uc.Name(), string(apperrors.KindOf(err))).Inc()
	}
	return out, err
}

// WrapValidation converts an ozzo validation result into the core's
// multi-field ValidationError, flattening nested struct errors into dotted
// field paths ("to.email"). Non-ozzo errors pass through unchanged; nil stays
// nil.
func WrapValidation(err error) error {
	if err == nil {
		return nil
	}
	errs, ok := err.(validation.Errors)
	if !ok {
		return err
	}
	return apperrors.NewValidation(flattenValidationErrors("", errs)...)
}

func flattenValidationErrors(prefix string, errs validation.Errors) []apperrors.FieldError {
	var details []apperrors.FieldError

	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		if nested, ok := errs[k].(validation.Errors); ok {
			details = append(details, flattenValidationErrors(path, nested)...)
			continue
		}
		details = append(details, apperrors.FieldError{Field: path, Message: errs[k].Error()})
	}
	return details
}
