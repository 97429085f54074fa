package io

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/sankeytimeline/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(validateNodeTimes, NodeDef{})
	return v
}

// validateNodeTimes requires one of the two time forms on every node.
func validateNodeTimes(sl validator.StructLevel) {
	n := sl.Current().Interface().(NodeDef)
	switch {
	case n.Start == nil && n.Mean == nil:
		sl.ReportError(n.Start, "Start", "start", "time_required", "")
	case n.Start != nil && n.Mean != nil:
		sl.ReportError(n.Mean, "Mean", "mean", "time_exclusive", "")
	}
}

// Validate checks the document shape. It does not resolve link labels or
// check time ordering; see [Definition.ValidateStrict] for the latter.
func (def *Definition) Validate() error {
	if err := validate.Struct(def); err != nil {
		return formatValidationError(err)
	}
	for i, n := range def.Nodes {
		if err := errors.ValidateLabel(n.Label); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "nodes[%d]", i)
		}
	}
	return nil
}

// ValidateStrict additionally rejects malformed times with
// INVALID_TIME_RANGE.
func (def *Definition) ValidateStrict() error {
	if err := def.Validate(); err != nil {
		return err
	}
	for _, n := range def.Nodes {
		if err := n.TimeSpec().Validate(); err != nil {
			return fmt.Errorf("node %q: %w", n.Label, err)
		}
	}
	return nil
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid definition")
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, formatFieldError(e))
	}
	return errors.New(errors.ErrCodeInvalidInput, "invalid definition: %s", strings.Join(msgs, "; "))
}

func formatFieldError(e validator.FieldError) string {
	field := fieldPath(e.Namespace())
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must have at least %s entries", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, e.Param())
	case "len":
		return fmt.Sprintf("%s must have exactly %s values", field, e.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "time_required":
		return fmt.Sprintf("%s needs start/end or mean/std", strings.TrimSuffix(field, ".start"))
	case "time_exclusive":
		return fmt.Sprintf("%s sets both start and mean", strings.TrimSuffix(field, ".mean"))
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// fieldPath turns "Definition.Nodes[2].Label" into "nodes[2].label".
func fieldPath(ns string) string {
	ns = strings.TrimPrefix(ns, "Definition.")
	return strings.ToLower(ns)
}
