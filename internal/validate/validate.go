// Package validate declares field-level request validation rules and runs
// them as a concurrent task group.
//
// Each rule is an independent predicate over a single field value. Run
// launches every rule, joins all of them (no short-circuit on the first
// violation), and returns the violations in rule declaration order
// regardless of completion order. An empty result means the payload passed;
// callers convert a non-empty result into apperr.Validation and divert to
// the error responder.
package validate

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nordstack/go-api-starter/internal/apperr"
)

// Rule checks one field and reports at most one violation.
type Rule struct {
	// Field is the payload field the rule applies to, as it should appear
	// in the violation list (e.g. "name").
	Field string

	check func(ctx context.Context) *apperr.Violation
}

var (
	fieldCaser = cases.Title(language.English)
	emailRE    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// label renders a field name for human-readable messages ("name" → "Name").
func label(field string) string {
	return fieldCaser.String(field)
}

func rule(field string, fn func() *apperr.Violation) Rule {
	return Rule{Field: field, check: func(ctx context.Context) *apperr.Violation {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		return fn()
	}}
}

// Required fails when the trimmed value is empty.
func Required(field, value string) Rule {
	return rule(field, func() *apperr.Violation {
		if strings.TrimSpace(value) == "" {
			return &apperr.Violation{Field: field, Message: label(field) + " is required"}
		}
		return nil
	})
}

// Email fails when the value is not a plausible email address.
func Email(field, value string) Rule {
	return rule(field, func() *apperr.Violation {
		if !emailRE.MatchString(value) {
			return &apperr.Violation{Field: field, Message: label(field) + " must be a valid email address"}
		}
		return nil
	})
}

// MinLen fails when the value is shorter than min runes.
func MinLen(field, value string, min int) Rule {
	return rule(field, func() *apperr.Violation {
		if utf8.RuneCountInString(value) < min {
			return &apperr.Violation{
				Field:   field,
				Message: fmt.Sprintf("%s must be at least %d characters long", label(field), min),
			}
		}
		return nil
	})
}

// MaxLen fails when the value is longer than max runes.
func MaxLen(field, value string, max int) Rule {
	return rule(field, func() *apperr.Violation {
		if utf8.RuneCountInString(value) > max {
			return &apperr.Violation{
				Field:   field,
				Message: fmt.Sprintf("%s must be at most %d characters long", label(field), max),
			}
		}
		return nil
	})
}

// LenBetween fails when the rune length falls outside [min, max].
func LenBetween(field, value string, min, max int) Rule {
	return rule(field, func() *apperr.Violation {
		n := utf8.RuneCountInString(value)
		if n < min || n > max {
			return &apperr.Violation{
				Field:   field,
				Message: fmt.Sprintf("%s must be between %d and %d characters long", label(field), min, max),
			}
		}
		return nil
	})
}

// Matches fails when the value does not match re. The message falls back to
// a generic format notice when msg is empty.
func Matches(field, value string, re *regexp.Regexp, msg string) Rule {
	return rule(field, func() *apperr.Violation {
		if !re.MatchString(value) {
			m := msg
			if m == "" {
				m = label(field) + " has an invalid format"
			}
			return &apperr.Violation{Field: field, Message: m}
		}
		return nil
	})
}

// Range fails when the numeric value falls outside [min, max].
func Range(field string, value, min, max float64) Rule {
	return rule(field, func() *apperr.Violation {
		if value < min || value > max {
			return &apperr.Violation{
				Field:   field,
				Message: fmt.Sprintf("%s must be between %g and %g", label(field), min, max),
			}
		}
		return nil
	})
}

// Optional makes a rule vacuously satisfied when the field is absent
// (empty value). Present values are still checked.
func Optional(r Rule, value string) Rule {
	inner := r.check
	return Rule{Field: r.Field, check: func(ctx context.Context) *apperr.Violation {
		if strings.TrimSpace(value) == "" {
			return nil
		}
		return inner(ctx)
	}}
}

// Custom wraps an arbitrary predicate as a rule. fn returns a message when
// the field is invalid and "" when it passes.
func Custom(field string, fn func(ctx context.Context) string) Rule {
	return Rule{Field: field, check: func(ctx context.Context) *apperr.Violation {
		if msg := fn(ctx); msg != "" {
			return &apperr.Violation{Field: field, Message: msg}
		}
		return nil
	}}
}

// Run executes all rules concurrently and joins the results.
//
// The returned slice contains one entry per failed rule, in the order the
// rules were declared — completion order never leaks into the result. A nil
// slice means all rules passed.
func Run(ctx context.Context, rules ...Rule) []apperr.Violation {
	if len(rules) == 0 {
		return nil
	}

	results := make([]*apperr.Violation, len(rules))
	g, gctx := errgroup.WithContext(ctx)
	for i, r := range rules {
		g.Go(func() error {
			results[i] = r.check(gctx)
			return nil
		})
	}
	// Rules never return errors; the group is a join point only.
	_ = g.Wait()

	var out []apperr.Violation
	for _, v := range results {
		if v != nil {
			out = append(out, *v)
		}
	}
	return out
}
