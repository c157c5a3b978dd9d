package models

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("palette", func(fl validator.FieldLevel) bool {
		return IsPaletteColor(fl.Field().String())
	})
	return v
}

// FieldError describes one invalid field of a deck payload.
type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) String() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ValidateDeck checks the fields a persisted deck must carry. It returns nil
// or a slice of field errors.
func ValidateDeck(d Deck) []FieldError {
	err := validate.Struct(d)
	if err == nil {
		if strings.TrimSpace(d.Title) == "" {
			return []FieldError{{Field: "title", Reason: "must not be blank"}}
		}
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "deck", Reason: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fieldPath(fe), Reason: reason(fe)})
	}
	return out
}

// fieldPath turns "Deck.Cards[0].ID" into "cards[0].id".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	return strings.ToLower(ns)
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "palette":
		return fmt.Sprintf("%q is not a palette color", fe.Value())
	case "gte":
		return "must not be negative"
	default:
		return fmt.Sprintf("failed %s check", fe.Tag())
	}
}
