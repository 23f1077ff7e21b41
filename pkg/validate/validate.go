// Package validate runs struct-tag validation with go-playground/validator
// and reports failures as a flat map of field path → message, ready to be
// rendered next to form inputs or returned in a JSON error envelope.
//
// Field paths use json names and index notation, without the root type:
//
//	customer_id
//	items[0].price
//
// Messages come from one process-wide catalog. Lookup tries
// "<Root>.<field>.<tag>" first, where Root is the type name of the struct
// passed to Struct, then "<field>.<tag>", then "<tag>" alone. Scope wording
// to the root type so other structs with the same json field keep theirs:
//
//	validate.RegisterMessage("Draft.price.required", "Price must be a positive number")
//	validate.RegisterMessage("Draft.price.gt", "Price must be a positive number")
//
// Example:
//
//	type LoginInput struct {
//	    Username string `json:"username" validate:"required"`
//	    Password string `json:"password" validate:"required"`
//	}
//	errs := validate.Struct(in)
//	if validate.HasErrors(errs) { ... }
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/shashiranjanraj/orderdesk/pkg/optional"
)

var (
	mu       sync.RWMutex
	engine   = newEngine()
	messages = map[string]string{
		"required": "The %s field is required.",
		"email":    "The %s must be a valid email address.",
		"gt":       "The %s must be greater than %s.",
		"gte":      "The %s must be greater than or equal to %s.",
		"lt":       "The %s must be less than %s.",
		"lte":      "The %s must be less than or equal to %s.",
		"min":      "The %s must be at least %s.",
		"max":      "The %s must not be greater than %s.",
		"oneof":    "The selected %s is invalid.",
		"url":      "The %s must be a valid URL.",
	}
)

func newEngine() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	v.RegisterCustomTypeFunc(unwrapOptional,
		optional.Value[string]{},
		optional.Value[int]{},
		optional.Value[int64]{},
		optional.Value[float64]{},
		optional.Value[bool]{},
	)
	return v
}

// ─── Public API ───────────────────────────────────────────────────────────────

// Struct validates v and returns path → message; an empty map means valid.
// Every field is checked; only the first failing rule per field is kept.
func Struct(v interface{}) map[string]string {
	errs := make(map[string]string)

	mu.RLock()
	err := engine.Struct(v)
	mu.RUnlock()
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// InvalidValidationError: v was not a struct.
		return errs
	}
	for _, fe := range verrs {
		path := fieldPath(fe.Namespace())
		if _, seen := errs[path]; !seen {
			errs[path] = message(fe)
		}
	}
	return errs
}

// HasErrors returns true when the errs map is non-empty.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

// RegisterValidation adds a custom tag.
func RegisterValidation(tag string, fn validator.Func) error {
	mu.Lock()
	defer mu.Unlock()
	return engine.RegisterValidation(tag, fn)
}

// RegisterMessage sets the text for "<Root>.<field>.<tag>", "<field>.<tag>"
// or "<tag>". Unscoped keys apply to every struct. A message may contain up
// to two %s verbs: the field name and the tag parameter.
func RegisterMessage(key, msg string) {
	mu.Lock()
	messages[key] = msg
	mu.Unlock()
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// unwrapOptional lets rules see through optional.Value; an absent value is
// nil, which fails "required".
func unwrapOptional(field reflect.Value) interface{} {
	if o, ok := field.Interface().(interface{ Interface() any }); ok {
		return o.Interface()
	}
	return nil
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return strings.ToLower(f.Name)
	}
	return name
}

// fieldPath drops the root type: "Draft.items[0].price" → "items[0].price".
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func message(fe validator.FieldError) string {
	mu.RLock()
	defer mu.RUnlock()

	root, _, _ := strings.Cut(fe.Namespace(), ".")
	key := fe.Field() + "." + fe.Tag()
	tmpl, ok := messages[root+"."+key]
	if !ok {
		tmpl, ok = messages[key]
	}
	if !ok {
		tmpl, ok = messages[fe.Tag()]
	}
	if !ok {
		return fmt.Sprintf("The %s field is invalid.", fe.Field())
	}

	switch strings.Count(tmpl, "%s") {
	case 0:
		return tmpl
	case 1:
		return fmt.Sprintf(tmpl, fe.Field())
	default:
		return fmt.Sprintf(tmpl, fe.Field(), fe.Param())
	}
}
