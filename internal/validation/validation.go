package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"slidedeck/internal/models"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator

	// custom validation tags & texts
	pageOrderTag  = "pageorder"
	pageOrderText = "{0} must be numbered 1..N without gaps or duplicates"
	zOrderTag     = "zorder"
	zOrderText    = "{0} must not repeat a zIndex"
)

// Instantiate the validator for use.
func init() {
	Validate = validator.New()

	// Register the english error messages for validation errors.
	_en := en.New()
	uni := ut.New(_en, _en)
	Translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(Validate, Translator)

	// Use JSON tag names for errors instead of Go struct names.
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	Validate.RegisterStructValidation(presentationValidation, models.Presentation{})
	Validate.RegisterStructValidation(slideValidation, models.Slide{})
	registerCustomTranslation(pageOrderTag, pageOrderText)
	registerCustomTranslation(zOrderTag, zOrderText)
}

func registerCustomTranslation(tag, text string) {
	_ = Validate.RegisterTranslation(
		tag, Translator,
		func(t ut.Translator) error { return t.Add(tag, text, false) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// presentationValidation requires page numbers to be exactly 1..N.
func presentationValidation(sl validator.StructLevel) {
	p := sl.Current().Interface().(models.Presentation)
	pages := make([]int, len(p.Slides))
	for i, s := range p.Slides {
		pages[i] = s.PageNumber
	}
	sort.Ints(pages)
	for i, n := range pages {
		if n != i+1 {
			sl.ReportError(p.Slides, "slides", "Slides", pageOrderTag, "")
			return
		}
	}
}

// slideValidation requires zIndex values to be unique within a slide.
func slideValidation(sl validator.StructLevel) {
	s := sl.Current().Interface().(models.Slide)
	seen := make(map[int]bool, len(s.Components))
	for _, c := range s.Components {
		if seen[c.ZIndex] {
			sl.ReportError(s.Components, "components", "Components", zOrderTag, "")
			return
		}
		seen[c.ZIndex] = true
	}
}

// Error carries translated messages keyed by JSON field path.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	return strings.Join(e.Messages(), "; ")
}

// Messages returns the field messages in a stable order.
func (e *Error) Messages() []string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, e.Fields[k])
	}
	return out
}

// Struct validates v and converts validator errors to *Error.
func Struct(v interface{}) error {
	err := Validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validation: %w", err)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldPath(fe.Namespace())] = fe.Translate(Translator)
	}
	return &Error{Fields: fields}
}

// fieldPath drops the root type name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
