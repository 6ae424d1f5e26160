// Package validate provides the process-wide struct validator and JSON line binding
// used for ticket input. Messages are translated to English or Spanish
package validate

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"
	"sync"
	"unicode/utf8"

	perr "vortex/internal/platform/errors"
	"vortex/internal/platform/logger"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/es"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	es_translations "github.com/go-playground/validator/v10/translations/es"
)

// FieldError aliases validator.FieldError
type FieldError = validator.FieldError

// Svc holds a singleton validator and its translators keyed by locale
type Svc struct {
	Validator   *validator.Validate
	translators map[string]ut.Translator
}

var (
	vOnce    sync.Once
	vSvc     *Svc
	jsonMore = func(dec *json.Decoder) bool { return dec.More() } // seam
)

// Init initializes the singleton validator with en/es translations and json tag names
func Init() *Svc {
	vOnce.Do(func() {
		enLoc, esLoc := en.New(), es.New()
		uni := ut.New(enLoc, enLoc, esLoc)
		enT, _ := uni.GetTranslator("en")
		esT, _ := uni.GetTranslator("es")

		v := validator.New(validator.WithRequiredStructEnabled())

		// prefer json tag names in messages
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag := fld.Tag.Get("json")
			if tag == "-" || tag == "" {
				return fld.Name
			}
			if idx := strings.Index(tag, ","); idx >= 0 {
				tag = tag[:idx]
			}
			return tag
		})

		_ = en_translations.RegisterDefaultTranslations(v, enT)
		_ = es_translations.RegisterDefaultTranslations(v, esT)

		_ = v.RegisterValidation("utf8text", func(fl validator.FieldLevel) bool {
			return fl.Field().Kind() == reflect.String && utf8.ValidString(fl.Field().String())
		})
		registerMessage(v, enT, "utf8text", "{0} must be valid UTF-8 text")
		registerMessage(v, esT, "utf8text", "{0} debe ser texto UTF-8 válido")

		vSvc = &Svc{
			Validator:   v,
			translators: map[string]ut.Translator{"en": enT, "es": esT},
		}
	})
	return vSvc
}

// Get returns the validator singleton, initializing on first use
func Get() *Svc { return Init() }

// Translator returns the translator for locale, falling back to English
func (s *Svc) Translator(locale string) ut.Translator {
	if t, ok := s.translators[strings.ToLower(locale)]; ok {
		return t
	}
	return s.translators["en"]
}

// Struct validates v and maps the first failure to an InvalidInput error carrying the field
func Struct(v any, locale string) error {
	svc := Get()
	err := svc.Validator.Struct(v)
	if err == nil {
		return nil
	}
	var inv *validator.InvalidValidationError
	if errors.As(err, &inv) {
		logger.Get().Error().Err(inv).Msg("validator internal error")
		return perr.Wrap(inv, perr.ErrorCodeValidation, "validation error")
	}
	field, msg := FieldAndMessage(err, locale)
	return perr.WithField(perr.Newf(perr.ErrorCodeInvalidInput, "%s", msg), field)
}

// FieldAndMessage returns the first failing field and its translated message
func FieldAndMessage(err error, locale string) (field, message string) {
	if err == nil {
		return "", ""
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fe.Field(), fe.Translate(Get().Translator(locale))
	}
	return "", err.Error()
}

// ParseJSONLine decodes a single JSON document into T, rejecting unknown fields and
// trailing data, then validates it. Blank lines are reported as JSON errors
func ParseJSONLine[T any](line []byte, locale string) (T, error) {
	var zero T
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return zero, perr.JSONErrf("empty line")
	}

	dec := json.NewDecoder(bytes.NewReader(line))
	dec.DisallowUnknownFields()

	var dst T
	if err := dec.Decode(&dst); err != nil {
		if errors.Is(err, io.EOF) {
			return zero, perr.JSONErrf("empty document")
		}
		return zero, perr.JSONErrf("invalid JSON: %v", err)
	}
	if jsonMore(dec) {
		return zero, perr.JSONErrf("unexpected trailing data")
	}

	if err := Struct(dst, locale); err != nil {
		return zero, err
	}
	return dst, nil
}

func registerMessage(v *validator.Validate, trans ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error {
			return ut.Add(tag, text, true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T(tag, fe.Field())
			return msg
		},
	)
}
