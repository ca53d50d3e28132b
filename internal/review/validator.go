package review

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

func newValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return validate, trans, nil
}

// validate checks input and converts validation failures into ErrInvalidScore when
// the score is at fault, or ErrInvalidInput otherwise.
func (s *Service) validate(input any) error {
	err := s.validator.Struct(input)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("validator.Struct() > %w", err)
	}

	sentinel := ErrInvalidInput
	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		if e.Field() == scoreField {
			sentinel = ErrInvalidScore
		}
		messages = append(messages, e.Translate(s.translator))
	}
	return fmt.Errorf("%w: %s", sentinel, strings.Join(messages, ", "))
}
