package config

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// FeatureColumns is the set of columns the predictor can encode.
var FeatureColumns = map[string]bool{
	"roast_intensity":  true,
	"app_name":         true,
	"day_of_week":      true,
	"roast_category_1": true,
	"roast_category_2": true,
	"usage_category":   true,
	"is_weekend":       true,
	"month":            true,
}

var (
	vOnce  sync.Once
	vInst  *validator.Validate
	vTrans ut.Translator
)

func structValidator() (*validator.Validate, ut.Translator) {
	vOnce.Do(func() {
		enLoc := en.New()
		uni := ut.New(enLoc, enLoc)
		trans, _ := uni.GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag := fld.Tag.Get("yaml")
			if idx := strings.Index(tag, ","); idx >= 0 {
				tag = tag[:idx]
			}
			if tag == "" || tag == "-" {
				return fld.Name
			}
			return tag
		})
		_ = en_translations.RegisterDefaultTranslations(v, trans)

		_ = v.RegisterValidation("feature_column", func(fl validator.FieldLevel) bool {
			return FeatureColumns[fl.Field().String()]
		})
		_ = v.RegisterTranslation("feature_column", trans,
			func(ut ut.Translator) error {
				return ut.Add("feature_column", "{0} must name an encodable column", true)
			},
			func(ut ut.Translator, fe validator.FieldError) string {
				msg, _ := ut.T("feature_column", fe.Field())
				return msg
			},
		)

		vInst, vTrans = v, trans
	})
	return vInst, vTrans
}

// Validate checks field constraints and cross-field rules.
func (c Config) Validate() error {
	v, trans := structValidator()

	var msgs []string
	if err := v.Struct(c); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return fmt.Errorf("invalid config: %w", err)
		}
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s: %s", trimNamespace(fe.Namespace()), fe.Translate(trans)))
		}
	}

	for _, in := range c.Data.ValidIntensities {
		if _, ok := c.Roast.IntensityInstructions[in]; !ok {
			msgs = append(msgs, fmt.Sprintf("roast.intensity_instructions: missing entry for %q", in))
		}
	}

	if len(msgs) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
	}
	return nil
}

func trimNamespace(ns string) string {
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return ns
}
