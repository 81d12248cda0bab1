package validate

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/go-registration-api/internal/domain"
)

// v is the package-level singleton validator. It is initialised once at
// package load time; custom tags for the closed enum sets are registered in init.
var v = validator.New()

func init() {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister("client_type", func(s string) bool { return domain.ClientType(s).Valid() })
	mustRegister("organization", func(s string) bool { return domain.Organization(s).Valid() })
	mustRegister("category", func(s string) bool { return domain.Category(s).Valid() })
	mustRegister("referral_source", func(s string) bool { return domain.ReferralSource(s).Valid() })
}

func mustRegister(tag string, valid func(string) bool) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return valid(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

// Struct validates the given struct using its validate tags.
// Returns a human-readable error wrapping domain.ErrValidation, or nil.
func Struct(s interface{}) error {
	if err := v.Struct(s); err != nil {
		ve, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		var msgs []string
		for _, fe := range ve {
			msgs = append(msgs, fmt.Sprintf("field '%s' failed '%s'", fieldPath(fe), fe.Tag()))
		}
		return fmt.Errorf("%s: %w", strings.Join(msgs, "; "), domain.ErrValidation)
	}
	return nil
}

// fieldPath drops the top-level struct name from the namespace,
// e.g. "RegisterRequest.education.school" -> "education.school".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}
