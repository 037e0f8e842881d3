package registry

import (
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"
)

const objectNameRegex = `^[a-z_][a-z0-9_]*$`
const objectNameMaxLength = 63

var objectNameRe = regexp.MustCompile(objectNameRegex)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// V returns the validator shared by all declaration checks.
func V() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterValidation("objectName", objectNameValidator)
	})
	return validate
}

// objectNameValidator checks names of entities, sources, views, fields and services.
func objectNameValidator(fl validator.FieldLevel) bool {
	return ValidateObjectName(fl.Field().String())
}

func ValidateObjectName(name string) bool {
	if len(name) > objectNameMaxLength {
		return false
	}
	return objectNameRe.MatchString(name)
}
