package server

import (
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/khrees2412/jobscout/pkg/models"
)

var registerOnce sync.Once

// RegisterValidators registers the custom rules used in request tags.
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("relocation", ValidRelocation)
}

// registerBindingValidators installs the custom rules on gin's validator.
func registerBindingValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			RegisterValidators(v)
		}
	})
}

// ValidRelocation accepts any, yes or no in any case. Empty is allowed, use
// required if needed.
func ValidRelocation(fl validator.FieldLevel) bool {
	switch strings.ToLower(strings.TrimSpace(fl.Field().String())) {
	case "", models.RelocationAny, models.RelocationYes, models.RelocationNo:
		return true
	}
	return false
}
