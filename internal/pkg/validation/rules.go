package validation

import (
	"fmt"
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// College slug: words of letters and digits joined by single hyphens
	SlugPattern = `^[A-Za-z0-9]+(-[A-Za-z0-9]+)*$`

	// Admission year - 4 digits
	YearPattern = `^\d{4}$`

	// Slug max length
	SlugMaxLength = 120
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	Slug *regexp.Regexp
	Year *regexp.Regexp
}{
	Slug: regexp.MustCompile(SlugPattern),
	Year: regexp.MustCompile(YearPattern),
}

// Register adds the custom "slug" and "year" tags to v.
func Register(v *validator.Validate) error {
	if err := v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return IsSlug(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("register slug rule: %w", err)
	}
	if err := v.RegisterValidation("year", func(fl validator.FieldLevel) bool {
		return NewStringValidation(fl.Field().String()).WithPattern(CompiledPatterns.Year).Validate()
	}); err != nil {
		return fmt.Errorf("register year rule: %w", err)
	}
	return nil
}

// RegisterWithGin installs the custom tags on gin's default binding engine.
func RegisterWithGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding engine %T", binding.Validator.Engine())
	}
	return Register(v)
}

// IsSlug reports whether s is a well formed college slug.
func IsSlug(s string) bool {
	return NewStringValidation(s).
		WithMaxLength(SlugMaxLength).
		WithPattern(CompiledPatterns.Slug).
		Validate()
}

// String validation
type StringValidation struct {
	Value    string
	MinLen   int
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp
}

// NewStringValidation creates a new string validation
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{
		Value:    value,
		Required: true,
	}
}

// WithMinLength sets minimum length
func (v *StringValidation) WithMinLength(min int) *StringValidation {
	v.MinLen = min
	return v
}

// WithMaxLength sets maximum length
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// WithPattern sets regex pattern
func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

// WithRequired sets if field is required
func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Validate performs validation
func (v *StringValidation) Validate() bool {
	if v.Value == "" {
		return !v.Required
	}
	if v.MinLen > 0 && len(v.Value) < v.MinLen {
		return false
	}
	if v.MaxLen > 0 && len(v.Value) > v.MaxLen {
		return false
	}
	if v.Pattern != nil && !v.Pattern.MatchString(v.Value) {
		return false
	}
	return true
}
