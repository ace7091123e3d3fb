// Package validation checks request fields against declarative rule tables
// before a handler runs.
package validation

import (
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"

	"user-account/models"
)

const bodyLocation = "body"

// Rule is one field constraint. Tag is a go-playground/validator tag evaluated
// against the (optionally trimmed) value. Optional rules are skipped when the
// field is absent; a present but empty value is still checked.
type Rule struct {
	Field    string
	Message  string
	Optional bool
	Trim     bool
	Tag      string
}

type Ruleset []Rule

// Length limits follow the users table columns.
const (
	nameMaxTag  = "max=100"
	emailMaxTag = "max=255"
)

var Register = Ruleset{
	{Field: "name", Message: "Name is required", Trim: true, Tag: "required"},
	{Field: "name", Message: "Name must be at most 100 characters", Optional: true, Trim: true, Tag: nameMaxTag},
	{Field: "email", Message: "Enter a valid email id", Tag: "email"},
	{Field: "email", Message: "Email must be at most 255 characters", Optional: true, Tag: emailMaxTag},
	{Field: "phone", Message: "Enter a valid 10 digit phone number", Optional: true, Tag: "len=10"},
	{Field: "password", Message: "Password must have 6 or more characters", Tag: "min=6"},
}

var Update = Ruleset{
	{Field: "name", Message: "Name is required", Optional: true, Trim: true, Tag: "required"},
	{Field: "name", Message: "Name must be at most 100 characters", Optional: true, Trim: true, Tag: nameMaxTag},
	{Field: "email", Message: "Enter a valid email id", Optional: true, Tag: "email"},
	{Field: "email", Message: "Email must be at most 255 characters", Optional: true, Tag: emailMaxTag},
	{Field: "phone", Message: "Enter a valid 10 digit phone number", Optional: true, Tag: "len=10"},
	{Field: "password", Message: "Password should not be changed using /update", Tag: "isdefault"},
}

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	return &Validator{validate: validator.New()}
}

// Check runs every rule and returns one error per failing rule, in rule
// order. Trim rules rewrite values in place so handlers see the sanitised
// value.
func (v *Validator) Check(rules Ruleset, values url.Values) []models.FieldError {
	var errs []models.FieldError
	for _, rule := range rules {
		present := values.Has(rule.Field)
		if rule.Optional && !present {
			continue
		}

		value := values.Get(rule.Field)
		if rule.Trim && present {
			value = strings.TrimSpace(value)
			values.Set(rule.Field, value)
		}

		if err := v.validate.Var(value, rule.Tag); err != nil {
			fe := models.FieldError{Msg: rule.Message, Param: rule.Field, Location: bodyLocation}
			if present {
				fe.Value = value
			}
			errs = append(errs, fe)
		}
	}
	return errs
}

// Submission copies the known text fields out of values. profile_picture is
// only ever set from an uploaded file.
func Submission(values url.Values) models.Submission {
	return models.Submission{
		Name:     values.Get("name"),
		Email:    values.Get("email"),
		Phone:    values.Get("phone"),
		Password: values.Get("password"),
	}
}
