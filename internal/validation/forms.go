package validation

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

type fieldKind int

const (
	kindText fieldKind = iota
	kindEmail
	kindPhone
	kindAmount
)

const (
	MinEB5Investment = 800000
	MaxEB5Investment = 1e9
)

// Field is one rule of an intake form.
type Field struct {
	Name      string
	Required  bool
	MinLength int
	MinMsg    string
	Kind      fieldKind
	OneOf     []string
	// Min and Max bound a kindAmount field.
	Min, Max float64
}

func required(name string) Field { return Field{Name: name, Required: true} }

func details(name string, n int, msg string) Field {
	return Field{Name: name, Required: true, MinLength: n, MinMsg: msg}
}

var (
	emailField = Field{Name: "email", Required: true, Kind: kindEmail}
	phoneField = Field{Name: "phone", Required: true, Kind: kindPhone}
)

// formSchemas lists the rules for every intake form type.
var formSchemas = map[string][]Field{
	"client-intake": {
		required("fullName"), emailField, phoneField, required("serviceType"),
		details("description", 10, MsgMoreDetails),
		{Name: "urgency", OneOf: []string{"immediate", "standard", "flexible"}},
	},
	"qualification": {
		required("companyName"), required("industry"),
		details("legalNeeds", 10, MsgMoreDetails),
	},
	"immigration-intake": {
		required("fullName"), emailField, phoneField,
		required("citizenship"), required("currentStatus"), required("visaType"),
	},
	"ai-governance-intake": {
		required("companyName"), required("contactName"), emailField,
		{Name: "phone", Kind: kindPhone}, required("industry"),
		details("aiUseCases", 20, MsgMoreAIUseCases),
	},
	"eb1-intake": {
		required("fullLegalName"), emailField, phoneField,
		required("currentLocation"), required("citizenship"), required("primaryField"),
		details("workDescription", 10, MsgMoreDetails), required("highestDegree"),
	},
	"eb2-niw-intake": {
		required("fullLegalName"), emailField, phoneField, required("dateOfBirth"),
		required("citizenship"), required("currentLocation"),
		{Name: "hasAdvancedDegree", Required: true, OneOf: []string{"yes", "no"}},
		required("highestDegree"), required("degreeDetails"), required("primaryField"),
		details("proposedEndeavor", 10, MsgMoreDetails),
		details("nationalImportance", 10, MsgMoreDetails),
		required("substantialMerit"),
	},
	"eb5-intake": {
		required("fullLegalName"), emailField, phoneField, required("dateOfBirth"),
		required("citizenship"), required("currentLocation"), required("investmentPathway"),
		required("teaStatus"), required("liquidAssets"),
		{Name: "investmentAmount", Kind: kindAmount, Min: MinEB5Investment, Max: MaxEB5Investment},
		details("sofDetails", 10, MsgMoreDetails), required("taxCompliance"),
		required("criminalHistory"),
	},
	"ma-intake": {
		required("companyName"), required("contactName"), emailField,
		{Name: "phone", Kind: kindPhone}, required("transactionType"),
		details("description", 10, MsgMoreDetails),
	},
	"contact": {
		required("name"), emailField, required("subject"),
		details("message", 10, MsgMoreDetails),
	},
}

// IsFormType reports whether formType has a schema.
func IsFormType(formType string) bool {
	_, ok := formSchemas[formType]
	return ok
}

// FormTypes returns the known form types in sorted order.
func FormTypes() []string {
	out := make([]string, 0, len(formSchemas))
	for k := range formSchemas {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Form validates data against the schema of formType.
func (v *Validator) Form(formType string, data map[string]interface{}) {
	fields, ok := formSchemas[formType]
	if !ok {
		v.AddError("form_type", fmt.Sprintf("unknown form type %q", formType))
		return
	}

	for _, f := range fields {
		raw, present := data[f.Name]
		value, isString := raw.(string)
		if present && raw != nil && !isString {
			v.AddError(f.Name, "must be a string")
			continue
		}

		if value == "" {
			if f.Required {
				v.AddError(f.Name, MsgRequired)
			}
			continue
		}

		switch f.Kind {
		case kindEmail:
			v.Email(f.Name, value)
		case kindPhone:
			v.Phone(f.Name, value)
		case kindAmount:
			amount, ok := ParseAmount(value)
			if !ok {
				v.AddError(f.Name, MsgInvalidAmount)
				continue
			}
			v.Range(f.Name, amount, f.Min, f.Max)
		}
		if f.MinLength > 0 && len(value) < f.MinLength {
			v.AddError(f.Name, f.MinMsg)
		}
		if len(f.OneOf) > 0 {
			v.OneOf(f.Name, value, f.OneOf...)
		}
	}
}

// ParseAmount reads a dollar amount such as "$1,050,000".
func ParseAmount(s string) (float64, bool) {
	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
