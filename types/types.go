package types

import (
	"strings"

	sppb "cloud.google.com/go/spanner/apiv1/spannerpb"
	"github.com/go-playground/validator/v10"
)

// Type is the declared parameter type used by statement source files.
type Type string

const (
	STRING    Type = "STRING"
	INT64     Type = "INT64"
	FLOAT64   Type = "FLOAT64"
	BOOL      Type = "BOOL"
	DATE      Type = "DATE"
	TIMESTAMP Type = "TIMESTAMP"
	NUMERIC   Type = "NUMERIC"
	BYTES     Type = "BYTES"
)

// Element returns the element type of an ARRAY<...> declaration and
// whether t is one.
func (t Type) Element() (Type, bool) {
	s := string(t)
	if !strings.HasPrefix(s, "ARRAY<") || !strings.HasSuffix(s, ">") {
		return "", false
	}
	return Type(s[len("ARRAY<") : len(s)-1]), true
}

func (t Type) TypeCode() sppb.TypeCode {
	switch t {
	case STRING:
		return sppb.TypeCode_STRING
	case INT64:
		return sppb.TypeCode_INT64
	case FLOAT64:
		return sppb.TypeCode_FLOAT64
	case BOOL:
		return sppb.TypeCode_BOOL
	case DATE:
		return sppb.TypeCode_DATE
	case TIMESTAMP:
		return sppb.TypeCode_TIMESTAMP
	case NUMERIC:
		return sppb.TypeCode_NUMERIC
	case BYTES:
		return sppb.TypeCode_BYTES
	}
	if _, ok := t.Element(); ok {
		return sppb.TypeCode_ARRAY
	}
	return sppb.TypeCode_TYPE_CODE_UNSPECIFIED
}

func TypeValidation(fl validator.FieldLevel) bool {
	t := Type(fl.Field().String())
	if elem, ok := t.Element(); ok {
		// ARRAY<ARRAY<...>> is not a valid parameter declaration
		if _, nested := elem.Element(); nested {
			return false
		}
		return elem.TypeCode() != sppb.TypeCode_TYPE_CODE_UNSPECIFIED
	}
	return t.TypeCode() != sppb.TypeCode_TYPE_CODE_UNSPECIFIED
}

func RegisterTypeValidation(v *validator.Validate) {
	v.RegisterValidation("paramtype", TypeValidation)
}
