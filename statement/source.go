package statement

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"cloud.google.com/go/civil"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/spannerkit/spanner-params/internal/logger"
	"github.com/spannerkit/spanner-params/types"
)

// Source builds a Statement from some external declaration.
type Source func(context.Context) (*Statement, error)

// Load runs the source.
func Load(ctx context.Context, src Source) (*Statement, error) {
	return src(ctx)
}

type statementConfig struct {
	SQL    string         `yaml:"sql" json:"sql" validate:"required"`
	Params []*paramConfig `yaml:"params" json:"params"`
}

type paramConfig struct {
	Name string     `yaml:"name" json:"name" validate:"required"`
	Type types.Type `yaml:"type" json:"type" validate:"required,paramtype"`
	// a missing or null Value binds a typed null
	Value interface{} `yaml:"value" json:"value"`
}

// YAMLSource reads a statement declaration from a YAML file. Declared
// parameter types are the scalar type names plus ARRAY<scalar>; a missing
// value binds a typed null, and a TIMESTAMP whose value is the literal
// spanner.commit_timestamp() binds the commit timestamp placeholder.
func YAMLSource(path string) Source {
	return func(ctx context.Context) (*Statement, error) {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		validate := validator.New()
		types.RegisterTypeValidation(validate)
		dec := yaml.NewDecoder(
			bytes.NewBuffer(content),
			yaml.Validator(validate),
			yaml.Strict(),
		)
		var config statementConfig
		if err := dec.Decode(&config); err != nil {
			return nil, errors.New(yaml.FormatError(err, false, true))
		}
		return config.statement(ctx)
	}
}

// JSONSource reads the same declaration shape from a JSON file.
func JSONSource(path string) Source {
	return func(ctx context.Context) (*Statement, error) {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var config statementConfig
		if err := json.Unmarshal(content, &config); err != nil {
			return nil, err
		}
		return config.statement(ctx)
	}
}

func (c *statementConfig) statement(ctx context.Context) (*Statement, error) {
	stmt := New(c.SQL)
	for _, p := range c.Params {
		value, err := p.param()
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", p.Name, err)
		}
		stmt.Bind(p.Name, value)
	}
	logger.Logger(ctx).Debug(
		"loaded statement",
		zap.String("sql", c.SQL),
		zap.Int("params", len(c.Params)),
	)
	return stmt, nil
}

func (p *paramConfig) param() (types.Param, error) {
	if elem, ok := p.Type.Element(); ok {
		if p.Value == nil {
			return nullArray(elem)
		}
		items, ok := p.Value.([]interface{})
		if !ok {
			return nil, fmt.Errorf("%s requires a sequence value, got %T", p.Type, p.Value)
		}
		return arrayParam(elem, items)
	}
	if p.Value == nil {
		return nullScalar(p.Type)
	}
	return scalarParam(p.Type, p.Value)
}

func scalarParam(t types.Type, v interface{}) (types.Param, error) {
	switch t {
	case types.STRING:
		return toString(v)
	case types.INT64:
		return toInt64(v)
	case types.FLOAT64:
		return toFloat64(v)
	case types.BOOL:
		return toBool(v)
	case types.DATE:
		return toDate(v)
	case types.TIMESTAMP:
		if s, ok := v.(string); ok && s == "spanner.commit_timestamp()" {
			return types.CommitTimestamp{}, nil
		}
		return toTimestamp(v)
	case types.NUMERIC:
		return toNumeric(v)
	case types.BYTES:
		return toBytes(v)
	}
	return nil, fmt.Errorf("unsupported parameter type %q", t)
}

func nullScalar(t types.Type) (types.Param, error) {
	switch t {
	case types.STRING:
		return types.Null[types.String]{}, nil
	case types.INT64:
		return types.Null[types.Int64]{}, nil
	case types.FLOAT64:
		return types.Null[types.Float64]{}, nil
	case types.BOOL:
		return types.Null[types.Bool]{}, nil
	case types.DATE:
		return types.Null[types.Date]{}, nil
	case types.TIMESTAMP:
		return types.Null[types.Timestamp]{}, nil
	case types.NUMERIC:
		return types.Null[types.Numeric]{}, nil
	case types.BYTES:
		return types.Null[types.Bytes]{}, nil
	}
	return nil, fmt.Errorf("unsupported parameter type %q", t)
}

func nullArray(elem types.Type) (types.Param, error) {
	switch elem {
	case types.STRING:
		return types.Null[types.Array[types.String]]{}, nil
	case types.INT64:
		return types.Null[types.Array[types.Int64]]{}, nil
	case types.FLOAT64:
		return types.Null[types.Array[types.Float64]]{}, nil
	case types.BOOL:
		return types.Null[types.Array[types.Bool]]{}, nil
	case types.DATE:
		return types.Null[types.Array[types.Date]]{}, nil
	case types.TIMESTAMP:
		return types.Null[types.Array[types.Timestamp]]{}, nil
	case types.NUMERIC:
		return types.Null[types.Array[types.Numeric]]{}, nil
	case types.BYTES:
		return types.Null[types.Array[types.Bytes]]{}, nil
	}
	return nil, fmt.Errorf("unsupported array element type %q", elem)
}

func arrayParam(elem types.Type, items []interface{}) (types.Param, error) {
	switch elem {
	case types.STRING:
		return buildArray(items, toString)
	case types.INT64:
		return buildArray(items, toInt64)
	case types.FLOAT64:
		return buildArray(items, toFloat64)
	case types.BOOL:
		return buildArray(items, toBool)
	case types.DATE:
		return buildArray(items, toDate)
	case types.TIMESTAMP:
		return buildArray(items, toTimestamp)
	case types.NUMERIC:
		return buildArray(items, toNumeric)
	case types.BYTES:
		return buildArray(items, toBytes)
	}
	return nil, fmt.Errorf("unsupported array element type %q", elem)
}

func buildArray[T types.Param](items []interface{}, conv func(interface{}) (T, error)) (types.Param, error) {
	arr := make(types.Array[T], 0, len(items))
	for i, item := range items {
		v, err := conv(item)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		arr = append(arr, v)
	}
	return arr, nil
}

func toString(v interface{}) (types.String, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("cannot use %T as STRING", v)
	}
	return types.String(s), nil
}

func toInt64(v interface{}) (types.Int64, error) {
	switch vv := v.(type) {
	case int:
		return types.Int64(vv), nil
	case int64:
		return types.Int64(vv), nil
	case uint64:
		if vv > math.MaxInt64 {
			return 0, fmt.Errorf("value %d overflows INT64", vv)
		}
		return types.Int64(vv), nil
	case float64:
		if vv != math.Trunc(vv) {
			return 0, fmt.Errorf("cannot use %v as INT64", vv)
		}
		return types.Int64(vv), nil
	}
	return 0, fmt.Errorf("cannot use %T as INT64", v)
}

func toFloat64(v interface{}) (types.Float64, error) {
	switch vv := v.(type) {
	case float64:
		return types.Float64(vv), nil
	case int:
		return types.Float64(vv), nil
	case int64:
		return types.Float64(vv), nil
	case uint64:
		return types.Float64(vv), nil
	}
	return 0, fmt.Errorf("cannot use %T as FLOAT64", v)
}

func toBool(v interface{}) (types.Bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("cannot use %T as BOOL", v)
	}
	return types.Bool(b), nil
}

func toDate(v interface{}) (types.Date, error) {
	switch vv := v.(type) {
	case string:
		d, err := civil.ParseDate(vv)
		if err != nil {
			return types.Date{}, fmt.Errorf("invalid DATE value %q: %w", vv, err)
		}
		return types.Date(d), nil
	case time.Time:
		// YAML resolves unquoted dates to time.Time
		return types.Date(civil.DateOf(vv)), nil
	}
	return types.Date{}, fmt.Errorf("cannot use %T as DATE", v)
}

func toTimestamp(v interface{}) (types.Timestamp, error) {
	switch vv := v.(type) {
	case string:
		t, err := time.Parse(time.RFC3339, vv)
		if err != nil {
			return types.Timestamp{}, fmt.Errorf("invalid TIMESTAMP value %q: %w", vv, err)
		}
		return types.Timestamp(t), nil
	case time.Time:
		return types.Timestamp(vv), nil
	}
	return types.Timestamp{}, fmt.Errorf("cannot use %T as TIMESTAMP", v)
}

func toNumeric(v interface{}) (types.Numeric, error) {
	switch vv := v.(type) {
	case string:
		d, err := decimal.NewFromString(vv)
		if err != nil {
			return types.Numeric{}, fmt.Errorf("invalid NUMERIC value %q: %w", vv, err)
		}
		return types.Numeric(d), nil
	case int:
		return types.Numeric(decimal.NewFromInt(int64(vv))), nil
	case int64:
		return types.Numeric(decimal.NewFromInt(vv)), nil
	case uint64:
		if vv > math.MaxInt64 {
			return types.Numeric{}, fmt.Errorf("value %d overflows NUMERIC", vv)
		}
		return types.Numeric(decimal.NewFromInt(int64(vv))), nil
	case float64:
		return types.Numeric(decimal.NewFromFloat(vv)), nil
	}
	return types.Numeric{}, fmt.Errorf("cannot use %T as NUMERIC", v)
}

// toBytes expects base64 text, the same form the wire carries.
func toBytes(v interface{}) (types.Bytes, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("cannot use %T as BYTES", v)
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid BYTES value: %w", err)
	}
	return types.Bytes(b), nil
}
