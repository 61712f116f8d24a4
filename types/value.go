package types

import (
	"encoding/base64"
	"strconv"
	"time"

	"cloud.google.com/go/civil"
	sppb "cloud.google.com/go/spanner/apiv1/spannerpb"
	"github.com/shopspring/decimal"
	"google.golang.org/protobuf/types/known/structpb"
)

// Param is implemented by every native shape that can be bound as a
// statement parameter. Encode produces the wire value and Type the Spanner
// type descriptor accompanying it.
//
// The wire value model only knows string, number, bool, null, list and
// struct, so every other shape is carried as a string and the descriptor
// tells the server how to read it back. The string format is part of the
// protocol: a wrong format for a declared type fails on the server, not
// here.
//
// Type must not depend on the receiver's value. The generic wrappers call
// it on zero values, e.g. to derive the element type of an empty Array.
type Param interface {
	Encode() *structpb.Value
	Type() *sppb.Type
}

// commitTimestampLiteral instructs the server to substitute the enclosing
// transaction's commit time.
const commitTimestampLiteral = "spanner.commit_timestamp()"

// timestampLayout is RFC 3339 with a fixed nine digit fraction and an
// explicit UTC marker, the form Spanner expects for TIMESTAMP parameters.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

func scalarType(code sppb.TypeCode) *sppb.Type {
	return &sppb.Type{Code: code}
}

type String string

func (v String) Encode() *structpb.Value {
	return structpb.NewStringValue(string(v))
}

func (v String) Type() *sppb.Type {
	return scalarType(sppb.TypeCode_STRING)
}

// Int64 is carried as its decimal string form; the wire number kind is a
// float64 and cannot hold the full int64 range.
type Int64 int64

func (v Int64) Encode() *structpb.Value {
	return structpb.NewStringValue(strconv.FormatInt(int64(v), 10))
}

func (v Int64) Type() *sppb.Type {
	return scalarType(sppb.TypeCode_INT64)
}

type Float64 float64

func (v Float64) Encode() *structpb.Value {
	return structpb.NewNumberValue(float64(v))
}

func (v Float64) Type() *sppb.Type {
	return scalarType(sppb.TypeCode_FLOAT64)
}

type Bool bool

func (v Bool) Encode() *structpb.Value {
	return structpb.NewBoolValue(bool(v))
}

func (v Bool) Type() *sppb.Type {
	return scalarType(sppb.TypeCode_BOOL)
}

// Date is a calendar date with no time component, carried as YYYY-MM-DD.
type Date civil.Date

func (v Date) Encode() *structpb.Value {
	return structpb.NewStringValue(civil.Date(v).String())
}

func (v Date) Type() *sppb.Type {
	return scalarType(sppb.TypeCode_DATE)
}

// Timestamp is converted to UTC before formatting.
type Timestamp time.Time

func (v Timestamp) Encode() *structpb.Value {
	return structpb.NewStringValue(time.Time(v).UTC().Format(timestampLayout))
}

func (v Timestamp) Type() *sppb.Type {
	return scalarType(sppb.TypeCode_TIMESTAMP)
}

// CommitTimestamp binds the commit timestamp placeholder instead of a
// literal time.
type CommitTimestamp struct{}

func (CommitTimestamp) Encode() *structpb.Value {
	return structpb.NewStringValue(commitTimestampLiteral)
}

func (CommitTimestamp) Type() *sppb.Type {
	return scalarType(sppb.TypeCode_TIMESTAMP)
}

type Bytes []byte

func (v Bytes) Encode() *structpb.Value {
	return structpb.NewStringValue(base64.StdEncoding.EncodeToString(v))
}

func (v Bytes) Type() *sppb.Type {
	return scalarType(sppb.TypeCode_BYTES)
}

type Numeric decimal.Decimal

func (v Numeric) Encode() *structpb.Value {
	return structpb.NewStringValue(decimal.Decimal(v).String())
}

func (v Numeric) Type() *sppb.Type {
	return scalarType(sppb.TypeCode_NUMERIC)
}
