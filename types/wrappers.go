package types

import (
	sppb "cloud.google.com/go/spanner/apiv1/spannerpb"
	"google.golang.org/protobuf/types/known/structpb"
)

// Null wraps a shape that may be absent. An absent value encodes to null
// but still reports the inner shape's type, so the server can tell a null
// STRING from a null INT64.
type Null[T Param] struct {
	Value T
	Valid bool
}

// Nullable returns a present Null wrapping v.
func Nullable[T Param](v T) Null[T] {
	return Null[T]{Value: v, Valid: true}
}

func (n Null[T]) Encode() *structpb.Value {
	if !n.Valid {
		return structpb.NewNullValue()
	}
	return n.Value.Encode()
}

func (n Null[T]) Type() *sppb.Type {
	return n.Value.Type()
}

// Array is an ordered sequence of one shape. Element order is preserved
// exactly. The element type is derived from the shape, so an empty Array
// still carries a complete descriptor.
type Array[T Param] []T

func (a Array[T]) Encode() *structpb.Value {
	values := make([]*structpb.Value, 0, len(a))
	for _, v := range a {
		values = append(values, v.Encode())
	}
	return structpb.NewListValue(&structpb.ListValue{Values: values})
}

func (a Array[T]) Type() *sppb.Type {
	var elem T
	return &sppb.Type{
		Code:             sppb.TypeCode_ARRAY,
		ArrayElementType: elem.Type(),
	}
}

// Field is a named parameter value inside a record.
type Field struct {
	Name  string
	Value Param
}

// FieldType is a named type descriptor inside a record.
type FieldType struct {
	Name string
	Type *sppb.Type
}

// Record is implemented by user defined composite shapes. EncodeFields and
// FieldTypes must enumerate the same field names in the same order; the
// marshaller trusts that contract rather than checking it. FieldTypes is
// called on zero values, so implement both on a value receiver and keep
// FieldTypes independent of receiver state.
type Record interface {
	EncodeFields() []Field
	FieldTypes() []FieldType
}

// Struct adapts a Record into a bindable parameter shape, so records
// compose with the other wrappers (Array of Struct, Null of Struct).
type Struct[T Record] struct {
	Record T
}

// StructOf returns a Struct wrapping r.
func StructOf[T Record](r T) Struct[T] {
	return Struct[T]{Record: r}
}

func (s Struct[T]) Encode() *structpb.Value {
	encoded := s.Record.EncodeFields()
	fields := make(map[string]*structpb.Value, len(encoded))
	for _, f := range encoded {
		fields[f.Name] = f.Value.Encode()
	}
	return structpb.NewStructValue(&structpb.Struct{Fields: fields})
}

func (s Struct[T]) Type() *sppb.Type {
	var zero T
	declared := zero.FieldTypes()
	fields := make([]*sppb.StructType_Field, 0, len(declared))
	for _, f := range declared {
		fields = append(fields, &sppb.StructType_Field{Name: f.Name, Type: f.Type})
	}
	return &sppb.Type{
		Code:       sppb.TypeCode_STRUCT,
		StructType: &sppb.StructType{Fields: fields},
	}
}
