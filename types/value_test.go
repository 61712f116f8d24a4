package types

import (
	"math"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	sppb "cloud.google.com/go/spanner/apiv1/spannerpb"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"google.golang.org/protobuf/testing/protocmp"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestScalarValues(t *testing.T) {
	for _, test := range []struct {
		name      string
		param     Param
		wantValue *structpb.Value
		wantCode  sppb.TypeCode
	}{
		{
			name:      "string",
			param:     String("z"),
			wantValue: structpb.NewStringValue("z"),
			wantCode:  sppb.TypeCode_STRING,
		},
		{
			name:      "int64",
			param:     Int64(42),
			wantValue: structpb.NewStringValue("42"),
			wantCode:  sppb.TypeCode_INT64,
		},
		{
			name:      "negative int64",
			param:     Int64(-7),
			wantValue: structpb.NewStringValue("-7"),
			wantCode:  sppb.TypeCode_INT64,
		},
		{
			name:      "max int64 survives as text",
			param:     Int64(math.MaxInt64),
			wantValue: structpb.NewStringValue("9223372036854775807"),
			wantCode:  sppb.TypeCode_INT64,
		},
		{
			name:      "float64",
			param:     Float64(1.5),
			wantValue: structpb.NewNumberValue(1.5),
			wantCode:  sppb.TypeCode_FLOAT64,
		},
		{
			name:      "bool",
			param:     Bool(true),
			wantValue: structpb.NewBoolValue(true),
			wantCode:  sppb.TypeCode_BOOL,
		},
		{
			name:      "date",
			param:     Date(civil.Date{Year: 2021, Month: time.March, Day: 4}),
			wantValue: structpb.NewStringValue("2021-03-04"),
			wantCode:  sppb.TypeCode_DATE,
		},
		{
			name:      "timestamp",
			param:     Timestamp(time.Date(2021, 3, 4, 5, 6, 7, 8, time.UTC)),
			wantValue: structpb.NewStringValue("2021-03-04T05:06:07.000000008Z"),
			wantCode:  sppb.TypeCode_TIMESTAMP,
		},
		{
			name:      "timestamp converts to UTC",
			param:     Timestamp(time.Date(2021, 3, 4, 6, 6, 7, 8, time.FixedZone("UTC+1", 3600))),
			wantValue: structpb.NewStringValue("2021-03-04T05:06:07.000000008Z"),
			wantCode:  sppb.TypeCode_TIMESTAMP,
		},
		{
			name:      "commit timestamp placeholder",
			param:     CommitTimestamp{},
			wantValue: structpb.NewStringValue("spanner.commit_timestamp()"),
			wantCode:  sppb.TypeCode_TIMESTAMP,
		},
		{
			name:      "bytes",
			param:     Bytes("hello"),
			wantValue: structpb.NewStringValue("aGVsbG8="),
			wantCode:  sppb.TypeCode_BYTES,
		},
		{
			name:      "numeric",
			param:     Numeric(decimal.RequireFromString("3.141592653589793238")),
			wantValue: structpb.NewStringValue("3.141592653589793238"),
			wantCode:  sppb.TypeCode_NUMERIC,
		},
	} {
		test := test
		t.Run(test.name, func(t *testing.T) {
			if diff := cmp.Diff(test.wantValue, test.param.Encode(), protocmp.Transform()); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
			wantType := &sppb.Type{Code: test.wantCode}
			if diff := cmp.Diff(wantType, test.param.Type(), protocmp.Transform()); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestTypeIgnoresValue(t *testing.T) {
	for _, test := range []struct {
		name string
		a, b Param
	}{
		{name: "int64", a: Int64(0), b: Int64(math.MaxInt64)},
		{name: "string", a: String(""), b: String("z")},
		{name: "timestamp", a: Timestamp{}, b: Timestamp(time.Now())},
		{name: "bytes", a: Bytes(nil), b: Bytes("x")},
	} {
		test := test
		t.Run(test.name, func(t *testing.T) {
			if diff := cmp.Diff(test.a.Type(), test.b.Type(), protocmp.Transform()); diff != "" {
				t.Errorf("type depends on value (-a +b):\n%s", diff)
			}
		})
	}
}

func TestEncodeIsIdempotent(t *testing.T) {
	param := Array[Null[Int64]]{Nullable(Int64(1)), {}}
	if diff := cmp.Diff(param.Encode(), param.Encode(), protocmp.Transform()); diff != "" {
		t.Errorf("values differ:\n%s", diff)
	}
	if diff := cmp.Diff(param.Type(), param.Type(), protocmp.Transform()); diff != "" {
		t.Errorf("types differ:\n%s", diff)
	}
}
