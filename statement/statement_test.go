package statement

import (
	"testing"

	sppb "cloud.google.com/go/spanner/apiv1/spannerpb"
	"github.com/google/go-cmp/cmp"
	"google.golang.org/protobuf/testing/protocmp"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/spannerkit/spanner-params/types"
)

func TestNew(t *testing.T) {
	stmt := New("SELECT 1")
	if stmt.SQL != "SELECT 1" {
		t.Fatalf("unexpected sql %q", stmt.SQL)
	}
	if len(stmt.Params) != 0 || len(stmt.ParamTypes) != 0 {
		t.Fatalf("expected empty bindings, got %d params and %d types", len(stmt.Params), len(stmt.ParamTypes))
	}
}

func TestBind(t *testing.T) {
	stmt := New("SELECT * FROM Users WHERE id = @id")
	stmt.Bind("id", types.Int64(42))
	if diff := cmp.Diff(structpb.NewStringValue("42"), stmt.Params["id"], protocmp.Transform()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(&sppb.Type{Code: sppb.TypeCode_INT64}, stmt.ParamTypes["id"], protocmp.Transform()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestBindKeepsValueAndTypeInLockstep(t *testing.T) {
	stmt := New("SELECT @a, @b, @c")
	stmt.Bind("a", types.String("x"))
	stmt.Bind("b", types.Null[types.Bytes]{})
	stmt.Bind("c", types.Array[types.Float64]{1, 2})
	if len(stmt.Params) != len(stmt.ParamTypes) {
		t.Fatalf("bindings out of lockstep: %d params, %d types", len(stmt.Params), len(stmt.ParamTypes))
	}
	for name := range stmt.Params {
		if _, ok := stmt.ParamTypes[name]; !ok {
			t.Errorf("parameter %q has a value but no type", name)
		}
	}
}

func TestRebindOverwrites(t *testing.T) {
	stmt := New("SELECT * FROM Users WHERE id = @p")
	stmt.Bind("p", types.Int64(1))
	stmt.Bind("p", types.String("two"))
	if len(stmt.Params) != 1 || len(stmt.ParamTypes) != 1 {
		t.Fatalf("expected a single binding, got %d params and %d types", len(stmt.Params), len(stmt.ParamTypes))
	}
	if diff := cmp.Diff(structpb.NewStringValue("two"), stmt.Params["p"], protocmp.Transform()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(&sppb.Type{Code: sppb.TypeCode_STRING}, stmt.ParamTypes["p"], protocmp.Transform()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestBindUnusedName(t *testing.T) {
	// binding a name the query text never references is allowed
	stmt := New("SELECT 1")
	stmt.Bind("unused", types.Bool(true))
	if _, ok := stmt.Params["unused"]; !ok {
		t.Fatal("expected binding to be stored")
	}
}
