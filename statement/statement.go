package statement

import (
	sppb "cloud.google.com/go/spanner/apiv1/spannerpb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/spannerkit/spanner-params/types"
)

// Statement is a SQL query with named parameters.
//
// A parameter placeholder consists of '@' followed by the parameter name.
// Parameters may appear anywhere a literal value is expected. The same name
// may be used more than once in the query text, and it is allowable to bind
// names that are never used; neither is checked here. Executing a statement
// with unbound parameters fails on the server.
//
// Params holds the wire value per name and ParamTypes the matching type
// descriptor; every bound name has exactly one entry in each. The maps are
// read by the transport layer when the statement is executed. A Statement
// is not safe for concurrent mutation.
type Statement struct {
	SQL        string
	Params     map[string]*structpb.Value
	ParamTypes map[string]*sppb.Type
}

// New returns a Statement with the given SQL and no bound parameters.
func New(sql string) *Statement {
	return &Statement{
		SQL:        sql,
		Params:     map[string]*structpb.Value{},
		ParamTypes: map[string]*sppb.Type{},
	}
}

// Bind stores the wire value and type descriptor for value under name,
// overwriting any previous binding with the same name.
func (s *Statement) Bind(name string, value types.Param) {
	s.ParamTypes[name] = value.Type()
	s.Params[name] = value.Encode()
}
