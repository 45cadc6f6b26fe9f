package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"tecnoroute-be/internal/apperror"
	"tecnoroute-be/internal/logger"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"go.uber.org/zap"
)

// executableSchema runs root fields through fieldFuncs and trims each result
// to the requested selection. Field names in the schema match the JSON keys
// of the returned domain values.
type executableSchema struct {
	schema *ast.Schema
	roots  map[ast.Operation]map[string]fieldFunc
}

func (e *executableSchema) Schema() *ast.Schema { return e.schema }

func (e *executableSchema) Complexity(_ context.Context, _, _ string, childComplexity int, _ map[string]any) (int, bool) {
	return childComplexity + 1, true
}

func (e *executableSchema) Exec(ctx context.Context) graphql.ResponseHandler {
	opCtx := graphql.GetOperationContext(ctx)

	var rootType string
	switch opCtx.Operation.Operation {
	case ast.Query:
		rootType = e.schema.Query.Name
	case ast.Mutation:
		rootType = e.schema.Mutation.Name
	default:
		return graphql.OneShot(graphql.ErrorResponse(ctx, "unsupported GraphQL operation"))
	}
	return graphql.OneShot(e.execRoot(ctx, opCtx, rootType, e.roots[opCtx.Operation.Operation]))
}

// execRoot resolves root fields in document order, which also keeps
// mutations serial.
func (e *executableSchema) execRoot(ctx context.Context, opCtx *graphql.OperationContext, rootType string, resolvers map[string]fieldFunc) *graphql.Response {
	var errs gqlerror.List
	data := object{}

	for _, f := range graphql.CollectFields(opCtx, opCtx.Operation.SelectionSet, []string{rootType}) {
		if f.Name == "__typename" {
			data = append(data, member{f.Alias, rootType})
			continue
		}

		resolve, ok := resolvers[f.Name]
		if !ok {
			errs = append(errs, fieldError(ctx, f.Alias, apperror.Internal("unresolved field", fmt.Errorf("no resolver for %s.%s", rootType, f.Name))))
			data = append(data, member{f.Alias, nil})
			continue
		}

		v, err := resolve(ctx, f.ArgumentMap(opCtx.Variables))
		if err == nil {
			v, err = toGeneric(v)
		}
		if err != nil {
			errs = append(errs, fieldError(ctx, f.Alias, err))
			data = append(data, member{f.Alias, nil})
			continue
		}
		data = append(data, member{f.Alias, project(opCtx, v, f.Definition.Type.Name(), f.Selections)})
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return graphql.ErrorResponse(ctx, "failed to encode response")
	}
	return &graphql.Response{Data: raw, Errors: errs}
}

// project keeps only the selected fields of v, renamed to their aliases.
func project(opCtx *graphql.OperationContext, v any, typeName string, sel ast.SelectionSet) any {
	if len(sel) == 0 {
		return v
	}

	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = project(opCtx, item, typeName, sel)
		}
		return out
	case map[string]any:
		obj := object{}
		for _, f := range graphql.CollectFields(opCtx, sel, []string{typeName}) {
			if f.Name == "__typename" {
				obj = append(obj, member{f.Alias, typeName})
				continue
			}
			obj = append(obj, member{f.Alias, project(opCtx, t[f.Name], f.Definition.Type.Name(), f.Selections)})
		}
		return obj
	default:
		return v
	}
}

// toGeneric turns a domain value into maps, slices and scalars through its
// JSON encoding. Numbers stay exact.
func toGeneric(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func fieldError(ctx context.Context, field string, err error) *gqlerror.Error {
	kind := apperror.KindOf(err)
	if kind == apperror.KindInternal {
		logger.FromCtx(ctx).Error("graphql field failed",
			zap.String("layer", "graph"),
			zap.String("field", field),
			zap.Error(err),
		)
	}
	return &gqlerror.Error{
		Message:    apperror.Message(err),
		Path:       ast.Path{ast.PathName(field)},
		Extensions: map[string]interface{}{"code": kind.String()},
	}
}

type member struct {
	key   string
	value any
}

// object is a JSON object that keeps selection order.
type object []member

func (o object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(m.key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m.value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func argInt(args map[string]any, name string, def int) int {
	switch v := args[name].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	}
	return def
}

func argUint(args map[string]any, name string) uint {
	if n := argInt(args, name, 0); n > 0 {
		return uint(n)
	}
	return 0
}

func argString(args map[string]any, name string) string {
	s, _ := args[name].(string)
	return s
}
