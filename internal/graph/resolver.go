package graph

import (
	"context"
	_ "embed"
	"net/http"

	"tecnoroute-be/internal/apperror"
	"tecnoroute-be/internal/cart"
	"tecnoroute-be/internal/order"
	"tecnoroute-be/internal/product"
	"tecnoroute-be/internal/utils"

	"github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/handler"
	"github.com/99designs/gqlgen/graphql/handler/transport"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

//go:embed schema.graphql
var schemaSource string

var errAuthRequired = apperror.Unauthorized("Autenticación requerida")

// Resolver holds the services behind the GraphQL endpoint.
type Resolver struct {
	Orders   order.Service
	Carts    cart.Service
	Products product.Service
}

// fieldFunc resolves one root field. The returned value is projected onto
// the selection set through its JSON form.
type fieldFunc func(ctx context.Context, args map[string]any) (any, error)

func NewSchema(r *Resolver) graphql.ExecutableSchema {
	return &executableSchema{
		schema: gqlparser.MustLoadSchema(&ast.Source{Name: "schema.graphql", Input: schemaSource}),
		roots: map[ast.Operation]map[string]fieldFunc{
			ast.Query: {
				"yo":                 r.me,
				"productos":          r.products,
				"producto":           r.product,
				"carrito":            r.cart,
				"pedidos":            r.orders,
				"pedido":             r.order,
				"pedidosRecientes":   r.recentOrders,
				"pedidosDisponibles": r.availableOrders,
			},
			ast.Mutation: {
				"agregarAlCarrito":    r.addToCart,
				"cambiarEstadoPedido": r.changeOrderStatus,
			},
		},
	}
}

// NewHandler serves the schema over GET and POST.
func NewHandler(r *Resolver) http.Handler {
	srv := handler.New(NewSchema(r))
	srv.AddTransport(transport.GET{})
	srv.AddTransport(transport.POST{})
	return srv
}

func currentUser(ctx context.Context) (uint, error) {
	id, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return 0, errAuthRequired
	}
	return id, nil
}

type session struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
}

func (r *Resolver) me(ctx context.Context, _ map[string]any) (any, error) {
	id, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	return session{ID: id, Email: utils.GetUserEmailFromContext(ctx)}, nil
}
