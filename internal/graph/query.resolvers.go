package graph

import (
	"context"

	"tecnoroute-be/internal/order"
	"tecnoroute-be/internal/product"
)

func (r *Resolver) products(ctx context.Context, args map[string]any) (any, error) {
	f := product.Filter{
		ActiveOnly: true,
		Search:     argString(args, "buscar"),
		Limit:      argInt(args, "limite", 0),
		Page:       argInt(args, "pagina", 1),
	}
	if id := argInt(args, "categoria", 0); id > 0 {
		cat := uint(id)
		f.CategoryID = &cat
	}
	return r.Products.List(ctx, f)
}

func (r *Resolver) product(ctx context.Context, args map[string]any) (any, error) {
	return r.Products.Get(ctx, argUint(args, "id"))
}

func (r *Resolver) cart(ctx context.Context, _ map[string]any) (any, error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	return r.Carts.Get(ctx, userID)
}

func (r *Resolver) orders(ctx context.Context, args map[string]any) (any, error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	f := order.Filter{
		Limit: argInt(args, "limite", 0),
		Page:  argInt(args, "pagina", 1),
	}
	if s := argString(args, "estado"); s != "" {
		st := order.Status(s)
		f.Status = &st
	}
	return r.Orders.List(ctx, userID, f)
}

func (r *Resolver) order(ctx context.Context, args map[string]any) (any, error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	return r.Orders.Get(ctx, userID, argUint(args, "id"))
}

func (r *Resolver) recentOrders(ctx context.Context, args map[string]any) (any, error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	return r.Orders.Recent(ctx, userID, argInt(args, "limite", 0))
}

func (r *Resolver) availableOrders(ctx context.Context, args map[string]any) (any, error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	return r.Orders.Available(ctx, userID, argInt(args, "limite", 0))
}

func (r *Resolver) addToCart(ctx context.Context, args map[string]any) (any, error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	return r.Carts.AddItem(ctx, userID, argUint(args, "producto_id"), argInt(args, "cantidad", 0))
}

func (r *Resolver) changeOrderStatus(ctx context.Context, args map[string]any) (any, error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	return r.Orders.ChangeStatus(ctx, userID, argUint(args, "id"), order.Status(argString(args, "estado")))
}
