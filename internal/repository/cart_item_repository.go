package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type CartItemRepository interface {
	ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error)
	// 同一商品はプラス
	UpsertByCartAndProduct(ctx context.Context, cartID int64, productID int64, addQty int64) error
	FindByCartAndProduct(ctx context.Context, cartID int64, productID int64) (model.CartItem, error)
	UpdateQuantity(ctx context.Context, cartID int64, productID int64, qty int64) error
	DeleteByCartAndProduct(ctx context.Context, cartID int64, productID int64) error
}
