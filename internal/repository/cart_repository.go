package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type CartRepository interface {
	// ACTIVEカートを行ロック付きで取得し、無ければ作成する。
	GetOrCreateActiveByUserID(ctx context.Context, userID int64) (model.Cart, error)
	FindActiveByUserID(ctx context.Context, userID int64) (model.Cart, error)
	UpdateStatus(ctx context.Context, cartID int64, status model.CartStatus) error
	Clear(ctx context.Context, cartID int64) error
}
