package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// 注文は追記のみ。更新・削除のメソッドは定義しない。
type OrderRepository interface {
	CreateBulk(ctx context.Context, orders []model.Order) ([]model.Order, error)
	// order_date降順で全件返す
	ListByCustomerID(ctx context.Context, customerID int64) ([]model.Order, error)
}
