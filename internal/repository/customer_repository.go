package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type CustomerRepository interface {
	// 無ければ作る。createdで「今回作られたか」を返す。
	EnsureByUserID(ctx context.Context, userID int64) (customer model.Customer, created bool, err error)
	FindByUserID(ctx context.Context, userID int64) (model.Customer, error)
}
