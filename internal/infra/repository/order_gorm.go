package repository

import (
	"context"

	"storefront/internal/domain/model"

	"gorm.io/gorm"
)

type OrderGormRepository struct {
	db *gorm.DB
}

// DI
func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

// 注文行を一括作成して、ID採番済みの行を返す
func (r *OrderGormRepository) CreateBulk(ctx context.Context, orders []model.Order) ([]model.Order, error) {
	if len(orders) == 0 {
		return []model.Order{}, nil
	}
	if err := r.db.WithContext(ctx).Create(&orders).Error; err != nil {
		return []model.Order{}, err
	}
	return orders, nil
}

// 指定Customerの注文履歴をorder_date降順で全件返す
func (r *OrderGormRepository) ListByCustomerID(ctx context.Context, customerID int64) ([]model.Order, error) {
	var orders []model.Order

	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("order_date desc").
		Order("id desc").
		Find(&orders).Error
	if err != nil {
		return []model.Order{}, err
	}

	return orders, nil
}
