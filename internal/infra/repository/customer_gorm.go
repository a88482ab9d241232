package repository

import (
	"context"
	"errors"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type CustomerGormRepository struct {
	db *gorm.DB
}

// DI
func NewCustomerGormRepository(db *gorm.DB) *CustomerGormRepository {
	return &CustomerGormRepository{db: db}
}

// ユーザーに対応するCustomerを取得し、無ければ作成。
// createdは「今回作られたか」。
func (r *CustomerGormRepository) EnsureByUserID(ctx context.Context, userID int64) (model.Customer, bool, error) {
	var customer model.Customer
	created := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		findErr := tx.
			Where("user_id = ?", userID).
			First(&customer).Error

		if findErr == nil {
			return nil
		}

		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}

		newCustomer := model.Customer{
			UserID:    userID,
			CreatedAt: time.Now(),
		}

		if err := tx.Create(&newCustomer).Error; err != nil {
			//user_idのuniqueと競合したらもう一度探す
			retryErr := tx.
				Where("user_id = ?", userID).
				First(&customer).Error
			if retryErr == nil {
				return nil
			}
			return err
		}

		customer = newCustomer
		created = true
		return nil
	})

	if err != nil {
		return model.Customer{}, false, err
	}
	return customer, created, nil
}

// user_idでCustomerを1件取得
func (r *CustomerGormRepository) FindByUserID(ctx context.Context, userID int64) (model.Customer, error) {
	var customer model.Customer

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&customer).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Customer{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Customer{}, err
	}
	return customer, nil
}
