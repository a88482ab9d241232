package model

import "time"

// 注文確定時のスナップショット（1明細＝1行）。
// 確定後は追記のみで、商品価格が後から変わっても total_price は変化しない。
type Order struct {
	ID                  int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNumber         string    `gorm:"type:varchar(64);not null;uniqueIndex" json:"order_number"`
	CustomerID          int64     `gorm:"not null;index" json:"customer_id"`
	ProductID           int64     `gorm:"not null;index" json:"product_id"`
	ProductNameSnapshot string    `gorm:"type:varchar(255);not null" json:"product_name_snapshot"`
	UnitPriceSnapshot   int64     `gorm:"not null" json:"unit_price_snapshot"`
	Quantity            int64     `gorm:"not null" json:"quantity"`
	TotalPrice          int64     `gorm:"not null" json:"total_price"`
	OrderDate           time.Time `gorm:"not null;index" json:"order_date"`
}
