package model

import "time"

// 購入者レコード。認証ユーザーとは別に持ち、
// 初回の注文確定時に遅延作成される（1ユーザーにつき1件）。
type Customer struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex" json:"user_id"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
