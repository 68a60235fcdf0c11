package service

import (
	"context"

	"gorm.io/gorm"
)

// TxFunc runs fn inside a database transaction. Usecases depend on it instead
// of *gorm.DB so that transactional flows can be exercised with fakes.
type TxFunc func(ctx context.Context, fn func(tx *gorm.DB) error) error

// GormTx runs transactions on db.
func GormTx(db *gorm.DB) TxFunc {
	return func(ctx context.Context, fn func(tx *gorm.DB) error) error {
		return db.WithContext(ctx).Transaction(fn)
	}
}
