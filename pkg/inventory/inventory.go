package inventory

import (
	"errors"

	"github.com/dennissavchenko/Bookshop-sub001/pkg/models"
	"gorm.io/gorm"
)

var (
	ErrItemNotFound      = errors.New("item not found")
	ErrInvalidAmount     = errors.New("amount must be a positive integer")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// IncreaseStock adds amount units to the item and returns the new level.
func IncreaseStock(db *gorm.DB, itemUid string, amount int) (int, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	result := db.Model(&models.Item{}).
		Where("item_uid = ?", itemUid).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", amount))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, ErrItemNotFound
	}
	return StockLevel(db, itemUid)
}

// DecreaseStock removes amount units. The check and the update run as one
// guarded statement, so concurrent decrements never drive the level below
// zero: a decrement that would underflow affects no row and fails with
// ErrInsufficientStock.
func DecreaseStock(db *gorm.DB, itemUid string, amount int) (int, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	result := db.Model(&models.Item{}).
		Where("item_uid = ? AND stock_quantity >= ?", itemUid, amount).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", amount))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		level, err := StockLevel(db, itemUid)
		if err != nil {
			return 0, err
		}
		return level, ErrInsufficientStock
	}
	return StockLevel(db, itemUid)
}

func StockLevel(db *gorm.DB, itemUid string) (int, error) {
	var item models.Item
	if err := db.Select("stock_quantity").Where("item_uid = ?", itemUid).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrItemNotFound
		}
		return 0, err
	}
	return item.StockQuantity, nil
}
