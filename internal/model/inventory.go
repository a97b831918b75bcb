package model

// InventoryItem is static reference data: the standard kit handed to each
// maid at check-in time.
type InventoryItem struct {
	ID         int64  `gorm:"primaryKey" json:"id"`
	Name       string `gorm:"uniqueIndex;size:64;not null" json:"name"`
	PerMaidQty int    `gorm:"not null" json:"perMaidQty"`
}
