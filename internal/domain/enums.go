package domain

// StockStatus is the badge shown next to an inventory item
type StockStatus string

const (
	StockStatusInStock  StockStatus = "IN_STOCK"
	StockStatusLowStock StockStatus = "LOW_STOCK"
)

// Status reports LOW_STOCK at or below the reorder level
func (i InventoryItem) Status() StockStatus {
	if i.IsLowStock() {
		return StockStatusLowStock
	}
	return StockStatusInStock
}

// Label is the human readable form of the status
func (s StockStatus) Label() string {
	switch s {
	case StockStatusLowStock:
		return "Low Stock"
	case StockStatusInStock:
		return "In Stock"
	default:
		return string(s)
	}
}
