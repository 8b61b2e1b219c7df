package inventory

type Item struct {
	ID      int64   `gorm:"primaryKey"`
	Item    string  `gorm:"column:item"`
	Color   string  `gorm:"column:color"`
	Grade   string  `gorm:"column:grade"`
	BatchNo string  `gorm:"column:batch_no"`
	SQM     float64 `gorm:"column:sqm;not null"`
}

func (Item) TableName() string {
	return "inventory"
}
