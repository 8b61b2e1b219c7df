package inventory

import (
	"fmt"
	"net/url"
	"strconv"

	inventoryDatamodel "github.com/frahmantamala/inventory-management/internal/core/datamodel/inventory"
)

// Item is one stock record. Every field but ID is freely editable.
type Item struct {
	ID      int64
	Item    string
	Color   string
	Grade   string
	BatchNo string
	SQM     float64
}

func (i *Item) ToResponse() ItemResponse {
	return ItemResponse{
		ID:      i.ID,
		Item:    i.Item,
		Color:   i.Color,
		Grade:   i.Grade,
		BatchNo: i.BatchNo,
		SQM:     i.SQM,
	}
}

// String renders the item for audit details.
func (i *Item) String() string {
	return fmt.Sprintf("{id: %d, item: '%s', color: '%s', grade: '%s', batch_no: '%s', sqm: %s}",
		i.ID, i.Item, i.Color, i.Grade, i.BatchNo, strconv.FormatFloat(i.SQM, 'f', -1, 64))
}

func NewItem(item, color, grade, batchNo string, sqm float64) *Item {
	return &Item{
		Item:    item,
		Color:   color,
		Grade:   grade,
		BatchNo: batchNo,
		SQM:     sqm,
	}
}

// FilterFields are the only columns a listing may be filtered on, in clause order.
var FilterFields = []string{"item", "color", "grade", "batch_no"}

// Filter maps a filter field to the substring its column must contain.
type Filter map[string]string

// FilterFromQuery keeps the non-empty allow-listed parameters of q.
func FilterFromQuery(q url.Values) Filter {
	f := Filter{}
	for _, field := range FilterFields {
		if v := q.Get(field); v != "" {
			f[field] = v
		}
	}
	return f
}

func ToDataModel(i *Item) *inventoryDatamodel.Item {
	return &inventoryDatamodel.Item{
		ID:      i.ID,
		Item:    i.Item,
		Color:   i.Color,
		Grade:   i.Grade,
		BatchNo: i.BatchNo,
		SQM:     i.SQM,
	}
}

func FromDataModel(i *inventoryDatamodel.Item) *Item {
	return &Item{
		ID:      i.ID,
		Item:    i.Item,
		Color:   i.Color,
		Grade:   i.Grade,
		BatchNo: i.BatchNo,
		SQM:     i.SQM,
	}
}
