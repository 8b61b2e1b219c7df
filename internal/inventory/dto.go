package inventory

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/frahmantamala/inventory-management/internal"
	"github.com/frahmantamala/inventory-management/internal/core/common/validation"
)

type ItemResponse struct {
	ID      int64   `json:"id"`
	Item    string  `json:"item"`
	Color   string  `json:"color"`
	Grade   string  `json:"grade"`
	BatchNo string  `json:"batch_no"`
	SQM     float64 `json:"sqm"`
}

// ListedItemResponse carries the position of the item in its result set.
type ListedItemResponse struct {
	ItemResponse
	SrNo int `json:"sr_no"`
}

// Quantity is sqm as clients send it, either a JSON number or a numeric string.
type Quantity string

func (q *Quantity) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*q = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*q = Quantity(s)
	default:
		*q = Quantity(b)
	}
	return nil
}

func (q Quantity) Float() (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(string(q)), 64)
}

// ItemDTO is the full set of editable fields. Updates replace all of them.
type ItemDTO struct {
	Item    string   `json:"item"`
	Color   string   `json:"color"`
	Grade   string   `json:"grade"`
	BatchNo string   `json:"batch_no"`
	SQM     Quantity `json:"sqm"`
}

func (d ItemDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("sqm", string(d.SQM)).Required().Float(internal.ErrCodeInvalidQuantity)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// ToItem assumes Validate passed.
func (d ItemDTO) ToItem() *Item {
	sqm, _ := d.SQM.Float()
	return NewItem(d.Item, d.Color, d.Grade, d.BatchNo, sqm)
}

type ResetResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
