package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	inventoryDatamodel "github.com/frahmantamala/inventory-management/internal/core/datamodel/inventory"
	"github.com/frahmantamala/inventory-management/internal/db"
	"github.com/frahmantamala/inventory-management/internal/inventory"
	"gorm.io/gorm"
)

const (
	likeEscape = "!"
	batchSize  = 500
)

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

type InventoryRepository struct {
	store *db.Store
}

func NewInventoryRepository(store *db.Store) inventory.Repository {
	return &InventoryRepository{store: store}
}

// List applies one placeholder-bound substring clause per allow-listed field
// present in filter, joined with AND.
func (r *InventoryRepository) List(ctx context.Context, filter inventory.Filter) ([]*inventoryDatamodel.Item, error) {
	tx, err := r.store.Gorm(ctx)
	if err != nil {
		return nil, err
	}

	for _, column := range inventory.FilterFields {
		value, ok := filter[column]
		if !ok || value == "" {
			continue
		}
		tx = tx.Where(column+" LIKE ? ESCAPE '"+likeEscape+"'", "%"+likeEscaper.Replace(value)+"%")
	}

	var items []*inventoryDatamodel.Item
	err = tx.Order("id ASC").Find(&items).Error
	return items, err
}

func (r *InventoryRepository) GetByID(ctx context.Context, id int64) (*inventoryDatamodel.Item, error) {
	tx, err := r.store.Gorm(ctx)
	if err != nil {
		return nil, err
	}

	var item inventoryDatamodel.Item
	err = tx.Where("id = ?", id).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *InventoryRepository) Create(ctx context.Context, item *inventoryDatamodel.Item) error {
	tx, err := r.store.Gorm(ctx)
	if err != nil {
		return err
	}
	return tx.Create(item).Error
}

func (r *InventoryRepository) Update(ctx context.Context, item *inventoryDatamodel.Item) error {
	tx, err := r.store.Gorm(ctx)
	if err != nil {
		return err
	}
	return tx.Model(&inventoryDatamodel.Item{}).Where("id = ?", item.ID).Updates(map[string]interface{}{
		"item":     item.Item,
		"color":    item.Color,
		"grade":    item.Grade,
		"batch_no": item.BatchNo,
		"sqm":      item.SQM,
	}).Error
}

func (r *InventoryRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.store.Gorm(ctx)
	if err != nil {
		return err
	}
	return tx.Where("id = ?", id).Delete(&inventoryDatamodel.Item{}).Error
}

// ReplaceAll deletes every item and inserts items in one transaction.
func (r *InventoryRepository) ReplaceAll(ctx context.Context, items []*inventoryDatamodel.Item) error {
	tx, err := r.store.Gorm(ctx)
	if err != nil {
		return err
	}

	return tx.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM inventory").Error; err != nil {
			return fmt.Errorf("clear inventory: %w", err)
		}
		if len(items) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(items, batchSize).Error; err != nil {
			return fmt.Errorf("insert inventory: %w", err)
		}
		return nil
	})
}
