package inventory

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/frahmantamala/inventory-management/internal"
	"github.com/frahmantamala/inventory-management/internal/audit"
	inventoryDatamodel "github.com/frahmantamala/inventory-management/internal/core/datamodel/inventory"
)

// Repository returns nil, nil from GetByID for an absent item.
type Repository interface {
	List(ctx context.Context, filter Filter) ([]*inventoryDatamodel.Item, error)
	GetByID(ctx context.Context, id int64) (*inventoryDatamodel.Item, error)
	Create(ctx context.Context, item *inventoryDatamodel.Item) error
	Update(ctx context.Context, item *inventoryDatamodel.Item) error
	Delete(ctx context.Context, id int64) error
	ReplaceAll(ctx context.Context, items []*inventoryDatamodel.Item) error
}

type AuditRecorder interface {
	Record(ctx context.Context, action audit.Action, details string)
}

type Service struct {
	repo   Repository
	audit  AuditRecorder
	logger *slog.Logger
}

func NewService(repo Repository, recorder AuditRecorder, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		audit:  recorder,
		logger: logger,
	}
}

// ListItems returns the items matching every filter, ordered by id and numbered from 1.
func (s *Service) ListItems(ctx context.Context, filter Filter) ([]ListedItemResponse, error) {
	if _, err := internal.Authorize(ctx, internal.AnyRole); err != nil {
		return nil, err
	}

	dataItems, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, s.storeError("list inventory", err)
	}

	responses := make([]ListedItemResponse, 0, len(dataItems))
	for i, d := range dataItems {
		responses = append(responses, ListedItemResponse{
			ItemResponse: FromDataModel(d).ToResponse(),
			SrNo:         i + 1,
		})
	}
	return responses, nil
}

func (s *Service) CreateItem(ctx context.Context, dto ItemDTO) (*ItemResponse, error) {
	if _, err := internal.Authorize(ctx, internal.IsAdminOrDirector); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	data := ToDataModel(dto.ToItem())
	if err := s.repo.Create(ctx, data); err != nil {
		return nil, s.storeError("create item", err)
	}

	created := FromDataModel(data)
	s.audit.Record(ctx, audit.ActionInventoryAdd, fmt.Sprintf("Added new item (ID: %d) with details: %s.", created.ID, created))

	resp := created.ToResponse()
	return &resp, nil
}

// UpdateItem overwrites all editable fields of the item.
func (s *Service) UpdateItem(ctx context.Context, id int64, dto ItemDTO) (*ItemResponse, error) {
	if _, err := internal.Authorize(ctx, internal.IsAdminOrDirector); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	oldData, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.storeError("load item", err)
	}
	if oldData == nil {
		return nil, internal.ErrItemNotFound
	}
	old := FromDataModel(oldData)

	next := dto.ToItem()
	next.ID = id
	if err := s.repo.Update(ctx, ToDataModel(next)); err != nil {
		return nil, s.storeError("update item", err)
	}

	s.audit.Record(ctx, audit.ActionInventoryUpdate, fmt.Sprintf("Updated item ID %d. Old: %s, New: %s", id, old, next))

	resp := next.ToResponse()
	return &resp, nil
}

// DeleteItem removes the item. Deleting an absent item succeeds without effect.
func (s *Service) DeleteItem(ctx context.Context, id int64) error {
	if _, err := internal.Authorize(ctx, internal.IsAdminOrDirector); err != nil {
		return err
	}

	data, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return s.storeError("load item", err)
	}
	if data == nil {
		return nil
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.storeError("delete item", err)
	}

	s.audit.Record(ctx, audit.ActionInventoryDelete, fmt.Sprintf("Deleted item: %s", FromDataModel(data)))
	return nil
}

// ResetFromCSV replaces the whole inventory with the rows of a CSV file. Either
// every row is stored or the previous inventory is left untouched.
func (s *Service) ResetFromCSV(ctx context.Context, filename string, r io.Reader) (int, error) {
	if _, err := internal.Authorize(ctx, internal.IsAdminOrDirector); err != nil {
		return 0, err
	}
	if filename == "" || !strings.HasSuffix(filename, ".csv") {
		return 0, internal.NewValidationError("Invalid file", internal.ErrCodeInvalidFile)
	}

	items, err := ParseCSV(r)
	if err != nil {
		s.logger.Warn("inventory reset rejected", "file", filename, "error", err)
		return 0, internal.NewInternalError(err.Error(), err)
	}

	dataItems := make([]*inventoryDatamodel.Item, 0, len(items))
	for _, item := range items {
		dataItems = append(dataItems, ToDataModel(item))
	}

	if err := s.repo.ReplaceAll(ctx, dataItems); err != nil {
		s.logger.Error("inventory reset rolled back", "file", filename, "error", err)
		return 0, internal.NewInternalError(err.Error(), err)
	}

	s.audit.Record(ctx, audit.ActionInventoryReset, fmt.Sprintf("Reset inventory with %d items from file '%s'.", len(items), filename))
	s.logger.Info("inventory reset", "file", filename, "count", len(items))
	return len(items), nil
}

func (s *Service) storeError(op string, err error) error {
	if _, ok := internal.IsAppError(err); ok {
		return err
	}
	s.logger.Error("inventory store failure", "op", op, "error", err)
	return internal.NewInternalError("Failed to "+op, err)
}
