package inventory_test

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/frahmantamala/inventory-management/internal"
	"github.com/frahmantamala/inventory-management/internal/audit"
	"github.com/frahmantamala/inventory-management/internal/db"
	"github.com/frahmantamala/inventory-management/internal/db/dbtest"
	"github.com/frahmantamala/inventory-management/internal/inventory"
	inventorySQL "github.com/frahmantamala/inventory-management/internal/inventory/sqlstore"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Inventory Service", func() {
	var (
		stores   *db.Stores
		recorder *fakeRecorder
		service  *inventory.Service

		adminCtx  context.Context
		viewerCtx context.Context
	)

	BeforeEach(func() {
		var err error
		stores, err = dbtest.Open(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(stores.Close)

		recorder = &fakeRecorder{}
		quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
		service = inventory.NewService(inventorySQL.NewInventoryRepository(stores.Inventory), recorder, quiet)

		adminCtx = internal.ContextWithSession(context.Background(), internal.Session{UserID: 1, Username: "alice", Role: internal.RoleAdmin})
		viewerCtx = internal.ContextWithSession(context.Background(), internal.Session{UserID: 2, Username: "vic", Role: internal.RoleViewer})
	})

	create := func(item, color string, sqm string) *inventory.ItemResponse {
		resp, err := service.CreateItem(adminCtx, inventory.ItemDTO{Item: item, Color: color, Grade: "A", BatchNo: "B1", SQM: inventory.Quantity(sqm)})
		Expect(err).NotTo(HaveOccurred())
		return resp
	}

	Describe("ListItems", func() {
		It("should require a session", func() {
			_, err := service.ListItems(context.Background(), nil)
			Expect(err).To(MatchError(internal.ErrSessionRequired))
		})

		It("should number results in id order for any role", func() {
			create("Tile", "White", "10")
			create("Slab", "Grey", "5")

			items, err := service.ListItems(viewerCtx, inventory.Filter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(HaveLen(2))
			Expect(items[0].SrNo).To(Equal(1))
			Expect(items[0].Item).To(Equal("Tile"))
			Expect(items[1].SrNo).To(Equal(2))
			Expect(items[1].ID).To(BeNumerically(">", items[0].ID))
		})

		It("should match filters as case-insensitive substrings", func() {
			create("Tile", "White", "10")
			create("Slab", "Grey", "5")
			create("Tile", "Off-white", "1")

			items, err := service.ListItems(viewerCtx, inventory.Filter{"color": "whi"})
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(HaveLen(2))
			Expect(items[0].SrNo).To(Equal(1))
			Expect(items[1].Color).To(Equal("Off-white"))
		})

		It("should AND filters together", func() {
			create("Tile", "White", "10")
			create("Slab", "White", "5")

			items, err := service.ListItems(viewerCtx, inventory.Filter{"color": "white", "item": "sla"})
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(HaveLen(1))
			Expect(items[0].Item).To(Equal("Slab"))
		})

		It("should treat LIKE wildcards in filter values literally", func() {
			create("Tile", "White", "10")
			create("100%_wool", "Red", "1")

			items, err := service.ListItems(viewerCtx, inventory.Filter{"item": "%"})
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(HaveLen(1))
			Expect(items[0].Item).To(Equal("100%_wool"))

			items, err = service.ListItems(viewerCtx, inventory.Filter{"item": "_"})
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(HaveLen(1))
		})

		It("should return an empty list when nothing matches", func() {
			items, err := service.ListItems(viewerCtx, inventory.Filter{"grade": "Z"})
			Expect(err).NotTo(HaveOccurred())
			Expect(items).NotTo(BeNil())
			Expect(items).To(BeEmpty())
		})
	})

	Describe("CreateItem", func() {
		It("should store the item and audit it", func() {
			resp := create("Tile", "White", "10.5")
			Expect(resp.ID).To(BeNumerically(">", 0))
			Expect(resp.SQM).To(Equal(10.5))

			Expect(recorder.Entries()).To(HaveLen(1))
			Expect(recorder.Entries()[0].Action).To(Equal(audit.ActionInventoryAdd))
			Expect(recorder.Entries()[0].Details).To(HavePrefix("Added new item (ID: "))
			Expect(recorder.Entries()[0].Details).To(ContainSubstring("item: 'Tile'"))
		})

		It("should forbid viewers", func() {
			_, err := service.CreateItem(viewerCtx, inventory.ItemDTO{Item: "Tile", SQM: "1"})
			Expect(err).To(MatchError(internal.ErrInsufficientRole))
			Expect(recorder.Entries()).To(BeEmpty())
		})

		It("should reject a non-numeric sqm without writing", func() {
			_, err := service.CreateItem(adminCtx, inventory.ItemDTO{Item: "Tile", SQM: "abc"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))

			items, err := service.ListItems(adminCtx, inventory.Filter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(BeEmpty())
		})
	})

	Describe("UpdateItem", func() {
		It("should replace every field and audit old and new values", func() {
			created := create("Tile", "White", "10")

			updated, err := service.UpdateItem(adminCtx, created.ID, inventory.ItemDTO{Item: "Tile", Color: "Black", Grade: "B", BatchNo: "B9", SQM: "4"})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Color).To(Equal("Black"))

			items, err := service.ListItems(adminCtx, inventory.Filter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(items[0].BatchNo).To(Equal("B9"))
			Expect(items[0].SQM).To(Equal(4.0))

			last := recorder.Entries()[len(recorder.Entries())-1]
			Expect(last.Action).To(Equal(audit.ActionInventoryUpdate))
			Expect(last.Details).To(ContainSubstring("Old: {"))
			Expect(last.Details).To(ContainSubstring("color: 'White'"))
			Expect(last.Details).To(ContainSubstring("color: 'Black'"))
		})

		It("should return not found for an absent item", func() {
			_, err := service.UpdateItem(adminCtx, 999, inventory.ItemDTO{SQM: "1"})
			Expect(err).To(MatchError(internal.ErrItemNotFound))
		})
	})

	Describe("DeleteItem", func() {
		It("should delete and audit the item", func() {
			created := create("Tile", "White", "10")

			Expect(service.DeleteItem(adminCtx, created.ID)).To(Succeed())

			items, err := service.ListItems(adminCtx, inventory.Filter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(BeEmpty())

			last := recorder.Entries()[len(recorder.Entries())-1]
			Expect(last.Action).To(Equal(audit.ActionInventoryDelete))
			Expect(last.Details).To(HavePrefix("Deleted item: {id: "))
		})

		It("should succeed silently for an absent item", func() {
			Expect(service.DeleteItem(adminCtx, 42)).To(Succeed())
			Expect(recorder.Entries()).To(BeEmpty())
		})

		It("should forbid viewers", func() {
			Expect(service.DeleteItem(viewerCtx, 1)).To(MatchError(internal.ErrInsufficientRole))
		})
	})

	Describe("ResetFromCSV", func() {
		const header = "item,color,grade,batch_no,sqm\n"

		BeforeEach(func() {
			create("Old", "Blue", "1")
			create("Older", "Blue", "2")
		})

		It("should replace the whole inventory", func() {
			count, err := service.ResetFromCSV(adminCtx, "stock.csv", strings.NewReader(header+
				"Tile,White,A,B1,10\nSlab,Grey,B,B2,3.5\nbroken,row\nBrick,Red,C,B3,7\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(3))

			items, err := service.ListItems(adminCtx, inventory.Filter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(HaveLen(3))
			Expect(items[0].Item).To(Equal("Tile"))
			Expect(items[2].Item).To(Equal("Brick"))

			last := recorder.Entries()[len(recorder.Entries())-1]
			Expect(last.Action).To(Equal(audit.ActionInventoryReset))
			Expect(last.Details).To(Equal("Reset inventory with 3 items from file 'stock.csv'."))
		})

		It("should leave the inventory untouched when a row has a bad sqm", func() {
			_, err := service.ResetFromCSV(adminCtx, "stock.csv", strings.NewReader(header+
				"Tile,White,A,B1,10\nSlab,Grey,B,B2,abc\n"))
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(500))
			Expect(appErr.Message).To(ContainSubstring("could not convert sqm"))

			items, err := service.ListItems(adminCtx, inventory.Filter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(HaveLen(2))
			Expect(items[0].Item).To(Equal("Old"))
		})

		It("should empty the inventory for a header-only file", func() {
			count, err := service.ResetFromCSV(adminCtx, "empty.csv", strings.NewReader(header))
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(0))

			items, err := service.ListItems(adminCtx, inventory.Filter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(BeEmpty())
		})

		It("should reject files without a .csv extension", func() {
			_, err := service.ResetFromCSV(adminCtx, "stock.txt", strings.NewReader(header))
			Expect(err).To(MatchError(ContainSubstring("Invalid file")))

			items, err := service.ListItems(adminCtx, inventory.Filter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(HaveLen(2))
		})

		It("should forbid viewers", func() {
			_, err := service.ResetFromCSV(viewerCtx, "stock.csv", strings.NewReader(header))
			Expect(err).To(MatchError(internal.ErrInsufficientRole))
		})
	})
})
