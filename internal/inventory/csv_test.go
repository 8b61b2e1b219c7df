package inventory_test

import (
	"encoding/json"
	"strings"

	"github.com/frahmantamala/inventory-management/internal"
	"github.com/frahmantamala/inventory-management/internal/inventory"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ParseCSV", func() {
	It("should skip the header and parse every five-column row", func() {
		items, err := inventory.ParseCSV(strings.NewReader(
			"item,color,grade,batch_no,sqm\n" +
				"Tile,White,A,B1,10.5\n" +
				"Slab,Grey,B,B2, 3\n"))

		Expect(err).NotTo(HaveOccurred())
		Expect(items).To(HaveLen(2))
		Expect(*items[0]).To(Equal(inventory.Item{Item: "Tile", Color: "White", Grade: "A", BatchNo: "B1", SQM: 10.5}))
		Expect(items[1].SQM).To(Equal(3.0))
	})

	It("should ignore rows with the wrong number of columns", func() {
		items, err := inventory.ParseCSV(strings.NewReader(
			"item,color,grade,batch_no,sqm\n" +
				"Tile,White,A,B1\n" +
				"Tile,White,A,B1,1,extra\n" +
				"Slab,Grey,B,B2,2\n"))

		Expect(err).NotTo(HaveOccurred())
		Expect(items).To(HaveLen(1))
		Expect(items[0].Item).To(Equal("Slab"))
	})

	It("should return nothing for an empty file", func() {
		items, err := inventory.ParseCSV(strings.NewReader(""))
		Expect(err).NotTo(HaveOccurred())
		Expect(items).To(BeEmpty())
	})

	It("should return nothing for a header-only file", func() {
		items, err := inventory.ParseCSV(strings.NewReader("item,color,grade,batch_no,sqm\n"))
		Expect(err).NotTo(HaveOccurred())
		Expect(items).To(BeEmpty())
	})

	It("should fail on a non-numeric sqm", func() {
		_, err := inventory.ParseCSV(strings.NewReader(
			"item,color,grade,batch_no,sqm\n" +
				"Tile,White,A,B1,10\n" +
				"Slab,Grey,B,B2,lots\n"))

		Expect(err).To(MatchError(ContainSubstring(`line 3: could not convert sqm "lots" to a number`)))
	})

	It("should fail on a non-finite sqm", func() {
		_, err := inventory.ParseCSV(strings.NewReader("h1,h2,h3,h4,h5\nTile,White,A,B1,NaN\n"))
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("FilterFromQuery", func() {
	It("should keep only non-empty allow-listed parameters", func() {
		filter := inventory.FilterFromQuery(map[string][]string{
			"color":    {"whi"},
			"grade":    {""},
			"password": {"x"},
			"batch_no": {"B1"},
		})

		Expect(filter).To(Equal(inventory.Filter{"color": "whi", "batch_no": "B1"}))
	})
})

var _ = Describe("ItemDTO", func() {
	It("should accept sqm as a number or a numeric string", func() {
		var dto inventory.ItemDTO
		Expect(json.Unmarshal([]byte(`{"item":"Tile","sqm":12.5}`), &dto)).To(Succeed())
		Expect(dto.Validate()).To(Succeed())
		Expect(dto.ToItem().SQM).To(Equal(12.5))

		Expect(json.Unmarshal([]byte(`{"item":"Tile","sqm":"7"}`), &dto)).To(Succeed())
		Expect(dto.Validate()).To(Succeed())
		Expect(dto.ToItem().SQM).To(Equal(7.0))
	})

	It("should reject a missing or non-numeric sqm", func() {
		var dto inventory.ItemDTO
		Expect(json.Unmarshal([]byte(`{"item":"Tile"}`), &dto)).To(Succeed())
		Expect(dto.Validate()).To(MatchError(ContainSubstring("sqm is required")))

		Expect(json.Unmarshal([]byte(`{"item":"Tile","sqm":"many"}`), &dto)).To(Succeed())
		err := dto.Validate()
		Expect(err).To(HaveOccurred())
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidQuantity))
	})
})

var _ = Describe("Item", func() {
	It("should render audit details", func() {
		item := inventory.Item{ID: 3, Item: "Tile", Color: "White", Grade: "A", BatchNo: "B1", SQM: 10.5}
		Expect(item.String()).To(Equal("{id: 3, item: 'Tile', color: 'White', grade: 'A', batch_no: 'B1', sqm: 10.5}"))
	})
})
