package db_test

import (
	"context"

	"github.com/frahmantamala/inventory-management/internal/db"
	"github.com/frahmantamala/inventory-management/internal/db/dbtest"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Scope", func() {
	var (
		stores *db.Stores
		scope  *db.Scope
		ctx    context.Context
	)

	BeforeEach(func() {
		var err error
		stores, err = dbtest.Open(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(stores.Close)

		scope = db.NewScope()
		ctx = db.WithScope(context.Background(), scope)
	})

	It("should acquire connections lazily and only for stores in use", func() {
		Expect(scope.Acquired()).To(BeEmpty())

		tx, err := stores.Inventory.Gorm(ctx)
		Expect(err).NotTo(HaveOccurred())
		var count int64
		Expect(tx.Table("inventory").Count(&count).Error).To(Succeed())

		q, err := stores.Logs.SQLX(ctx)
		Expect(err).NotTo(HaveOccurred())
		_, err = q.ExecContext(ctx, "SELECT 1")
		Expect(err).NotTo(HaveOccurred())

		Expect(scope.Acquired()).To(Equal([]string{db.StoreInventory, db.StoreLogs}))
	})

	It("should reuse one connection per store", func() {
		for i := 0; i < 3; i++ {
			_, err := stores.Users.SQLX(ctx)
			Expect(err).NotTo(HaveOccurred())
		}
		Expect(scope.Acquired()).To(ConsistOf(db.StoreUsers))
		Expect(stores.Users.DB().Stats().InUse).To(Equal(1))
	})

	It("should return every connection on close", func() {
		_, err := stores.Users.SQLX(ctx)
		Expect(err).NotTo(HaveOccurred())
		_, err = stores.Inventory.Gorm(ctx)
		Expect(err).NotTo(HaveOccurred())

		Expect(scope.Close()).To(Succeed())
		Expect(stores.Users.DB().Stats().InUse).To(Equal(0))
		Expect(stores.Inventory.DB().Stats().InUse).To(Equal(0))
		Expect(scope.Close()).To(Succeed())

		_, err = stores.Users.SQLX(ctx)
		Expect(err).To(MatchError(ContainSubstring("already closed")))
	})

	It("should fall back to the pool without a scope", func() {
		Expect(db.ScopeFromContext(context.Background())).To(BeNil())

		q, err := stores.Users.SQLX(context.Background())
		Expect(err).NotTo(HaveOccurred())
		_, err = q.ExecContext(context.Background(), "SELECT 1")
		Expect(err).NotTo(HaveOccurred())
		Expect(scope.Acquired()).To(BeEmpty())
	})
})
