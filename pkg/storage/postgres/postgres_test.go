package postgres_test

import (
	"context"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/wayfarer/pkg/storage"
	"github.com/papercomputeco/wayfarer/pkg/storage/postgres"
	"github.com/papercomputeco/wayfarer/pkg/storage/storagetest"
)

// connStr returns the PostgreSQL connection string from environment or skips the test.
func connStr() string {
	dsn := os.Getenv("WAYFARER_TEST_POSTGRES_DSN")
	if dsn == "" {
		Skip("WAYFARER_TEST_POSTGRES_DSN not set, skipping PostgreSQL tests")
	}
	return dsn
}

var _ = Describe("Driver", func() {
	storagetest.DriverSpecs(func() storage.Driver {
		ctx := context.Background()

		driver, err := postgres.NewDriver(ctx, connStr())
		Expect(err).NotTo(HaveOccurred())

		// Clean all chats before each test for isolation; children cascade.
		_, err = driver.DB().ExecContext(ctx, "DELETE FROM chats")
		Expect(err).NotTo(HaveOccurred())

		return driver
	})
})
