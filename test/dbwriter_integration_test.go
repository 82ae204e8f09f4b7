package test

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/jonmartinstorm/reposamler/internal/dbwriter"
	"github.com/jonmartinstorm/reposamler/internal/models"
	"github.com/jonmartinstorm/reposamler/test/testutils"
)

func TestDBWriterIntegration(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "DBWriter Integrasjon")
}

func cleanRepo(id int64, name string) models.CleanRepo {
	return models.CleanRepo{
		ID:        id,
		Name:      name,
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
		PushedAt:  time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC),
		Size:      512,
		Language:  "Go",
		User:      "bruker",
		UserType:  "User",
		UserID:    7,
	}
}

var _ = Describe("PostgresWriter.Load", Ordered, func() {
	var testDB *testutils.TestDB
	var writer *dbwriter.PostgresWriter
	var ctx context.Context

	BeforeAll(func() {
		ctx = context.Background()
		testDB = testutils.StartTestPostgresContainer()
		writer = &dbwriter.PostgresWriter{DB: testDB.DB}
	})

	AfterAll(func() {
		testDB.Close()
	})

	It("oppretter tabellen og laster radene", func() {
		rows := []models.CleanRepo{
			cleanRepo(1, "alfa"),
			cleanRepo(2, "beta"),
		}

		Expect(writer.Load(ctx, rows)).To(Succeed())

		var count int
		row := testDB.DB.QueryRow(`SELECT COUNT(*) FROM repositories`)
		Expect(row.Scan(&count)).To(Succeed())
		Expect(count).To(Equal(2))

		var name string
		row = testDB.DB.QueryRow(`SELECT name FROM repositories WHERE id = 1`)
		Expect(row.Scan(&name)).To(Succeed())
		Expect(name).To(Equal("alfa"))
	})

	It("erstatter hele tabellinnholdet ved neste lasting", func() {
		Expect(writer.Load(ctx, []models.CleanRepo{cleanRepo(9, "gamma")})).To(Succeed())

		var count int
		row := testDB.DB.QueryRow(`SELECT COUNT(*) FROM repositories`)
		Expect(row.Scan(&count)).To(Succeed())
		Expect(count).To(Equal(1))

		var id int64
		row = testDB.DB.QueryRow(`SELECT id FROM repositories`)
		Expect(row.Scan(&id)).To(Succeed())
		Expect(id).To(Equal(int64(9)))
	})

	It("lar tabellen stå urørt ved tom input", func() {
		Expect(writer.Load(ctx, nil)).To(Succeed())

		var count int
		row := testDB.DB.QueryRow(`SELECT COUNT(*) FROM repositories`)
		Expect(row.Scan(&count)).To(Succeed())
		Expect(count).To(Equal(1))
	})
})
