package postgres

import (
	"errors"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mbenkirane/cabinet-management/internal"
	"github.com/mbenkirane/cabinet-management/internal/client"
)

func TestClientRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "ClientRepository Suite")
}

type SQLitePortfolio struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (SQLitePortfolio) TableName() string { return "portfolios" }

type SQLitePortfolioCollaborator struct {
	ID          int64     `gorm:"primaryKey"`
	PortfolioID int64     `gorm:"column:portfolio_id;not null;uniqueIndex:idx_portfolio_collaborators_pair"`
	UserID      int64     `gorm:"column:user_id;not null;uniqueIndex:idx_portfolio_collaborators_pair"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (SQLitePortfolioCollaborator) TableName() string { return "portfolio_collaborators" }

type SQLiteClient struct {
	ID             int64     `gorm:"primaryKey"`
	PortfolioID    int64     `gorm:"column:portfolio_id;not null"`
	Name           string    `gorm:"column:name;not null"`
	Email          string    `gorm:"column:email"`
	Phone          string    `gorm:"column:phone"`
	ICE            string    `gorm:"column:ice"`
	FiscalID       string    `gorm:"column:fiscal_id"`
	MontantContrat *float64  `gorm:"column:montant_contrat"`
	Status         string    `gorm:"column:status"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (SQLiteClient) TableName() string { return "clients" }

type SQLiteClientCollaborator struct {
	ID        int64     `gorm:"primaryKey"`
	ClientID  int64     `gorm:"column:client_id;not null;uniqueIndex:idx_client_collaborators_pair"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex:idx_client_collaborators_pair"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (SQLiteClientCollaborator) TableName() string { return "client_collaborators" }

type SQLiteClientDocument struct {
	ID             int64     `gorm:"primaryKey"`
	ClientID       int64     `gorm:"column:client_id;not null"`
	Title          string    `gorm:"column:title;not null"`
	FileName       string    `gorm:"column:file_name;not null"`
	StorageKey     string    `gorm:"column:storage_key;not null"`
	MimeType       string    `gorm:"column:mime_type"`
	SizeBytes      int64     `gorm:"column:size_bytes"`
	IsConfidential bool      `gorm:"column:is_confidential"`
	UploadedBy     int64     `gorm:"column:uploaded_by;not null"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (SQLiteClientDocument) TableName() string { return "client_documents" }

var _ = Describe("ClientRepository", func() {
	var (
		db          *gorm.DB
		repo        *ClientRepository
		portfolioID int64
	)

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(
			&SQLitePortfolio{},
			&SQLitePortfolioCollaborator{},
			&SQLiteClient{},
			&SQLiteClientCollaborator{},
			&SQLiteClientDocument{},
		)
		Expect(err).NotTo(HaveOccurred())

		p := &SQLitePortfolio{Name: "Portefeuille Casablanca", CreatedAt: time.Now(), UpdatedAt: time.Now()}
		Expect(db.Create(p).Error).To(Succeed())
		portfolioID = p.ID

		repo = NewClientRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	createClient := func(name string) *client.Client {
		montant := 120000.0
		c := &client.Client{
			PortfolioID:    portfolioID,
			Name:           name,
			Email:          "contact@atlas-textile.ma",
			ICE:            "001528796000078",
			MontantContrat: &montant,
			Status:         client.StatusActif,
		}
		Expect(repo.Create(c)).To(Succeed())
		return c
	}

	Describe("Create and GetByID", func() {
		It("round-trips a client including the contract amount", func() {
			created := createClient("Atlas Textile SARL")
			Expect(created.ID).To(BeNumerically(">", 0))

			got, err := repo.GetByID(created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Name).To(Equal("Atlas Textile SARL"))
			Expect(got.MontantContrat).NotTo(BeNil())
			Expect(*got.MontantContrat).To(Equal(120000.0))
		})

		It("returns the client-not-found sentinel for unknown ids", func() {
			_, err := repo.GetByID(4242)
			Expect(errors.Is(err, internal.ErrClientNotFound)).To(BeTrue())
		})
	})

	Describe("PortfolioExists", func() {
		It("reports seeded and missing portfolios", func() {
			ok, err := repo.PortfolioExists(portfolioID)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())

			ok, err = repo.PortfolioExists(999)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
		})
	})

	Describe("ListForCollaborator", func() {
		var direct, viaPortfolio, unrelated *client.Client

		BeforeEach(func() {
			direct = createClient("Atlas Textile SARL")
			viaPortfolio = createClient("Menara Conseil")
			unrelated = createClient("Rif Export")

			// user 10 collaborates on "Atlas Textile" directly; user 11
			// reaches "Menara Conseil" through the portfolio
			Expect(repo.SyncCollaborators(direct.ID, []int64{10})).To(Succeed())

			other := &SQLitePortfolio{Name: "Portefeuille Rabat", CreatedAt: time.Now(), UpdatedAt: time.Now()}
			Expect(db.Create(other).Error).To(Succeed())
			viaPortfolio.PortfolioID = other.ID
			Expect(repo.Update(viaPortfolio)).To(Succeed())
			unrelated.PortfolioID = other.ID
			Expect(repo.Update(unrelated)).To(Succeed())

			link := &SQLitePortfolioCollaborator{PortfolioID: other.ID, UserID: 11, CreatedAt: time.Now()}
			Expect(db.Create(link).Error).To(Succeed())
		})

		It("returns clients with a direct collaboration", func() {
			got, err := repo.ListForCollaborator(10)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(HaveLen(1))
			Expect(got[0].ID).To(Equal(direct.ID))
		})

		It("returns clients reached through the portfolio", func() {
			got, err := repo.ListForCollaborator(11)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(HaveLen(2))
		})

		It("deduplicates a client matched by both paths", func() {
			Expect(repo.SyncCollaborators(viaPortfolio.ID, []int64{11})).To(Succeed())

			got, err := repo.ListForCollaborator(11)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(HaveLen(2))
		})

		It("yields nothing for an outsider", func() {
			got, err := repo.ListForCollaborator(99)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeEmpty())
		})
	})

	Describe("SyncCollaborators", func() {
		It("replaces the set atomically", func() {
			c := createClient("Atlas Textile SARL")

			Expect(repo.SyncCollaborators(c.ID, []int64{10, 11})).To(Succeed())
			ids, err := repo.CollaboratorIDs(c.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(ids).To(ConsistOf(int64(10), int64(11)))

			Expect(repo.SyncCollaborators(c.ID, []int64{12})).To(Succeed())
			ids, err = repo.CollaboratorIDs(c.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(ids).To(ConsistOf(int64(12)))
		})
	})

	Describe("documents", func() {
		var c *client.Client

		BeforeEach(func() {
			c = createClient("Atlas Textile SARL")
		})

		It("stores metadata and lists newest first", func() {
			older := &client.Document{ClientID: c.ID, Title: "Statuts", FileName: "statuts.pdf", StorageKey: "k1", UploadedBy: 1}
			Expect(repo.CreateDocument(older)).To(Succeed())

			newer := &client.Document{ClientID: c.ID, Title: "Bilan 2024", FileName: "bilan.pdf", StorageKey: "k2", UploadedBy: 1, IsConfidential: true}
			// force distinct created_at ordering
			Expect(db.Model(&SQLiteClientDocument{}).Where("id = ?", older.ID).
				Update("created_at", time.Now().Add(-time.Hour)).Error).To(Succeed())
			Expect(repo.CreateDocument(newer)).To(Succeed())

			docs, err := repo.ListDocuments(c.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(docs).To(HaveLen(2))
			Expect(docs[0].Title).To(Equal("Bilan 2024"))
			Expect(docs[0].IsConfidential).To(BeTrue())
		})

		It("deletes a metadata row", func() {
			doc := &client.Document{ClientID: c.ID, Title: "Statuts", FileName: "statuts.pdf", StorageKey: "k1", UploadedBy: 1}
			Expect(repo.CreateDocument(doc)).To(Succeed())

			Expect(repo.DeleteDocument(doc.ID)).To(Succeed())

			_, err := repo.GetDocumentByID(doc.ID)
			Expect(errors.Is(err, internal.ErrDocumentNotFound)).To(BeTrue())
		})
	})

	Describe("Delete", func() {
		It("removes the client with its links and documents", func() {
			c := createClient("Atlas Textile SARL")
			Expect(repo.SyncCollaborators(c.ID, []int64{10})).To(Succeed())
			doc := &client.Document{ClientID: c.ID, Title: "Statuts", FileName: "statuts.pdf", StorageKey: "k1", UploadedBy: 1}
			Expect(repo.CreateDocument(doc)).To(Succeed())

			Expect(repo.Delete(c.ID)).To(Succeed())

			_, err := repo.GetByID(c.ID)
			Expect(errors.Is(err, internal.ErrClientNotFound)).To(BeTrue())

			ids, err := repo.CollaboratorIDs(c.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(ids).To(BeEmpty())

			docs, err := repo.ListDocuments(c.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(docs).To(BeEmpty())
		})
	})
})
