package portfolio

import (
	"io"
	"log/slog"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/mbenkirane/cabinet-management/internal"
	"github.com/mbenkirane/cabinet-management/internal/authz"
)

func TestPortfolio(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Portfolio Module Suite")
}

type mockPortfolioRepository struct {
	portfolios    map[int64]*Portfolio
	collaborators map[int64][]int64
	nextID        int64
	deleted       []int64
}

func newMockPortfolioRepository() *mockPortfolioRepository {
	return &mockPortfolioRepository{
		portfolios: map[int64]*Portfolio{
			1: {ID: 1, Name: "Portefeuille Casablanca"},
			2: {ID: 2, Name: "Portefeuille Rabat"},
		},
		collaborators: map[int64][]int64{
			1: {10},
		},
		nextID: 3,
	}
}

func (m *mockPortfolioRepository) GetByID(id int64) (*Portfolio, error) {
	if p, ok := m.portfolios[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, internal.ErrPortfolioNotFound
}

func (m *mockPortfolioRepository) List() ([]*Portfolio, error) {
	out := make([]*Portfolio, 0, len(m.portfolios))
	for _, p := range m.portfolios {
		copied := *p
		out = append(out, &copied)
	}
	return out, nil
}

func (m *mockPortfolioRepository) ListForCollaborator(userID int64) ([]*Portfolio, error) {
	var out []*Portfolio
	for id, uids := range m.collaborators {
		for _, uid := range uids {
			if uid == userID {
				copied := *m.portfolios[id]
				out = append(out, &copied)
			}
		}
	}
	return out, nil
}

func (m *mockPortfolioRepository) Create(p *Portfolio) error {
	p.ID = m.nextID
	m.nextID++
	copied := *p
	m.portfolios[p.ID] = &copied
	return nil
}

func (m *mockPortfolioRepository) Update(p *Portfolio) error {
	copied := *p
	m.portfolios[p.ID] = &copied
	return nil
}

func (m *mockPortfolioRepository) Delete(id int64) error {
	delete(m.portfolios, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockPortfolioRepository) CollaboratorIDs(portfolioID int64) ([]int64, error) {
	return m.collaborators[portfolioID], nil
}

func (m *mockPortfolioRepository) SyncCollaborators(portfolioID int64, userIDs []int64) error {
	m.collaborators[portfolioID] = userIDs
	return nil
}

var _ = ginkgo.Describe("Portfolio Service", func() {
	var (
		repo    *mockPortfolioRepository
		service *Service

		admin        *authz.Actor
		chef         *authz.Actor
		collaborator *authz.Actor
		outsider     *authz.Actor
	)

	ginkgo.BeforeEach(func() {
		repo = newMockPortfolioRepository()
		service = NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))

		admin = &authz.Actor{UserID: 1, Roles: []string{authz.RoleAdmin}}
		chef = &authz.Actor{UserID: 5, Roles: []string{authz.RoleChefEquipe}}
		collaborator = &authz.Actor{UserID: 10, Roles: []string{authz.RoleCollaborateur}}
		outsider = &authz.Actor{UserID: 11, Roles: []string{authz.RoleCollaborateur}}
	})

	ginkgo.Describe("List", func() {
		ginkgo.It("returns every portfolio to an admin", func() {
			out, err := service.List(admin)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(out).To(gomega.HaveLen(2))
		})

		ginkgo.It("narrows to collaborations for a collaborateur", func() {
			out, err := service.List(collaborator)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(out).To(gomega.HaveLen(1))
			gomega.Expect(out[0].ID).To(gomega.Equal(int64(1)))
		})

		ginkgo.It("returns everything when the view permission is granted", func() {
			viewer := &authz.Actor{UserID: 10, Roles: []string{authz.RoleCollaborateur}, Permissions: []string{authz.PermPortfoliosView}}
			out, err := service.List(viewer)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(out).To(gomega.HaveLen(2))
		})

		ginkgo.It("denies an actor with no recognized role or permission", func() {
			_, err := service.List(&authz.Actor{UserID: 99})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrAccessDenied))
		})
	})

	ginkgo.Describe("Get", func() {
		ginkgo.It("allows a collaborator on that portfolio", func() {
			p, err := service.Get(collaborator, 1)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(p.CollaboratorIDs).To(gomega.ConsistOf(int64(10)))
		})

		ginkgo.It("denies a collaborateur outside the portfolio", func() {
			_, err := service.Get(outsider, 1)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrAccessDenied))
		})

		ginkgo.It("returns not found before forbidden for a missing portfolio", func() {
			_, err := service.Get(outsider, 99)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrPortfolioNotFound))
		})
	})

	ginkgo.Describe("Update", func() {
		ginkgo.It("allows an admin", func() {
			name := "Portefeuille Casablanca Nord"
			p, err := service.Update(admin, 1, UpdatePortfolioDTO{Name: &name})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(p.Name).To(gomega.Equal(name))
		})

		ginkgo.It("denies a collaborator: collaboration grants view only", func() {
			name := "Hijacked"
			_, err := service.Update(collaborator, 1, UpdatePortfolioDTO{Name: &name})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrAccessDenied))
		})

		ginkgo.It("denies a chef d'equipe without the edit permission", func() {
			name := "Nope"
			_, err := service.Update(chef, 1, UpdatePortfolioDTO{Name: &name})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrAccessDenied))
		})

		ginkgo.It("allows the edit permission", func() {
			editor := &authz.Actor{UserID: 7, Permissions: []string{authz.PermPortfoliosEdit}}
			name := "Edited"
			_, err := service.Update(editor, 1, UpdatePortfolioDTO{Name: &name})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("Delete", func() {
		ginkgo.It("is admin only", func() {
			gomega.Expect(service.Delete(admin, 2)).To(gomega.Succeed())
			gomega.Expect(repo.deleted).To(gomega.ConsistOf(int64(2)))

			gomega.Expect(service.Delete(chef, 1)).To(gomega.MatchError(internal.ErrAccessDenied))
		})
	})

	ginkgo.Describe("SyncCollaborators", func() {
		ginkgo.It("replaces the set wholesale for an admin", func() {
			p, err := service.SyncCollaborators(admin, 1, SyncCollaboratorsDTO{UserIDs: []int64{20, 21}})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(p.CollaboratorIDs).To(gomega.Equal([]int64{20, 21}))
		})

		ginkgo.It("denies an existing collaborator", func() {
			_, err := service.SyncCollaborators(collaborator, 1, SyncCollaboratorsDTO{UserIDs: []int64{10, 11}})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrAccessDenied))
		})
	})
})
