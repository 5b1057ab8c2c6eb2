package authz

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Membership", func() {
	Describe("IsCollaboratorForClient", func() {
		It("should grant via direct client collaboration only", func() {
			a := actorWithRoles(7, RoleCollaborateur)
			c := ClientView{
				ID:                       1,
				PortfolioID:              10,
				CollaboratorIDs:          []int64{7},
				PortfolioCollaboratorIDs: []int64{},
			}
			Expect(IsCollaboratorForClient(a, c)).To(BeTrue())
		})

		It("should grant via portfolio collaboration only", func() {
			a := actorWithRoles(7, RoleCollaborateur)
			c := ClientView{
				ID:                       1,
				PortfolioID:              10,
				CollaboratorIDs:          []int64{},
				PortfolioCollaboratorIDs: []int64{7},
			}
			Expect(IsCollaboratorForClient(a, c)).To(BeTrue())
		})

		It("should deny when neither membership holds", func() {
			a := actorWithRoles(7, RoleCollaborateur)
			c := ClientView{
				ID:                       1,
				PortfolioID:              10,
				CollaboratorIDs:          []int64{8},
				PortfolioCollaboratorIDs: []int64{9},
			}
			Expect(IsCollaboratorForClient(a, c)).To(BeFalse())
		})

		It("should deny on nil actor", func() {
			c := ClientView{CollaboratorIDs: []int64{1, 2, 3}}
			Expect(IsCollaboratorForClient(nil, c)).To(BeFalse())
		})
	})

	Describe("IsCollaboratorForPortfolio", func() {
		It("should grant a member", func() {
			a := actorWithRoles(4, RoleCollaborateur)
			p := PortfolioView{ID: 2, CollaboratorIDs: []int64{3, 4}}
			Expect(IsCollaboratorForPortfolio(a, p)).To(BeTrue())
		})

		It("should deny a non-member", func() {
			a := actorWithRoles(5, RoleCollaborateur)
			p := PortfolioView{ID: 2, CollaboratorIDs: []int64{3, 4}}
			Expect(IsCollaboratorForPortfolio(a, p)).To(BeFalse())
		})

		It("should deny on an empty collaborator set", func() {
			a := actorWithRoles(5, RoleCollaborateur)
			Expect(IsCollaboratorForPortfolio(a, PortfolioView{ID: 2})).To(BeFalse())
		})
	})
})
