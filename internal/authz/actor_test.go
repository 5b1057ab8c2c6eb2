package authz

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func actorWithRoles(id int64, roles ...string) *Actor {
	return &Actor{UserID: id, Roles: roles}
}

func actorWithPerms(id int64, perms ...string) *Actor {
	return &Actor{UserID: id, Permissions: perms}
}

var _ = Describe("Actor", func() {
	Describe("HasRole", func() {
		It("should find a held role", func() {
			a := actorWithRoles(1, RoleChefEquipe)
			Expect(a.HasRole(RoleChefEquipe)).To(BeTrue())
		})

		It("should reject a role not held", func() {
			a := actorWithRoles(1, RoleCollaborateur)
			Expect(a.HasRole(RoleAdmin)).To(BeFalse())
		})

		It("should deny on nil actor", func() {
			var a *Actor
			Expect(a.HasRole(RoleAdmin)).To(BeFalse())
		})
	})

	Describe("HasAnyRole", func() {
		It("should grant when any listed role is held", func() {
			a := actorWithRoles(1, RoleAssistant)
			Expect(a.HasAnyRole(RoleAdmin, RoleAssistant)).To(BeTrue())
		})

		It("should deny when none are held", func() {
			a := actorWithRoles(1, RoleCollaborateur)
			Expect(a.HasAnyRole(RoleAdmin, RoleChefEquipe)).To(BeFalse())
		})
	})

	Describe("Can", func() {
		It("should grant an explicitly held permission", func() {
			a := actorWithPerms(1, PermClientsView)
			Expect(a.Can(PermClientsView)).To(BeTrue())
		})

		It("should deny a permission not held", func() {
			a := actorWithPerms(1, PermClientsView)
			Expect(a.Can(PermClientsEdit)).To(BeFalse())
		})

		Context("when the actor holds ADMIN", func() {
			It("should grant every permission regardless of the explicit bundle", func() {
				a := actorWithRoles(1, RoleAdmin)
				for _, perm := range []string{
					PermClientsView, PermClientsEdit, PermPortfoliosView,
					PermPortfoliosEdit, PermTasksManage, PermTimeApprove,
					PermRequestsView, PermRequestsManage, PermUsersRateSet,
					PermExportsView, "some.future.permission",
				} {
					Expect(a.Can(perm)).To(BeTrue(), "admin denied %s", perm)
				}
			})
		})

		It("should deny everything on a nil actor", func() {
			var a *Actor
			Expect(a.Can(PermClientsView)).To(BeFalse())
			Expect(a.CanAny(PermClientsView, PermClientsEdit)).To(BeFalse())
		})

		It("should be idempotent for identical inputs", func() {
			a := actorWithPerms(1, PermTasksManage)
			first := a.Can(PermTasksManage)
			second := a.Can(PermTasksManage)
			Expect(first).To(Equal(second))
			Expect(first).To(BeTrue())
		})
	})

	Describe("CanAny", func() {
		It("should grant when at least one permission is held", func() {
			a := actorWithPerms(1, PermRequestsManage)
			Expect(a.CanAny(PermRequestsView, PermRequestsManage)).To(BeTrue())
		})

		It("should deny when none are held", func() {
			a := actorWithPerms(1)
			Expect(a.CanAny(PermRequestsView, PermRequestsManage)).To(BeFalse())
		})
	})
})
