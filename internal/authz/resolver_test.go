package authz

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakeStore struct {
	roles       map[int64][]string
	permissions map[int64][]string
	roleCalls   int
	permCalls   int
	err         error
}

func (s *fakeStore) RolesForUser(_ context.Context, userID int64) ([]string, error) {
	s.roleCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.roles[userID], nil
}

func (s *fakeStore) PermissionsForUser(_ context.Context, userID int64) ([]string, error) {
	s.permCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.permissions[userID], nil
}

var _ = Describe("Resolver", func() {
	var (
		store    *fakeStore
		resolver *Resolver
		ctx      context.Context
	)

	BeforeEach(func() {
		store = &fakeStore{
			roles: map[int64][]string{
				1: {RoleAdmin},
				2: {RoleCollaborateur},
			},
			permissions: map[int64][]string{
				1: {},
				2: {PermClientsView},
			},
		}
		resolver = NewResolver(store)
		ctx = context.Background()
	})

	It("should build an actor from the store", func() {
		a, err := resolver.Actor(ctx, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(a.UserID).To(Equal(int64(2)))
		Expect(a.HasRole(RoleCollaborateur)).To(BeTrue())
		Expect(a.Can(PermClientsView)).To(BeTrue())
	})

	It("should memoize within its lifetime", func() {
		first, err := resolver.Actor(ctx, 1)
		Expect(err).NotTo(HaveOccurred())
		second, err := resolver.Actor(ctx, 1)
		Expect(err).NotTo(HaveOccurred())

		Expect(second).To(BeIdenticalTo(first))
		Expect(store.roleCalls).To(Equal(1))
		Expect(store.permCalls).To(Equal(1))
	})

	It("should see fresh data through a new resolver", func() {
		a, err := resolver.Actor(ctx, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(a.HasRole(RoleChefEquipe)).To(BeFalse())

		// role mutation: caller drops the old resolver and builds a new one
		store.roles[2] = []string{RoleChefEquipe}
		fresh := NewResolver(store)
		a, err = fresh.Actor(ctx, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(a.HasRole(RoleChefEquipe)).To(BeTrue())
	})

	It("should propagate store errors", func() {
		store.err = errors.New("connection reset")
		_, err := resolver.Actor(ctx, 1)
		Expect(err).To(HaveOccurred())
	})
})
