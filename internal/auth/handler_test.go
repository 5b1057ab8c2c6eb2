package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/mbenkirane/cabinet-management/internal/authz"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

type mockAccessStore struct {
	roles       map[int64][]string
	permissions map[int64][]string
	err         error
}

func (s *mockAccessStore) RolesForUser(_ context.Context, userID int64) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.roles[userID], nil
}

func (s *mockAccessStore) PermissionsForUser(_ context.Context, userID int64) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.permissions[userID], nil
}

var _ = ginkgo.Describe("AuthMiddleware", func() {
	var (
		handler *Handler
		service *Service
		store   *mockAccessStore
	)

	ginkgo.BeforeEach(func() {
		tokenGen := NewJWTTokenGenerator("test-access-secret", "test-refresh-secret", 15*time.Minute, 24*time.Hour)
		service = NewService(newMockAuthRepository(), tokenGen, bcrypt.DefaultCost)
		store = &mockAccessStore{
			roles: map[int64][]string{
				3: {authz.RoleChefEquipe},
			},
			permissions: map[int64][]string{
				3: {authz.PermClientsView, authz.PermTasksManage},
			},
		}
		handler = NewHandler(service, store)
	})

	loginAsChef := func() string {
		tokens, err := service.Authenticate(LoginDTO{
			Email:    "chef@cabinet.ma",
			Password: "correct_password",
		})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		return tokens.AccessToken
	}

	serve := func(token string, next http.Handler) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		handler.AuthMiddleware(next).ServeHTTP(rec, req)
		return rec
	}

	ginkgo.It("should resolve the actor's access sets through the store", func() {
		var captured *User
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			captured, _ = UserFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})

		rec := serve(loginAsChef(), next)

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		gomega.Expect(captured).ToNot(gomega.BeNil())
		gomega.Expect(captured.Email).To(gomega.Equal("chef@cabinet.ma"))

		actor := captured.Actor()
		gomega.Expect(actor.HasRole(authz.RoleChefEquipe)).To(gomega.BeTrue())
		gomega.Expect(actor.Can(authz.PermTasksManage)).To(gomega.BeTrue())
		gomega.Expect(actor.Can(authz.PermExportsView)).To(gomega.BeFalse())
	})

	ginkgo.It("should see role mutations on the next request, not a stale cache", func() {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, _ := UserFromContext(r.Context())
			if u.Actor().Can(authz.PermTimeApprove) {
				w.WriteHeader(http.StatusOK)
				return
			}
			w.WriteHeader(http.StatusForbidden)
		})
		token := loginAsChef()

		gomega.Expect(serve(token, next).Code).To(gomega.Equal(http.StatusForbidden))

		store.permissions[3] = append(store.permissions[3], authz.PermTimeApprove)

		gomega.Expect(serve(token, next).Code).To(gomega.Equal(http.StatusOK))
	})

	ginkgo.It("should fail closed when the store errors", func() {
		store.err = errors.New("db down")
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ginkgo.Fail("next handler must not run")
		})

		rec := serve(loginAsChef(), next)
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusInternalServerError))
	})

	ginkgo.It("should reject a missing token", func() {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ginkgo.Fail("next handler must not run")
		})

		rec := serve("", next)
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
	})
})
