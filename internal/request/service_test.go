package request

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/mbenkirane/cabinet-management/internal"
	"github.com/mbenkirane/cabinet-management/internal/authz"
)

func TestRequest(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Request Module Suite")
}

type mockRequestRepository struct {
	requests map[int64]*Request
	files    map[int64]*File
	messages map[int64][]*Message
	clients  map[int64]bool
	nextID   int64
}

func newMockRequestRepository() *mockRequestRepository {
	return &mockRequestRepository{
		requests: map[int64]*Request{
			1: {ID: 1, ClientID: 1, Reference: "DEM-fixture-1", Subject: "Attestation fiscale", Status: StatusNouvelle, CreatedBy: 20},
			2: {ID: 2, ClientID: 1, Reference: "DEM-fixture-2", Subject: "Releve bancaire", Status: StatusEnCours, CreatedBy: 21},
		},
		files:    map[int64]*File{},
		messages: map[int64][]*Message{},
		clients:  map[int64]bool{1: true},
		nextID:   3,
	}
}

func (m *mockRequestRepository) GetByID(id int64) (*Request, error) {
	if r, ok := m.requests[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, internal.ErrRequestNotFound
}

func (m *mockRequestRepository) List() ([]*Request, error) {
	out := make([]*Request, 0, len(m.requests))
	for _, r := range m.requests {
		copied := *r
		out = append(out, &copied)
	}
	return out, nil
}

func (m *mockRequestRepository) ListByCreator(userID int64) ([]*Request, error) {
	var out []*Request
	for _, r := range m.requests {
		if r.CreatedBy == userID {
			copied := *r
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockRequestRepository) ListForClient(clientID int64) ([]*Request, error) {
	var out []*Request
	for _, r := range m.requests {
		if r.ClientID == clientID {
			copied := *r
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockRequestRepository) Create(r *Request) error {
	r.ID = m.nextID
	m.nextID++
	copied := *r
	m.requests[r.ID] = &copied
	return nil
}

func (m *mockRequestRepository) Update(r *Request) error {
	copied := *r
	m.requests[r.ID] = &copied
	return nil
}

func (m *mockRequestRepository) Delete(id int64) error {
	delete(m.requests, id)
	delete(m.messages, id)
	for fid, f := range m.files {
		if f.RequestID == id {
			delete(m.files, fid)
		}
	}
	return nil
}

func (m *mockRequestRepository) ClientExists(clientID int64) (bool, error) {
	return m.clients[clientID], nil
}

func (m *mockRequestRepository) CreateFile(f *File) error {
	f.ID = m.nextID
	m.nextID++
	copied := *f
	m.files[f.ID] = &copied
	return nil
}

func (m *mockRequestRepository) GetFileByID(id int64) (*File, error) {
	if f, ok := m.files[id]; ok {
		copied := *f
		return &copied, nil
	}
	return nil, internal.ErrRequestFileNotFound
}

func (m *mockRequestRepository) ListFiles(requestID int64) ([]*File, error) {
	var out []*File
	for _, f := range m.files {
		if f.RequestID == requestID {
			copied := *f
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockRequestRepository) DeleteFile(id int64) error {
	delete(m.files, id)
	return nil
}

func (m *mockRequestRepository) CreateMessage(msg *Message) error {
	msg.ID = m.nextID
	m.nextID++
	copied := *msg
	m.messages[msg.RequestID] = append(m.messages[msg.RequestID], &copied)
	return nil
}

func (m *mockRequestRepository) ListMessages(requestID int64) ([]*Message, error) {
	return m.messages[requestID], nil
}

type mockFileStore struct {
	blobs   map[string][]byte
	deleted []string
}

func newMockFileStore() *mockFileStore {
	return &mockFileStore{blobs: map[string][]byte{}}
}

func (m *mockFileStore) Save(_ context.Context, key string, r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	m.blobs[key] = data
	return int64(len(data)), nil
}

func (m *mockFileStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := m.blobs[key]
	if !ok {
		return nil, internal.ErrRequestFileNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *mockFileStore) Delete(_ context.Context, key string) error {
	delete(m.blobs, key)
	m.deleted = append(m.deleted, key)
	return nil
}

var _ = ginkgo.Describe("Request Service", func() {
	var (
		repo    *mockRequestRepository
		files   *mockFileStore
		service *Service
		ctx     context.Context

		admin     *authz.Actor
		assistant *authz.Actor
		creator   *authz.Actor
		other     *authz.Actor
		manager   *authz.Actor
	)

	ginkgo.BeforeEach(func() {
		repo = newMockRequestRepository()
		files = newMockFileStore()
		service = NewService(repo, files, slog.New(slog.NewTextHandler(io.Discard, nil)))
		ctx = context.Background()

		admin = &authz.Actor{UserID: 1, Roles: []string{authz.RoleAdmin}}
		assistant = &authz.Actor{UserID: 20, Roles: []string{authz.RoleAssistant}}
		creator = &authz.Actor{UserID: 20, Roles: []string{authz.RoleAssistant}}
		other = &authz.Actor{UserID: 22, Roles: []string{authz.RoleAssistant}}
		manager = &authz.Actor{UserID: 30, Roles: []string{authz.RoleCollaborateur}, Permissions: []string{authz.PermRequestsManage}}
	})

	ginkgo.Describe("List", func() {
		ginkgo.It("returns everything to requests.manage holders and admins", func() {
			out, err := service.List(manager)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(out).To(gomega.HaveLen(2))

			out, err = service.List(admin)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(out).To(gomega.HaveLen(2))
		})

		ginkgo.It("narrows to own requests for an assistant", func() {
			out, err := service.List(creator)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(out).To(gomega.HaveLen(1))
			gomega.Expect(out[0].CreatedBy).To(gomega.Equal(creator.UserID))
		})

		ginkgo.It("denies a plain collaborateur", func() {
			_, err := service.List(&authz.Actor{UserID: 40, Roles: []string{authz.RoleCollaborateur}})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrAccessDenied))
		})
	})

	ginkgo.Describe("Get", func() {
		ginkgo.It("allows the creator and managers", func() {
			_, err := service.Get(creator, 1)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			_, err = service.Get(manager, 1)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
		})

		ginkgo.It("denies another assistant", func() {
			_, err := service.Get(other, 1)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrAccessDenied))
		})
	})

	ginkgo.Describe("Create", func() {
		ginkgo.It("mints a unique reference and starts NOUVELLE", func() {
			r1, err := service.Create(assistant, CreateRequestDTO{ClientID: 1, Subject: "CNSS attestation"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(r1.Status).To(gomega.Equal(StatusNouvelle))
			gomega.Expect(r1.Reference).To(gomega.HavePrefix("DEM-"))
			gomega.Expect(r1.CreatedBy).To(gomega.Equal(assistant.UserID))

			r2, err := service.Create(assistant, CreateRequestDTO{ClientID: 1, Subject: "Another"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(r2.Reference).NotTo(gomega.Equal(r1.Reference))
		})

		ginkgo.It("requires an existing client", func() {
			_, err := service.Create(assistant, CreateRequestDTO{ClientID: 99, Subject: "Ghost"})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrClientNotFound))
		})
	})

	ginkgo.Describe("Update", func() {
		ginkgo.It("moves status within the enum", func() {
			status := StatusEnAttenteClient
			r, err := service.Update(creator, 1, UpdateRequestDTO{Status: &status})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(r.Status).To(gomega.Equal(StatusEnAttenteClient))
		})

		ginkgo.It("rejects a status outside the enum", func() {
			status := "DONE"
			_, err := service.Update(creator, 1, UpdateRequestDTO{Status: &status})
			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("denies a non-creator without requests.manage", func() {
			status := StatusCloturee
			_, err := service.Update(other, 1, UpdateRequestDTO{Status: &status})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrAccessDenied))
		})
	})

	ginkgo.Describe("files", func() {
		attach := func(actor *authz.Actor, requestID int64) (*File, error) {
			return service.AttachFile(ctx, actor, requestID, AttachFileDTO{
				FileName: "attestation.pdf",
				MimeType: "application/pdf",
			}, strings.NewReader("pdf bytes"))
		}

		ginkgo.It("stores the blob and its metadata", func() {
			f, err := attach(creator, 1)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(f.SizeBytes).To(gomega.Equal(int64(len("pdf bytes"))))
			gomega.Expect(files.blobs).To(gomega.HaveKey(f.StorageKey))
		})

		ginkgo.It("yields not found through the wrong request, even for managers", func() {
			f, err := attach(creator, 1)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			_, _, err = service.DownloadFile(ctx, manager, 2, f.ID)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrRequestFileNotFound))

			err = service.DeleteFile(ctx, manager, 2, f.ID)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrRequestFileNotFound))
		})

		ginkgo.It("round-trips a download", func() {
			f, err := attach(creator, 1)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			_, blob, err := service.DownloadFile(ctx, creator, 1, f.ID)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			defer blob.Close()
			data, err := io.ReadAll(blob)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(string(data)).To(gomega.Equal("pdf bytes"))
		})

		ginkgo.It("deletes the metadata and the blob", func() {
			f, err := attach(creator, 1)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			gomega.Expect(service.DeleteFile(ctx, creator, 1, f.ID)).To(gomega.Succeed())
			gomega.Expect(files.deleted).To(gomega.ConsistOf(f.StorageKey))
		})
	})

	ginkgo.Describe("messages", func() {
		ginkgo.It("lets participants post and read the thread", func() {
			_, err := service.PostMessage(creator, 1, PostMessageDTO{Body: "Des nouvelles?"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			m, err := service.PostMessage(manager, 1, PostMessageDTO{Body: "En cours de traitement."})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(m.AuthorID).To(gomega.Equal(manager.UserID))

			thread, err := service.ListMessages(creator, 1)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(thread).To(gomega.HaveLen(2))
		})

		ginkgo.It("denies non-participants", func() {
			_, err := service.PostMessage(other, 1, PostMessageDTO{Body: "intrusion"})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrAccessDenied))
		})

		ginkgo.It("rejects an empty body", func() {
			_, err := service.PostMessage(creator, 1, PostMessageDTO{})
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("Delete", func() {
		ginkgo.It("removes attached blobs with the request", func() {
			f, err := service.AttachFile(ctx, creator, 1, AttachFileDTO{FileName: "a.pdf"}, strings.NewReader("x"))
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			gomega.Expect(service.Delete(ctx, creator, 1)).To(gomega.Succeed())
			gomega.Expect(repo.requests).NotTo(gomega.HaveKey(int64(1)))
			gomega.Expect(files.deleted).To(gomega.ConsistOf(f.StorageKey))
		})
	})
})
