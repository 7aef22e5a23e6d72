package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cardlink/internal/domain"
	"cardlink/internal/service"
)

type stubContactsClient struct {
	t *testing.T

	records []json.RawMessage
	err     error
}

func (s *stubContactsClient) GetContacts(context.Context) ([]json.RawMessage, error) {
	return s.records, s.err
}

func (s *stubContactsClient) GetContactsByFolder(context.Context, string) ([]json.RawMessage, error) {
	return s.records, s.err
}

func (s *stubContactsClient) SearchContacts(context.Context, string) ([]json.RawMessage, error) {
	return s.records, s.err
}

type stubLifecycleClient struct {
	t *testing.T

	statusCalls int
	removeCalls int
	err         error
}

func (s *stubLifecycleClient) SetContactStatus(context.Context, string, domain.ContactStatus, string) error {
	s.statusCalls++
	return s.err
}

func (s *stubLifecycleClient) RemoveContact(context.Context, string) error {
	s.removeCalls++
	return s.err
}

type stubFoldersClient struct {
	t *testing.T

	folders []domain.Folder
	created *domain.Folder
	err     error
}

func (s *stubFoldersClient) ListFolders(context.Context) ([]domain.Folder, error) {
	return s.folders, s.err
}

func (s *stubFoldersClient) CreateFolder(_ context.Context, name string) (domain.Folder, error) {
	if s.err != nil {
		return domain.Folder{}, s.err
	}
	f := domain.Folder{ID: "f-new", Name: name}
	s.created = &f
	return f, nil
}

func (s *stubFoldersClient) RenameFolder(context.Context, string, string) error { return s.err }
func (s *stubFoldersClient) DeleteFolder(context.Context, string) error         { return s.err }

func newTestAPI(t *testing.T, contacts *stubContactsClient, lifecycle *stubLifecycleClient, folders *stubFoldersClient) *api {
	t.Helper()
	if contacts == nil {
		contacts = &stubContactsClient{t: t}
	}
	if lifecycle == nil {
		lifecycle = &stubLifecycleClient{t: t}
	}
	if folders == nil {
		folders = &stubFoldersClient{t: t}
	}

	contactsSvc := &service.ContactsService{Client: contacts}
	foldersSvc := &service.FoldersService{Client: folders}
	return &api{
		contactsSvc: contactsSvc,
		foldersSvc:  foldersSvc,
		lifecycleSvc: &service.LifecycleService{
			Client:   lifecycle,
			Contacts: contactsSvc,
			Folders:  foldersSvc,
		},
	}
}

func withActor(r *http.Request, actor domain.Actor) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), actorKey, actor))
}

func decodeErrorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope errorEnvelope
	if err := json.NewDecoder(rr.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return envelope.Error.Code
}

func TestContactsListFiltersToAccepted(t *testing.T) {
	api := newTestAPI(t, &stubContactsClient{
		t: t,
		records: []json.RawMessage{
			json.RawMessage(`{"id":"e1","status":0,"user_details":{"owner_name_english":"Alice"}}`),
			json.RawMessage(`{"id":"e2","status":1,"user_details":{"owner_name_english":"Bob"}}`),
		},
	}, nil, nil)

	req := withActor(httptest.NewRequest(http.MethodGet, "/v1/contacts", nil), domain.Actor{UserID: "u1", Tier: domain.TierFree})
	rr := httptest.NewRecorder()
	api.handleContactsList(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	var edges []domain.ContactEdge
	if err := json.NewDecoder(rr.Body).Decode(&edges); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(edges) != 1 || edges[0].ID != "e2" {
		t.Fatalf("unexpected edges: %+v", edges)
	}
}

func TestContactsListWithoutActorIs401(t *testing.T) {
	api := newTestAPI(t, nil, nil, nil)

	rr := httptest.NewRecorder()
	api.handleContactsList(rr, httptest.NewRequest(http.MethodGet, "/v1/contacts", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	if code := decodeErrorCode(t, rr); code != "unauthenticated" {
		t.Fatalf("unexpected code: %s", code)
	}
}

func TestBackendUnauthenticatedPropagatesAs401(t *testing.T) {
	api := newTestAPI(t, &stubContactsClient{t: t, err: domain.ErrUnauthenticated}, nil, nil)

	req := withActor(httptest.NewRequest(http.MethodGet, "/v1/contacts", nil), domain.Actor{UserID: "u1"})
	rr := httptest.NewRecorder()
	api.handleContactsList(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
}

func TestAcceptWithoutFolderIsRejectedLocally(t *testing.T) {
	lifecycle := &stubLifecycleClient{t: t}
	api := newTestAPI(t, nil, lifecycle, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/contacts/requests/e1/accept", strings.NewReader(`{}`))
	req.SetPathValue("id", "e1")
	req = withActor(req, domain.Actor{UserID: "u1", Tier: domain.TierFree})
	rr := httptest.NewRecorder()
	api.handleRequestAccept(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	if lifecycle.statusCalls != 0 {
		t.Fatalf("no backend call expected, got %d", lifecycle.statusCalls)
	}
}

func TestAcceptWithFolderSucceeds(t *testing.T) {
	lifecycle := &stubLifecycleClient{t: t}
	contacts := &stubContactsClient{t: t}
	api := newTestAPI(t, contacts, lifecycle, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/contacts/requests/e1/accept", strings.NewReader(`{"folder_id":"f1"}`))
	req.SetPathValue("id", "e1")
	req = withActor(req, domain.Actor{UserID: "u1", Tier: domain.TierFree})
	rr := httptest.NewRecorder()
	api.handleRequestAccept(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: %d (%s)", rr.Code, rr.Body.String())
	}
	if lifecycle.statusCalls != 1 {
		t.Fatalf("expected one status call, got %d", lifecycle.statusCalls)
	}
}

func TestAcceptRejectsAmbiguousFolderChoice(t *testing.T) {
	lifecycle := &stubLifecycleClient{t: t}
	api := newTestAPI(t, nil, lifecycle, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/contacts/requests/e1/accept", strings.NewReader(`{"folder_id":"f1","new_folder_name":"Clients"}`))
	req.SetPathValue("id", "e1")
	req = withActor(req, domain.Actor{UserID: "u1", Tier: domain.TierPremium})
	rr := httptest.NewRecorder()
	api.handleRequestAccept(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	if lifecycle.statusCalls != 0 {
		t.Fatalf("no backend call expected, got %d", lifecycle.statusCalls)
	}
}

func TestRejectRequiresConfirmation(t *testing.T) {
	lifecycle := &stubLifecycleClient{t: t}
	api := newTestAPI(t, nil, lifecycle, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/contacts/requests/e1/reject", strings.NewReader(`{"confirmed":false}`))
	req.SetPathValue("id", "e1")
	req = withActor(req, domain.Actor{UserID: "u1", Tier: domain.TierFree})
	rr := httptest.NewRecorder()
	api.handleRequestReject(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	if code := decodeErrorCode(t, rr); code != "confirmation_required" {
		t.Fatalf("unexpected code: %s", code)
	}
	if lifecycle.statusCalls != 0 {
		t.Fatalf("no backend call expected, got %d", lifecycle.statusCalls)
	}
}

func TestRemoveWithEmptyBodyIsUnconfirmed(t *testing.T) {
	lifecycle := &stubLifecycleClient{t: t}
	api := newTestAPI(t, nil, lifecycle, nil)

	req := httptest.NewRequest(http.MethodDelete, "/v1/contacts/c1", nil)
	req.SetPathValue("id", "c1")
	req = withActor(req, domain.Actor{UserID: "u1", Tier: domain.TierFree})
	rr := httptest.NewRecorder()
	api.handleContactRemove(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	if lifecycle.removeCalls != 0 {
		t.Fatalf("no backend call expected, got %d", lifecycle.removeCalls)
	}
}

func TestBackendMessageSurfacesVerbatim(t *testing.T) {
	lifecycle := &stubLifecycleClient{t: t, err: &domain.BackendError{Status: 422, Message: "request already handled"}}
	api := newTestAPI(t, nil, lifecycle, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/contacts/requests/e1/accept", strings.NewReader(`{"folder_id":"f1"}`))
	req.SetPathValue("id", "e1")
	req = withActor(req, domain.Actor{UserID: "u1", Tier: domain.TierFree})
	rr := httptest.NewRecorder()
	api.handleRequestAccept(rr, req)

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	var envelope errorEnvelope
	if err := json.NewDecoder(rr.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Error.Message != "request already handled" {
		t.Fatalf("unexpected message: %q", envelope.Error.Message)
	}
}
