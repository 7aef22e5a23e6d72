package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cardlink/internal/domain"
)

func TestFolderCreateFreeTierIs403WithFixedMessage(t *testing.T) {
	folders := &stubFoldersClient{t: t}
	api := newTestAPI(t, nil, nil, folders)

	req := httptest.NewRequest(http.MethodPost, "/v1/folders", strings.NewReader(`{"name":"Clients"}`))
	req = withActor(req, domain.Actor{UserID: "u1", Tier: domain.TierFree})
	rr := httptest.NewRecorder()
	api.handleFolderCreate(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	var envelope errorEnvelope
	if err := json.NewDecoder(rr.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Error.Code != "membership_required" {
		t.Fatalf("unexpected code: %s", envelope.Error.Code)
	}
	if envelope.Error.Message != domain.MembershipRequiredMessage {
		t.Fatalf("unexpected message: %q", envelope.Error.Message)
	}
	if folders.created != nil {
		t.Fatal("free tier must not reach the backend")
	}
}

func TestFolderCreatePremium(t *testing.T) {
	folders := &stubFoldersClient{t: t}
	api := newTestAPI(t, nil, nil, folders)

	req := httptest.NewRequest(http.MethodPost, "/v1/folders", strings.NewReader(`{"name":"Clients"}`))
	req = withActor(req, domain.Actor{UserID: "u1", Tier: domain.TierPremium})
	rr := httptest.NewRecorder()
	api.handleFolderCreate(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("unexpected status: %d (%s)", rr.Code, rr.Body.String())
	}
	var folder domain.Folder
	if err := json.NewDecoder(rr.Body).Decode(&folder); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if folder.ID != "f-new" || folder.Name != "Clients" {
		t.Fatalf("unexpected folder: %+v", folder)
	}
}

func TestFoldersListIncludesReserved(t *testing.T) {
	folders := &stubFoldersClient{t: t, folders: []domain.Folder{{ID: "f1", Name: "Clients"}}}
	api := newTestAPI(t, nil, nil, folders)

	req := withActor(httptest.NewRequest(http.MethodGet, "/v1/folders", nil), domain.Actor{UserID: "u1", Tier: domain.TierFree})
	rr := httptest.NewRecorder()
	api.handleFoldersList(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	var got []domain.Folder
	if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("expected reserved + remote folders, got %+v", got)
	}
}

func TestFolderDeleteReservedIsRejected(t *testing.T) {
	api := newTestAPI(t, nil, nil, &stubFoldersClient{t: t})

	req := httptest.NewRequest(http.MethodDelete, "/v1/folders/all", nil)
	req.SetPathValue("id", "all")
	req = withActor(req, domain.Actor{UserID: "u1", Tier: domain.TierPremium})
	rr := httptest.NewRecorder()
	api.handleFolderDelete(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	if code := decodeErrorCode(t, rr); code != "reserved_folder" {
		t.Fatalf("unexpected code: %s", code)
	}
}
