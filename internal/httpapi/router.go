package httpapi

import (
	"log/slog"
	"net/http"

	"cardlink/internal/notify"
	"cardlink/internal/service"
)

type RouterOpts struct {
	Logger *slog.Logger
	IsProd bool

	Contacts  *service.ContactsService
	Folders   *service.FoldersService
	Lifecycle *service.LifecycleService
	Badge     *notify.Watcher

	// DefaultToken is the access token used when a request carries no
	// Authorization header of its own.
	DefaultToken string
}

func NewRouter(opts RouterOpts) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	api := &api{
		logger:       logger,
		isProd:       opts.IsProd,
		contactsSvc:  opts.Contacts,
		foldersSvc:   opts.Folders,
		lifecycleSvc: opts.Lifecycle,
		badge:        opts.Badge,
		defaultToken: opts.DefaultToken,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", api.handleHealthz)

	mux.HandleFunc("GET /v1/contacts", api.requireActor(api.handleContactsList))
	mux.HandleFunc("GET /v1/contacts/pending", api.requireActor(api.handleContactsPending))
	mux.HandleFunc("GET /v1/contacts/search", api.requireActor(api.handleContactsSearch))
	mux.HandleFunc("GET /v1/contacts/snapshot", api.requireActor(api.handleContactsSnapshot))
	mux.HandleFunc("GET /v1/contacts/folder/{id}", api.requireActor(api.handleContactsByFolder))
	mux.HandleFunc("DELETE /v1/contacts/{id}", api.requireActor(api.handleContactRemove))
	mux.HandleFunc("POST /v1/contacts/requests/{id}/accept", api.requireActor(api.handleRequestAccept))
	mux.HandleFunc("POST /v1/contacts/requests/{id}/reject", api.requireActor(api.handleRequestReject))

	mux.HandleFunc("GET /v1/folders", api.requireActor(api.handleFoldersList))
	mux.HandleFunc("POST /v1/folders", api.requireActor(api.handleFolderCreate))
	mux.HandleFunc("PUT /v1/folders/{id}", api.requireActor(api.handleFolderRename))
	mux.HandleFunc("DELETE /v1/folders/{id}", api.requireActor(api.handleFolderDelete))

	if api.badge != nil {
		mux.HandleFunc("GET /v1/notifications/badge", api.requireActor(api.handleNotificationsBadge))
	}

	var h http.Handler = mux
	h = RequestLogger(logger)(h)
	h = RequestID()(h)
	h = Recoverer(logger, opts.IsProd)(h)
	return h
}

type api struct {
	logger *slog.Logger
	isProd bool

	contactsSvc  *service.ContactsService
	foldersSvc   *service.FoldersService
	lifecycleSvc *service.LifecycleService
	badge        *notify.Watcher

	defaultToken string
}

func (a *api) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
