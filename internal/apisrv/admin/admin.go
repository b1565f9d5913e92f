// Package admin exposes the protected REST surface of the panel: CRUD over
// the four collections, the dashboard view and its live feed, and media
// upload.
package admin

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/aminejameli/dropservices-manager/internal/apisrv/resp"
	"github.com/aminejameli/dropservices-manager/internal/dependency"
	gerr "github.com/aminejameli/dropservices-manager/internal/errors"
	"github.com/aminejameli/dropservices-manager/internal/feed"
)

type Server struct {
	rep   dependency.Repository
	feed  *feed.Monitor
	files dependency.FileStore
}

func New(rep dependency.Repository, fm *feed.Monitor, files dependency.FileStore) *Server {
	return &Server{
		rep:   rep,
		feed:  fm,
		files: files,
	}
}

// Router mounts the admin endpoints; the caller wraps it with auth.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Route("/services", func(r chi.Router) {
		r.Get("/", s.listServices)
		r.Post("/", s.addService)
		r.Put("/{id}", s.updateService)
		r.Delete("/{id}", s.deleteService)
	})
	r.Route("/orders", func(r chi.Router) {
		r.Get("/", s.listOrders)
		r.Post("/", s.addOrder)
		r.Put("/{id}", s.updateOrder)
		r.Delete("/{id}", s.deleteOrder)
	})
	r.Route("/clients", func(r chi.Router) {
		r.Get("/", s.listClients)
		r.Post("/", s.addClient)
		r.Put("/{id}", s.updateClient)
		r.Delete("/{id}", s.deleteClient)
	})
	r.Route("/payment-methods", func(r chi.Router) {
		r.Get("/", s.listPaymentMethods)
		r.Post("/", s.addPaymentMethod)
		r.Put("/{id}", s.updatePaymentMethod)
		r.Delete("/{id}", s.deletePaymentMethod)
	})

	r.Get("/dashboard", s.getDashboard)
	r.Get("/dashboard/live", s.liveDashboard)
	r.Post("/media", s.uploadMedia)

	return r
}

type idResponse struct {
	ID string `json:"id"`
}

func (ir *idResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, http.StatusCreated)
	return nil
}

// renderStoreErr maps store errors onto the REST envelopes.
func renderStoreErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, gerr.ErrNotFound):
		render.Render(w, r, resp.ErrNotFound)
	case errors.Is(err, gerr.ErrInvalidReference), errors.Is(err, gerr.ErrEndDateRequired):
		render.Render(w, r, resp.ErrInvalidRequest(err))
	default:
		render.Render(w, r, resp.ErrInternalServerError(err))
	}
}
