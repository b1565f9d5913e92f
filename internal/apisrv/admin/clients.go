package admin

import (
	"net/http"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/aminejameli/dropservices-manager/internal/apisrv/resp"
	"github.com/aminejameli/dropservices-manager/internal/entity"
)

type clientRequest struct {
	*entity.ClientInsert
}

func (cr *clientRequest) Bind(r *http.Request) error {
	_, err := govalidator.ValidateStruct(cr.ClientInsert)
	return err
}

type clientListResponse struct {
	Clients []entity.Client `json:"clients"`
}

func (clr *clientListResponse) Render(w http.ResponseWriter, r *http.Request) error { return nil }

func (s *Server) listClients(w http.ResponseWriter, r *http.Request) {
	clients, err := s.rep.Clients().ListClients(r.Context())
	if err != nil {
		renderStoreErr(w, r, err)
		return
	}
	render.Render(w, r, &clientListResponse{Clients: clients})
}

func (s *Server) addClient(w http.ResponseWriter, r *http.Request) {
	data := &clientRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, resp.ErrInvalidRequest(err))
		return
	}
	id, err := s.rep.Clients().AddClient(r.Context(), data.ClientInsert)
	if err != nil {
		renderStoreErr(w, r, err)
		return
	}
	render.Render(w, r, &idResponse{ID: id})
}

func (s *Server) updateClient(w http.ResponseWriter, r *http.Request) {
	data := &clientRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, resp.ErrInvalidRequest(err))
		return
	}
	if err := s.rep.Clients().UpdateClient(r.Context(), chi.URLParam(r, "id"), data.ClientInsert); err != nil {
		renderStoreErr(w, r, err)
		return
	}
	render.NoContent(w, r)
}

func (s *Server) deleteClient(w http.ResponseWriter, r *http.Request) {
	if err := s.rep.Clients().DeleteClientById(r.Context(), chi.URLParam(r, "id")); err != nil {
		renderStoreErr(w, r, err)
		return
	}
	render.NoContent(w, r)
}
