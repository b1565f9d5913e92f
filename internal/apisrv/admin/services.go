package admin

import (
	"net/http"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/aminejameli/dropservices-manager/internal/apisrv/resp"
	"github.com/aminejameli/dropservices-manager/internal/entity"
)

type serviceRequest struct {
	*entity.ServiceInsert
}

func (sr *serviceRequest) Bind(r *http.Request) error {
	if sr.Status == "" {
		sr.Status = entity.ServiceStatusActive
	}
	_, err := govalidator.ValidateStruct(sr.ServiceInsert)
	return err
}

type serviceListResponse struct {
	Services []entity.Service `json:"services"`
}

func (slr *serviceListResponse) Render(w http.ResponseWriter, r *http.Request) error { return nil }

func (s *Server) listServices(w http.ResponseWriter, r *http.Request) {
	services, err := s.rep.Services().ListServices(r.Context())
	if err != nil {
		renderStoreErr(w, r, err)
		return
	}
	render.Render(w, r, &serviceListResponse{Services: services})
}

func (s *Server) addService(w http.ResponseWriter, r *http.Request) {
	data := &serviceRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, resp.ErrInvalidRequest(err))
		return
	}
	id, err := s.rep.Services().AddService(r.Context(), data.ServiceInsert)
	if err != nil {
		renderStoreErr(w, r, err)
		return
	}
	render.Render(w, r, &idResponse{ID: id})
}

func (s *Server) updateService(w http.ResponseWriter, r *http.Request) {
	data := &serviceRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, resp.ErrInvalidRequest(err))
		return
	}
	if err := s.rep.Services().UpdateService(r.Context(), chi.URLParam(r, "id"), data.ServiceInsert); err != nil {
		renderStoreErr(w, r, err)
		return
	}
	render.NoContent(w, r)
}

func (s *Server) deleteService(w http.ResponseWriter, r *http.Request) {
	if err := s.rep.Services().DeleteServiceById(r.Context(), chi.URLParam(r, "id")); err != nil {
		renderStoreErr(w, r, err)
		return
	}
	render.NoContent(w, r)
}
