package admin

import (
	"fmt"
	"net/http"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/aminejameli/dropservices-manager/internal/apisrv/resp"
	"github.com/aminejameli/dropservices-manager/internal/entity"
)

type orderRequest struct {
	*entity.OrderInsert
}

func (or *orderRequest) Bind(r *http.Request) error {
	if or.Status == "" {
		or.Status = entity.OrderStatusActive
	}
	if or.StartDate.IsZero() {
		return fmt.Errorf("startDate is required")
	}
	_, err := govalidator.ValidateStruct(or.OrderInsert)
	return err
}

type orderListResponse struct {
	Orders []entity.Order `json:"orders"`
}

func (olr *orderListResponse) Render(w http.ResponseWriter, r *http.Request) error { return nil }

func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.rep.Orders().ListOrders(r.Context())
	if err != nil {
		renderStoreErr(w, r, err)
		return
	}
	render.Render(w, r, &orderListResponse{Orders: orders})
}

func (s *Server) addOrder(w http.ResponseWriter, r *http.Request) {
	data := &orderRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, resp.ErrInvalidRequest(err))
		return
	}
	id, err := s.rep.Orders().AddOrder(r.Context(), data.OrderInsert)
	if err != nil {
		renderStoreErr(w, r, err)
		return
	}
	render.Render(w, r, &idResponse{ID: id})
}

func (s *Server) updateOrder(w http.ResponseWriter, r *http.Request) {
	data := &orderRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, resp.ErrInvalidRequest(err))
		return
	}
	if err := s.rep.Orders().UpdateOrder(r.Context(), chi.URLParam(r, "id"), data.OrderInsert); err != nil {
		renderStoreErr(w, r, err)
		return
	}
	render.NoContent(w, r)
}

func (s *Server) deleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := s.rep.Orders().DeleteOrderById(r.Context(), chi.URLParam(r, "id")); err != nil {
		renderStoreErr(w, r, err)
		return
	}
	render.NoContent(w, r)
}
