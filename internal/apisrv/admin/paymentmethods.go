package admin

import (
	"net/http"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/aminejameli/dropservices-manager/internal/apisrv/resp"
	"github.com/aminejameli/dropservices-manager/internal/entity"
)

type paymentMethodRequest struct {
	*entity.PaymentMethodInsert
}

func (pr *paymentMethodRequest) Bind(r *http.Request) error {
	_, err := govalidator.ValidateStruct(pr.PaymentMethodInsert)
	return err
}

type paymentMethodListResponse struct {
	PaymentMethods []entity.PaymentMethod `json:"paymentMethods"`
}

func (plr *paymentMethodListResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func (s *Server) listPaymentMethods(w http.ResponseWriter, r *http.Request) {
	pms, err := s.rep.PaymentMethods().ListPaymentMethods(r.Context())
	if err != nil {
		renderStoreErr(w, r, err)
		return
	}
	render.Render(w, r, &paymentMethodListResponse{PaymentMethods: pms})
}

func (s *Server) addPaymentMethod(w http.ResponseWriter, r *http.Request) {
	data := &paymentMethodRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, resp.ErrInvalidRequest(err))
		return
	}
	id, err := s.rep.PaymentMethods().AddPaymentMethod(r.Context(), data.PaymentMethodInsert)
	if err != nil {
		renderStoreErr(w, r, err)
		return
	}
	render.Render(w, r, &idResponse{ID: id})
}

func (s *Server) updatePaymentMethod(w http.ResponseWriter, r *http.Request) {
	data := &paymentMethodRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, resp.ErrInvalidRequest(err))
		return
	}
	if err := s.rep.PaymentMethods().UpdatePaymentMethod(r.Context(), chi.URLParam(r, "id"), data.PaymentMethodInsert); err != nil {
		renderStoreErr(w, r, err)
		return
	}
	render.NoContent(w, r)
}

func (s *Server) deletePaymentMethod(w http.ResponseWriter, r *http.Request) {
	if err := s.rep.PaymentMethods().DeletePaymentMethodById(r.Context(), chi.URLParam(r, "id")); err != nil {
		renderStoreErr(w, r, err)
		return
	}
	render.NoContent(w, r)
}
