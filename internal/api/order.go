package api

import (
	"net/http"

	"livemart-be/internal/order"
	"livemart-be/internal/pipeline"
	"livemart-be/internal/utils"
)

type OrderHandler struct {
	orders order.Service
	pipe   pipeline.Pipeline
}

func NewOrderHandler(orders order.Service, pipe pipeline.Pipeline) *OrderHandler {
	return &OrderHandler{orders: orders, pipe: pipe}
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	buyerID, ok := requireRole(w, r, h.pipe.BuyerRole)
	if !ok {
		return
	}

	params := order.ListParams{BuyerID: buyerID}
	if s := r.URL.Query().Get("status"); s != "" {
		status := order.Status(s)
		params.Status = &status
	}
	if limit, err := utils.ToUint(r.URL.Query().Get("limit")); err == nil {
		params.Limit = int(limit)
	}
	if page, err := utils.ToUint(r.URL.Query().Get("page")); err == nil {
		params.Page = int(page)
	}

	orders, err := h.orders.List(r.Context(), params)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if orders == nil {
		orders = []*order.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) Detail(w http.ResponseWriter, r *http.Request) {
	buyerID, ok := requireRole(w, r, h.pipe.BuyerRole)
	if !ok {
		return
	}
	orderID, ok := pathID(w, r, "orderID")
	if !ok {
		return
	}

	o, err := h.orders.Detail(r.Context(), buyerID, orderID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, o)
}

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	buyerID, ok := requireRole(w, r, h.pipe.BuyerRole)
	if !ok {
		return
	}
	orderID, ok := pathID(w, r, "orderID")
	if !ok {
		return
	}

	o, err := h.orders.Cancel(r.Context(), buyerID, orderID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, o)
}

type orderStatusRequest struct {
	Status order.Status `json:"status"`
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	buyerID, ok := requireRole(w, r, h.pipe.BuyerRole)
	if !ok {
		return
	}
	orderID, ok := pathID(w, r, "orderID")
	if !ok {
		return
	}

	var req orderStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}

	o, err := h.orders.UpdateStatus(r.Context(), buyerID, orderID, req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, o)
}
