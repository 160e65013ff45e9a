package api

import (
	"net/http"

	"livemart-be/internal/fulfillment"
	"livemart-be/internal/order"
	"livemart-be/internal/pipeline"
	"livemart-be/internal/utils"
)

// FulfillmentHandler is the seller-side surface: retailers on the retail
// pipeline, wholesalers on the wholesale one.
type FulfillmentHandler struct {
	fulfillments fulfillment.Service
	pipe         pipeline.Pipeline
}

func NewFulfillmentHandler(fulfillments fulfillment.Service, pipe pipeline.Pipeline) *FulfillmentHandler {
	return &FulfillmentHandler{fulfillments: fulfillments, pipe: pipe}
}

func (h *FulfillmentHandler) Queue(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := requireRole(w, r, h.pipe.SellerRole)
	if !ok {
		return
	}

	params := fulfillment.QueueParams{SellerID: sellerID}
	if s := r.URL.Query().Get("status"); s != "" {
		status := order.ItemStatus(s)
		params.Status = &status
	}
	if limit, err := utils.ToUint(r.URL.Query().Get("limit")); err == nil {
		params.Limit = int(limit)
	}
	if page, err := utils.ToUint(r.URL.Query().Get("page")); err == nil {
		params.Page = int(page)
	}

	items, err := h.fulfillments.Queue(r.Context(), params)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if items == nil {
		items = []*fulfillment.QueueItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

type itemStatusRequest struct {
	Status order.ItemStatus `json:"status"`
}

func (h *FulfillmentHandler) Transition(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := requireRole(w, r, h.pipe.SellerRole)
	if !ok {
		return
	}
	itemID, ok := pathID(w, r, "itemID")
	if !ok {
		return
	}

	var req itemStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}

	item, err := h.fulfillments.Transition(r.Context(), sellerID, itemID, req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, item)
}
