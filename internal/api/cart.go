package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"livemart-be/internal/cart"
	"livemart-be/internal/checkout"
	"livemart-be/internal/inventory"
	"livemart-be/internal/pipeline"
)

// CartHandler serves one pipeline's cart surface. The same handler backs
// /cart and /wholesale/cart with different service wiring.
type CartHandler struct {
	carts     cart.Service
	checkouts checkout.Service
	pipe      pipeline.Pipeline
}

func NewCartHandler(carts cart.Service, checkouts checkout.Service, pipe pipeline.Pipeline) *CartHandler {
	return &CartHandler{carts: carts, checkouts: checkouts, pipe: pipe}
}

func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	buyerID, ok := requireRole(w, r, h.pipe.BuyerRole)
	if !ok {
		return
	}

	c, err := h.carts.View(r.Context(), buyerID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

type addLineRequest struct {
	InventoryID uint `json:"inventory_id"`
	Quantity    int  `json:"quantity"`
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	buyerID, ok := requireRole(w, r, h.pipe.BuyerRole)
	if !ok {
		return
	}

	var req addLineRequest
	if !decodeBody(w, r, &req) {
		return
	}

	line, err := h.carts.AddOrMerge(r.Context(), cart.AddParams{
		BuyerID:     buyerID,
		InventoryID: req.InventoryID,
		Quantity:    req.Quantity,
	})

	// Soft stock warning: the line was persisted anyway, so the response
	// carries both the warning and the line.
	var insufficient *inventory.InsufficientStockError
	if errors.As(err, &insufficient) && line != nil {
		available := insufficient.Available
		writeErrorBody(w, http.StatusBadRequest, errorBody{
			Code:      "INSUFFICIENT_STOCK",
			Message:   insufficient.Error(),
			Item:      insufficient.Item,
			Available: &available,
			Line:      line,
		})
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, line)
}

type updateLineRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	buyerID, ok := requireRole(w, r, h.pipe.BuyerRole)
	if !ok {
		return
	}
	inventoryID, ok := pathID(w, r, "inventoryID")
	if !ok {
		return
	}

	var req updateLineRequest
	if !decodeBody(w, r, &req) {
		return
	}

	line, err := h.carts.UpdateQuantity(r.Context(), cart.UpdateParams{
		BuyerID:     buyerID,
		InventoryID: inventoryID,
		Quantity:    req.Quantity,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	if line == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, line)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	buyerID, ok := requireRole(w, r, h.pipe.BuyerRole)
	if !ok {
		return
	}
	inventoryID, ok := pathID(w, r, "inventoryID")
	if !ok {
		return
	}

	err := h.carts.RemoveLine(r.Context(), cart.RemoveParams{
		BuyerID:     buyerID,
		InventoryID: inventoryID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	buyerID, ok := requireRole(w, r, h.pipe.BuyerRole)
	if !ok {
		return
	}

	if err := h.carts.Clear(r.Context(), buyerID); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type checkoutRequest struct {
	Address               string     `json:"address"`
	ShippingAddress       string     `json:"shipping_address"`
	DeliveryAddress       string     `json:"delivery_address"`
	OfflinePayment        bool       `json:"is_offline_payment"`
	ScheduledDeliveryDate *time.Time `json:"scheduled_delivery_date"`
}

func (req checkoutRequest) address() string {
	for _, a := range []string{req.Address, req.ShippingAddress, req.DeliveryAddress} {
		if strings.TrimSpace(a) != "" {
			return a
		}
	}
	return ""
}

func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	buyerID, ok := requireRole(w, r, h.pipe.BuyerRole)
	if !ok {
		return
	}

	var req checkoutRequest
	if !decodeBody(w, r, &req) {
		return
	}

	o, err := h.checkouts.Checkout(r.Context(), buyerID, checkout.Input{
		Address:               req.address(),
		OfflinePayment:        req.OfflinePayment,
		ScheduledDeliveryDate: req.ScheduledDeliveryDate,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, o)
}
