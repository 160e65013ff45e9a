package api

import (
	"net/http"
	"time"

	"livemart-be/internal/cart"
	"livemart-be/internal/inventory"
	"livemart-be/internal/pipeline"
	"livemart-be/internal/user"
	"livemart-be/internal/utils"

	"github.com/shopspring/decimal"
)

// InventoryHandler is shared by both seller kinds; the authenticated role
// decides which pool the rows land in.
type InventoryHandler struct {
	inventories inventory.Service
}

func NewInventoryHandler(inventories inventory.Service) *InventoryHandler {
	return &InventoryHandler{inventories: inventories}
}

// seller resolves the authenticated seller and their kind.
func seller(w http.ResponseWriter, r *http.Request) (uint, pipeline.SellerKind, bool) {
	id, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, cart.ErrUserNotAuthenticated)
		return 0, "", false
	}

	switch utils.GetUserRoleFromContext(r.Context()) {
	case user.RoleRetailer:
		return id, pipeline.KindRetailer, true
	case user.RoleWholesaler:
		return id, pipeline.KindWholesaler, true
	default:
		writeErrorBody(w, http.StatusForbidden, errorBody{
			Code: "FORBIDDEN", Message: "only sellers manage inventory",
		})
		return 0, "", false
	}
}

func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	sellerID, kind, ok := seller(w, r)
	if !ok {
		return
	}

	limit := 0
	page := 0
	if n, err := utils.ToUint(r.URL.Query().Get("limit")); err == nil {
		limit = int(n)
	}
	if n, err := utils.ToUint(r.URL.Query().Get("page")); err == nil {
		page = int(n)
	}

	records, err := h.inventories.ListBySeller(r.Context(), kind, sellerID, limit, page)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, records)
}

func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := seller(w, r); !ok {
		return
	}
	id, ok := pathID(w, r, "inventoryID")
	if !ok {
		return
	}

	rec, err := h.inventories.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

type createInventoryRequest struct {
	ProductID              uint            `json:"product_id"`
	Price                  decimal.Decimal `json:"price"`
	Stock                  int             `json:"stock"`
	AvailableViaWholesaler bool            `json:"available_via_wholesaler"`
	AvailabilityDate       *time.Time      `json:"availability_date"`
}

func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	sellerID, kind, ok := seller(w, r)
	if !ok {
		return
	}

	var req createInventoryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	rec, err := h.inventories.Create(r.Context(), inventory.CreateParams{
		ProductID:              req.ProductID,
		Kind:                   kind,
		SellerID:               sellerID,
		Price:                  req.Price,
		Stock:                  req.Stock,
		AvailableViaWholesaler: req.AvailableViaWholesaler,
		AvailabilityDate:       req.AvailabilityDate,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, rec)
}

type updateInventoryRequest struct {
	Price            *decimal.Decimal `json:"price"`
	Stock            *int             `json:"stock"`
	AvailabilityDate *time.Time       `json:"availability_date"`
}

func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	sellerID, kind, ok := seller(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "inventoryID")
	if !ok {
		return
	}

	var req updateInventoryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	rec, err := h.inventories.Update(r.Context(), id, inventory.UpdateParams{
		Kind:             kind,
		SellerID:         sellerID,
		Price:            req.Price,
		Stock:            req.Stock,
		AvailabilityDate: req.AvailabilityDate,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sellerID, kind, ok := seller(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "inventoryID")
	if !ok {
		return
	}

	if err := h.inventories.Delete(r.Context(), id, kind, sellerID); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
