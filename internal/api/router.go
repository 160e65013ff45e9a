package api

import (
	"net/http"

	"livemart-be/internal/metrics"
)

// PipelineHandlers groups one pipeline's buyer and seller surfaces.
type PipelineHandlers struct {
	Cart        *CartHandler
	Orders      *OrderHandler
	Fulfillment *FulfillmentHandler
}

type RouterDeps struct {
	Retail    PipelineHandlers
	Wholesale PipelineHandlers
	Inventory *InventoryHandler
	Profile   *ProfileHandler

	CheckoutMetrics *metrics.Checkout
}

// NewRouter mounts the retail surface at the root and its wholesale mirror
// under /wholesale. Both run the same handler code against different
// pipeline wiring.
func NewRouter(deps RouterDeps) *http.ServeMux {
	mux := http.NewServeMux()

	mountPipeline(mux, "", deps.Retail)
	mountPipeline(mux, "/wholesale", deps.Wholesale)

	mux.HandleFunc("GET /inventory", deps.Inventory.List)
	mux.HandleFunc("POST /inventory", deps.Inventory.Create)
	mux.HandleFunc("GET /inventory/{inventoryID}", deps.Inventory.Get)
	mux.HandleFunc("PATCH /inventory/{inventoryID}", deps.Inventory.Update)
	mux.HandleFunc("DELETE /inventory/{inventoryID}", deps.Inventory.Delete)

	mux.HandleFunc("GET /profile", deps.Profile.Get)
	mux.HandleFunc("PATCH /profile", deps.Profile.Update)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("GET /metrics", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"checkout": deps.CheckoutMetrics.Snapshot(),
		})
	})

	return mux
}

func mountPipeline(mux *http.ServeMux, prefix string, h PipelineHandlers) {
	mux.HandleFunc("GET "+prefix+"/cart", h.Cart.View)
	mux.HandleFunc("DELETE "+prefix+"/cart", h.Cart.Clear)
	mux.HandleFunc("POST "+prefix+"/cart/items", h.Cart.AddItem)
	mux.HandleFunc("PATCH "+prefix+"/cart/items/{inventoryID}", h.Cart.UpdateItem)
	mux.HandleFunc("DELETE "+prefix+"/cart/items/{inventoryID}", h.Cart.RemoveItem)
	mux.HandleFunc("POST "+prefix+"/cart/checkout", h.Cart.Checkout)

	mux.HandleFunc("GET "+prefix+"/orders", h.Orders.List)
	mux.HandleFunc("GET "+prefix+"/orders/{orderID}", h.Orders.Detail)
	mux.HandleFunc("POST "+prefix+"/orders/{orderID}/cancel", h.Orders.Cancel)
	mux.HandleFunc("PATCH "+prefix+"/orders/{orderID}", h.Orders.UpdateStatus)

	mux.HandleFunc("GET "+prefix+"/fulfillment/items", h.Fulfillment.Queue)
	mux.HandleFunc("PATCH "+prefix+"/fulfillment/items/{itemID}", h.Fulfillment.Transition)
}
