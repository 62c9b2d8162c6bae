package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	appadmin "github.com/amelia-salon/storefront/internal/application/admin"
	"github.com/amelia-salon/storefront/internal/infrastructure/observability/prometrics"
)

// RouterDeps bundles everything the HTTP surface needs.
type RouterDeps struct {
	Logger   *zap.Logger
	Metrics  *prometrics.Metrics
	Registry *prometheus.Registry

	Catalog  *CatalogHandler
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Admin    *AdminHandler

	AdminService *appadmin.Service
}

// NewRouter assembles the public storefront API and the token-gated
// admin API on a single chi router.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(ObservabilityMiddleware(deps.Logger, deps.Metrics))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", deps.Catalog.List)
		r.Get("/products/{productID}", deps.Catalog.Get)

		r.Group(func(r chi.Router) {
			r.Use(CartSessionMiddleware)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", deps.Cart.Get)
				r.Post("/items", deps.Cart.AddItem)
				r.Put("/items/{productID}", deps.Cart.SetQuantity)
				r.Delete("/items/{productID}", deps.Cart.RemoveItem)
				r.Delete("/", deps.Cart.Clear)
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Post("/shipping", deps.Checkout.SubmitShipping)
				r.Post("/payment-intent", deps.Checkout.CreatePaymentIntent)
				r.Post("/complete", deps.Checkout.Complete)
				r.Get("/status", deps.Checkout.Status)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", deps.Admin.Login)

			r.Group(func(r chi.Router) {
				r.Use(AdminAuthMiddleware(deps.AdminService))

				r.Post("/products", deps.Admin.CreateProduct)
				r.Put("/products/{productID}", deps.Admin.UpdateProduct)
				r.Delete("/products/{productID}", deps.Admin.DeleteProduct)
				r.Put("/stock", deps.Admin.SetStock)
				r.Post("/images", deps.Admin.UploadImage)
			})
		})
	})

	return r
}
