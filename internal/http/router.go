package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterConfig struct {
	Products   *ProductHandler
	Cart       *CartHandler
	Checkout   *CheckoutHandler
	Reviews    *ReviewHandler
	Auth       *AuthHandler
	Account    *AccountHandler
	Newsletter *NewsletterHandler

	TokenVerifier  TokenVerifier
	RequestTimeout time.Duration
	SecureCookies  bool
}

// NewRouter wires the storefront's routing surface: catalog, cart, checkout,
// reviews, account, admin entry, auth, newsletter, help and a catch-all 404.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(SessionMiddleware(cfg.SecureCookies))
	r.Use(AuthMiddleware(cfg.TokenVerifier))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{
			"name": "NOVA Threads",
			"shop": "/api/v1/products",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", cfg.Products.ListProducts)
		r.Get("/products/new-arrivals", cfg.Products.NewArrivals)
		r.Get("/products/bestsellers", cfg.Products.Bestsellers)
		r.Get("/products/{id}", cfg.Products.GetProduct)
		r.Get("/collections", cfg.Products.Collections)

		r.Get("/products/{id}/reviews", cfg.Reviews.ListReviews)
		r.Post("/products/{id}/reviews", cfg.Reviews.SubmitReview)
		r.Post("/products/{id}/reviews/reconcile", cfg.Reviews.Reconcile)
		r.Delete("/products/{id}/reviews/{review_id}", cfg.Reviews.DeleteReview)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cfg.Cart.GetCart)
			r.Post("/items", cfg.Cart.AddItem)
			r.Put("/items/{product_id}", cfg.Cart.UpdateQuantity)
			r.Delete("/items/{product_id}", cfg.Cart.RemoveItem)
			r.Delete("/", cfg.Cart.ClearCart)
		})

		r.Post("/checkout", cfg.Checkout.Submit)
		r.Get("/orders", cfg.Checkout.ListOrders)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", cfg.Auth.SignUp)
			r.Post("/signin", cfg.Auth.SignIn)
			r.Post("/signout", cfg.Auth.SignOut)
		})

		r.Get("/account", cfg.Account.GetProfile)
		r.Put("/account", cfg.Account.UpdateProfile)

		r.Post("/admin/products", cfg.Products.CreateProduct)

		r.Post("/newsletter", cfg.Newsletter.Subscribe)

		r.Get("/help/customer-service", func(w http.ResponseWriter, r *http.Request) {
			respondJSON(w, http.StatusOK, map[string]string{
				"email": "support@novathreads.example",
				"hours": "Mon-Fri 9:00-17:00",
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "not_found", "page not found")
	})

	return r
}
