package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"youtools-catalog/internal/auth"
	"youtools-catalog/internal/catalog"
	"youtools-catalog/internal/clock"
	"youtools-catalog/internal/logger"
	"youtools-catalog/internal/service"
)

// Handler exposes the data-access layer to the storefront and admin UI. It
// renders the service envelope verbatim; read endpoints always answer 200 so
// the storefront renders an empty state instead of an error page.
type Handler struct {
	products   *service.Products
	brands     *service.Brands
	posters    *service.Posters
	categories *service.Categories
	clk        clock.Clock
}

// NewHandler creates the API handler over the entity services.
func NewHandler(p *service.Products, b *service.Brands, po *service.Posters, c *service.Categories, clk clock.Clock) *Handler {
	return &Handler{products: p, brands: b, posters: po, categories: c, clk: clk}
}

// Register mounts every route under /api.
func (h *Handler) Register(r *mux.Router) {
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/login", h.login).Methods(http.MethodPost)

	// Public read endpoints (no authentication required)
	api.HandleFunc("/products/special-offers", h.listSpecialOffers).Methods(http.MethodGet)
	api.HandleFunc("/products", h.listProducts).Methods(http.MethodGet)
	api.HandleFunc("/products/{id}", h.getProduct).Methods(http.MethodGet)
	api.HandleFunc("/categories", h.listCategories).Methods(http.MethodGet)
	api.HandleFunc("/brands", h.listBrands).Methods(http.MethodGet)
	api.HandleFunc("/posters", h.listPosters).Methods(http.MethodGet)

	// Protected admin endpoints (require JWT with admin role)
	api.HandleFunc("/products", RequireAdmin(h.createProduct)).Methods(http.MethodPost)
	api.HandleFunc("/products/{id}", RequireAdmin(h.updateProduct)).Methods(http.MethodPut)
	api.HandleFunc("/products/{id}", RequireAdmin(h.deleteProduct)).Methods(http.MethodDelete)

	api.HandleFunc("/brands/reorder", RequireAdmin(h.reorderBrands)).Methods(http.MethodPut)
	api.HandleFunc("/brands", RequireAdmin(h.createBrand)).Methods(http.MethodPost)
	api.HandleFunc("/brands/{id}", RequireAdmin(h.updateBrand)).Methods(http.MethodPut)
	api.HandleFunc("/brands/{id}", RequireAdmin(h.deleteBrand)).Methods(http.MethodDelete)

	api.HandleFunc("/posters/reorder", RequireAdmin(h.reorderPosters)).Methods(http.MethodPut)
	api.HandleFunc("/posters", RequireAdmin(h.createPoster)).Methods(http.MethodPost)
	api.HandleFunc("/posters/{id}", RequireAdmin(h.updatePoster)).Methods(http.MethodPut)
	api.HandleFunc("/posters/{id}", RequireAdmin(h.deletePoster)).Methods(http.MethodDelete)
}

func writeResult(w http.ResponseWriter, status int, r catalog.Result) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(r); err != nil {
		logger.Errorf("api: encode response: %v", err)
	}
}

// mutationStatus maps the envelope onto an HTTP status for write endpoints.
func mutationStatus(r catalog.Result, created int) int {
	if !r.Success {
		return http.StatusInternalServerError
	}
	return created
}

// products

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	writeResult(w, http.StatusOK, h.products.List(r.Context()))
}

func (h *Handler) listSpecialOffers(w http.ResponseWriter, r *http.Request) {
	writeResult(w, http.StatusOK, h.products.SpecialOffers(r.Context()))
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	res := h.products.Get(r.Context(), mux.Vars(r)["id"])
	status := http.StatusOK
	if !res.Success {
		status = http.StatusNotFound
	}
	writeResult(w, status, res)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var p catalog.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeResult(w, http.StatusBadRequest, catalog.Fail("invalid request body"))
		return
	}
	res := h.products.Create(r.Context(), p)
	writeResult(w, mutationStatus(res, http.StatusCreated), res)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var p catalog.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeResult(w, http.StatusBadRequest, catalog.Fail("invalid request body"))
		return
	}
	res := h.products.Update(r.Context(), mux.Vars(r)["id"], p)
	writeResult(w, mutationStatus(res, http.StatusOK), res)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	res := h.products.Delete(r.Context(), mux.Vars(r)["id"])
	writeResult(w, mutationStatus(res, http.StatusOK), res)
}

// categories

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	writeResult(w, http.StatusOK, h.categories.List(r.Context()))
}

// brands

func (h *Handler) listBrands(w http.ResponseWriter, r *http.Request) {
	writeResult(w, http.StatusOK, h.brands.List(r.Context()))
}

func (h *Handler) createBrand(w http.ResponseWriter, r *http.Request) {
	var b catalog.Brand
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		writeResult(w, http.StatusBadRequest, catalog.Fail("invalid request body"))
		return
	}
	res := h.brands.Create(r.Context(), b)
	writeResult(w, mutationStatus(res, http.StatusCreated), res)
}

func (h *Handler) updateBrand(w http.ResponseWriter, r *http.Request) {
	var b catalog.Brand
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		writeResult(w, http.StatusBadRequest, catalog.Fail("invalid request body"))
		return
	}
	res := h.brands.Update(r.Context(), mux.Vars(r)["id"], b)
	writeResult(w, mutationStatus(res, http.StatusOK), res)
}

func (h *Handler) deleteBrand(w http.ResponseWriter, r *http.Request) {
	res := h.brands.Delete(r.Context(), mux.Vars(r)["id"])
	writeResult(w, mutationStatus(res, http.StatusOK), res)
}

func (h *Handler) reorderBrands(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeResult(w, http.StatusBadRequest, catalog.Fail("invalid request body"))
		return
	}
	res := h.brands.Reorder(r.Context(), req.IDs)
	writeResult(w, mutationStatus(res, http.StatusOK), res)
}

// posters

func (h *Handler) listPosters(w http.ResponseWriter, r *http.Request) {
	writeResult(w, http.StatusOK, h.posters.List(r.Context()))
}

func (h *Handler) createPoster(w http.ResponseWriter, r *http.Request) {
	var p catalog.Poster
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeResult(w, http.StatusBadRequest, catalog.Fail("invalid request body"))
		return
	}
	res := h.posters.Create(r.Context(), p)
	writeResult(w, mutationStatus(res, http.StatusCreated), res)
}

func (h *Handler) updatePoster(w http.ResponseWriter, r *http.Request) {
	var p catalog.Poster
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeResult(w, http.StatusBadRequest, catalog.Fail("invalid request body"))
		return
	}
	res := h.posters.Update(r.Context(), mux.Vars(r)["id"], p)
	writeResult(w, mutationStatus(res, http.StatusOK), res)
}

func (h *Handler) deletePoster(w http.ResponseWriter, r *http.Request) {
	res := h.posters.Delete(r.Context(), mux.Vars(r)["id"])
	writeResult(w, mutationStatus(res, http.StatusOK), res)
}

func (h *Handler) reorderPosters(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeResult(w, http.StatusBadRequest, catalog.Fail("invalid request body"))
		return
	}
	res := h.posters.Reorder(r.Context(), req.IDs)
	writeResult(w, mutationStatus(res, http.StatusOK), res)
}

// auth

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeResult(w, http.StatusBadRequest, catalog.Fail("invalid request body"))
		return
	}

	user := auth.Authenticate(req.Username, req.Password)
	if user == nil {
		writeResult(w, http.StatusUnauthorized, catalog.Fail("Invalid credentials"))
		return
	}

	token, err := auth.IssueToken(user.Username, []string{"admin"}, h.clk.Now())
	if err != nil {
		logger.Errorf("login: issue token: %v", err)
		writeResult(w, http.StatusInternalServerError, catalog.Fail("could not create session"))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeResult(w, http.StatusOK, catalog.OK(map[string]any{"user": user, "token": token}))
}

// RequireAdmin is middleware that requires a valid JWT token with admin role
func RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenStr := auth.GetBearerToken(r)
		if tokenStr == "" {
			logger.Debugf("RequireAdmin: no bearer token provided")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		claims, err := auth.ParseToken(tokenStr)
		if err != nil {
			logger.Debugf("RequireAdmin: JWT parse error: %v", err)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if !auth.HasRole(claims.Roles, "admin") {
			logger.Debugf("RequireAdmin: user lacks admin role")
			http.Error(w, "forbidden - admin role required", http.StatusForbidden)
			return
		}

		next(w, r)
	}
}
