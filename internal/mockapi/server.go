// Package mockapi is the in-process stand-in for a real backend: a fake REST
// server exposing the /api surface over the local snapshot store. It is
// reached through an http.RoundTripper, so requests never touch a socket and
// the mock works on a static deployment with no backend at all.
package mockapi

import (
	"net/http"
	"net/http/httptest"

	"github.com/gorilla/mux"

	"youtools-catalog/internal/localstore"
)

// BaseURL is the namespace the data-access layer addresses; the host part is
// never resolved.
const BaseURL = "http://youtools.mock/api"

// Server simulates the hosted REST endpoints and seeds initial data.
type Server struct {
	store  *localstore.Store
	router *mux.Router
}

// New builds the mock server over the given snapshot store.
func New(store *localstore.Store) *Server {
	s := &Server{store: store}

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	// special-offers must be registered before the {id} route
	api.HandleFunc("/products/special-offers", s.listSpecialOffers).Methods(http.MethodGet)
	api.HandleFunc("/products", s.listProducts).Methods(http.MethodGet)
	api.HandleFunc("/products/{id}", s.getProduct).Methods(http.MethodGet)
	api.HandleFunc("/products", s.createProduct).Methods(http.MethodPost)
	api.HandleFunc("/products/{id}", s.updateProduct).Methods(http.MethodPut)
	api.HandleFunc("/products/{id}", s.deleteProduct).Methods(http.MethodDelete)

	api.HandleFunc("/categories", s.listCategories).Methods(http.MethodGet)

	api.HandleFunc("/brands", s.listBrands).Methods(http.MethodGet)
	api.HandleFunc("/brands", s.createBrand).Methods(http.MethodPost)
	api.HandleFunc("/brands/{id}", s.updateBrand).Methods(http.MethodPut)
	api.HandleFunc("/brands/{id}", s.deleteBrand).Methods(http.MethodDelete)

	api.HandleFunc("/posters", s.listPosters).Methods(http.MethodGet)
	api.HandleFunc("/posters", s.createPoster).Methods(http.MethodPost)
	api.HandleFunc("/posters/{id}", s.updatePoster).Methods(http.MethodPut)
	api.HandleFunc("/posters/{id}", s.deletePoster).Methods(http.MethodDelete)

	s.router = r
	return s
}

// Handler exposes the mock routes, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Client returns an HTTP client whose transport serves requests from this
// mock server in process.
func (s *Server) Client() *http.Client {
	return &http.Client{Transport: &transport{handler: s.router}}
}

type transport struct {
	handler http.Handler
}

func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	rec := httptest.NewRecorder()
	t.handler.ServeHTTP(rec, req)
	return rec.Result(), nil
}
