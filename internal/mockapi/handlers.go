package mockapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"youtools-catalog/internal/catalog"
	"youtools-catalog/internal/localstore"
	"youtools-catalog/internal/logger"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Errorf("mockapi: encode response: %v", err)
	}
}

func storeError(w http.ResponseWriter, err error) {
	if errors.Is(err, localstore.ErrNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	http.Error(w, "internal error", http.StatusInternalServerError)
}

// products

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.ListProducts(r.Context())
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": items})
}

func (s *Server) listSpecialOffers(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.ListProducts(r.Context())
	if err != nil {
		storeError(w, err)
		return
	}
	offers := []catalog.Product{}
	for _, p := range items {
		if p.IsSpecialOffer {
			offers = append(offers, p)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": offers})
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.GetProduct(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"product": p})
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	var p catalog.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := s.store.PutProduct(r.Context(), p); err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"product": p})
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	existing, err := s.store.GetProduct(r.Context(), id)
	if err != nil {
		storeError(w, err)
		return
	}

	var p catalog.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	p.ID = id
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now().UTC()
	if err := s.store.PutProduct(r.Context(), p); err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"product": p})
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteProduct(r.Context(), mux.Vars(r)["id"]); err != nil {
		storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// categories

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.ListCategories(r.Context())
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": items})
}

// brands

func (s *Server) listBrands(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.ListBrands(r.Context())
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"brands": items})
}

func (s *Server) createBrand(w http.ResponseWriter, r *http.Request) {
	var b catalog.Brand
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if err := s.store.PutBrand(r.Context(), b); err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"brand": b})
}

func (s *Server) updateBrand(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := s.store.GetBrand(r.Context(), id); err != nil {
		storeError(w, err)
		return
	}

	var b catalog.Brand
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	b.ID = id
	if err := s.store.PutBrand(r.Context(), b); err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"brand": b})
}

func (s *Server) deleteBrand(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteBrand(r.Context(), mux.Vars(r)["id"]); err != nil {
		storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// posters

func (s *Server) listPosters(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.ListPosters(r.Context())
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"posters": items})
}

func (s *Server) createPoster(w http.ResponseWriter, r *http.Request) {
	var p catalog.Poster
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if err := s.store.PutPoster(r.Context(), p); err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"poster": p})
}

func (s *Server) updatePoster(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := s.store.GetPoster(r.Context(), id); err != nil {
		storeError(w, err)
		return
	}

	var p catalog.Poster
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	p.ID = id
	if err := s.store.PutPoster(r.Context(), p); err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"poster": p})
}

func (s *Server) deletePoster(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeletePoster(r.Context(), mux.Vars(r)["id"]); err != nil {
		storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
