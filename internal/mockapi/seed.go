package mockapi

import (
	"context"

	"youtools-catalog/internal/catalog"
)

// Seed ensures the reference data the storefront expects. Categories are
// fixed; they are (re)written on every start so the set stays canonical.
func (s *Server) Seed(ctx context.Context) error {
	categories := []catalog.Category{
		{ID: 1, Name: "Ferramentas Manuais", Slug: "ferramentas-manuais"},
		{ID: 2, Name: "Máquinas Elétricas", Slug: "maquinas-eletricas"},
		{ID: 3, Name: "Movimentação de Carga", Slug: "movimentacao-carga"},
		{ID: 4, Name: "Construção Civil", Slug: "construcao-civil"},
		{ID: 5, Name: "Jardim e Agricultura", Slug: "jardim-agricultura"},
	}
	return s.store.ReplaceCategories(ctx, categories)
}
