package web

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/estoque/internal/model"
	"github.com/erazemk/estoque/internal/store"
)

type tableCount struct {
	Table string
	Count int
}

// Dashboard handles GET /admin/.
func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	counts := make([]tableCount, 0, len(model.MovementKinds)+1)
	n, err := store.CountProducts(ctx, s.DB)
	if err != nil {
		slog.Error("failed to count products", "error", err)
	}
	counts = append(counts, tableCount{Table: "product", Count: n})
	for _, kind := range model.MovementKinds {
		n, err := store.CountMovements(ctx, s.DB, kind)
		if err != nil {
			slog.Error("failed to count movements", "kind", kind, "error", err)
		}
		counts = append(counts, tableCount{Table: string(kind), Count: n})
	}

	products, err := store.ListProducts(ctx, s.DB)
	if err != nil {
		slog.Error("failed to list products for dashboard", "error", err)
	}
	var low []model.Product
	for _, p := range products {
		if p.BelowMinimum() {
			low = append(low, p)
		}
	}

	s.Templates.Render(w, http.StatusOK, "dashboard.html", &struct {
		PageData
		Counts   []tableCount
		LowStock []model.Product
	}{
		PageData: s.page(r, "Dashboard"),
		Counts:   counts,
		LowStock: low,
	})
}
