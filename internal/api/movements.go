package api

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/erazemk/estoque/internal/model"
	"github.com/erazemk/estoque/internal/store"
)

// MovementsHandler handles one of the shopping, score and output resources.
type MovementsHandler struct {
	DB   *sql.DB
	Kind model.MovementKind
}

type createMovementRequest struct {
	Amount    *int   `json:"amount"`
	Product   int64  `json:"product"`
	CreatedBy *int64 `json:"created_by"`
}

// List handles GET /{kind}/.
func (h *MovementsHandler) List(w http.ResponseWriter, r *http.Request) {
	movements, err := store.ListMovements(r.Context(), h.DB, h.Kind)
	if err != nil {
		internalError(w, r, fmt.Sprintf("failed to list %s", h.Kind), err)
		return
	}
	if movements == nil {
		movements = []model.Movement{}
	}
	jsonResponse(w, http.StatusOK, map[string]any{string(h.Kind): movements})
}

// Create handles POST /{kind}/.
func (h *MovementsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createMovementRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Amount == nil || req.Product == 0 {
		jsonError(w, http.StatusBadRequest, "amount and product required")
		return
	}
	if *req.Amount < h.Kind.MinAmount() {
		jsonError(w, http.StatusBadRequest, fmt.Sprintf("amount must be at least %d", h.Kind.MinAmount()))
		return
	}

	claims := GetClaims(r.Context())
	createdBy := claims.UserID
	if req.CreatedBy != nil {
		createdBy = *req.CreatedBy
	}

	m, err := store.CreateMovement(r.Context(), h.DB, h.Kind, *req.Amount, req.Product, createdBy)
	if errors.Is(err, store.ErrInvalidReference) {
		jsonError(w, http.StatusBadRequest, "product or created_by does not exist")
		return
	}
	if err != nil {
		internalError(w, r, fmt.Sprintf("failed to create %s", h.Kind), err)
		return
	}

	slog.Info("movement recorded", "user", claims.Email, "kind", h.Kind, "id", m.ID,
		"product", m.Product, "amount", m.Amount)
	created(w, string(h.Kind), m.ID)
}

// Get handles GET /{kind}/{id}.
func (h *MovementsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid id")
		return
	}

	m, err := store.GetMovement(r.Context(), h.DB, h.Kind, id)
	if err != nil {
		internalError(w, r, fmt.Sprintf("failed to get %s", h.Kind), err)
		return
	}
	if m == nil {
		jsonError(w, http.StatusNotFound, fmt.Sprintf("%s %d doesn't exist", h.Kind, id))
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{string(h.Kind): m})
}

// Update handles PUT /{kind}/{id}. Like products, movements are not
// modified: the stored row is returned unchanged.
func (h *MovementsHandler) Update(w http.ResponseWriter, r *http.Request) {
	h.Get(w, r)
}

// Delete handles DELETE /{kind}/{id}.
func (h *MovementsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid id")
		return
	}

	err := store.DeleteMovement(r.Context(), h.DB, h.Kind, id)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, fmt.Sprintf("%s %d doesn't exist", h.Kind, id))
		return
	}
	if err != nil {
		internalError(w, r, fmt.Sprintf("failed to delete %s", h.Kind), err)
		return
	}

	slog.Info("movement deleted", "user", GetClaims(r.Context()).Email, "kind", h.Kind, "id", id)
	w.WriteHeader(http.StatusNoContent)
}
