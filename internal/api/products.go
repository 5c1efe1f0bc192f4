package api

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/estoque/internal/imaging"
	"github.com/erazemk/estoque/internal/model"
	"github.com/erazemk/estoque/internal/store"
)

// ProductsHandler handles the product resource.
type ProductsHandler struct {
	DB *sql.DB
}

type createProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	AmountMin   int    `json:"amount_min"`
	AmountTotal int    `json:"amount_total"`
	CreatedBy   *int64 `json:"created_by"`
}

// List handles GET /product/.
func (h *ProductsHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := store.ListProducts(r.Context(), h.DB)
	if err != nil {
		internalError(w, r, "failed to list products", err)
		return
	}
	if products == nil {
		products = []model.Product{}
	}
	jsonResponse(w, http.StatusOK, map[string]any{"product": products})
}

// Create handles POST /product/. It answers 201 with an empty body and the
// new row's URL in Location.
func (h *ProductsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}
	if req.AmountMin < 0 || req.AmountTotal < 0 {
		jsonError(w, http.StatusBadRequest, "amounts must not be negative")
		return
	}

	claims := GetClaims(r.Context())
	createdBy := claims.UserID
	if req.CreatedBy != nil {
		createdBy = *req.CreatedBy
	}

	p, err := store.CreateProduct(r.Context(), h.DB, &model.Product{
		Name:        req.Name,
		Description: req.Description,
		AmountMin:   req.AmountMin,
		AmountTotal: req.AmountTotal,
		Creator:     model.Creator{CreatedBy: createdBy},
	})
	if errors.Is(err, store.ErrInvalidReference) {
		jsonError(w, http.StatusBadRequest, "created_by does not reference a user")
		return
	}
	if err != nil {
		internalError(w, r, "failed to create product", err)
		return
	}

	slog.Info("product created", "user", claims.Email, "product", p.ID, "name", p.Name)
	created(w, "product", p.ID)
}

// Get handles GET /product/{id}.
func (h *ProductsHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := h.load(w, r)
	if !ok {
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"product": p})
}

// Update handles PUT /product/{id}. Products are immutable through the API:
// the request body is ignored and the stored row is returned unchanged.
func (h *ProductsHandler) Update(w http.ResponseWriter, r *http.Request) {
	h.Get(w, r)
}

func (h *ProductsHandler) load(w http.ResponseWriter, r *http.Request) (*model.Product, bool) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid product id")
		return nil, false
	}

	p, err := store.GetProduct(r.Context(), h.DB, id)
	if err != nil {
		internalError(w, r, "failed to get product", err)
		return nil, false
	}
	if p == nil {
		jsonError(w, http.StatusNotFound, fmt.Sprintf("product %d doesn't exist", id))
		return nil, false
	}
	return p, true
}

// Delete handles DELETE /product/{id}.
func (h *ProductsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	err := store.DeleteProduct(r.Context(), h.DB, id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, http.StatusNotFound, fmt.Sprintf("product %d doesn't exist", id))
		return
	case errors.Is(err, store.ErrInUse):
		jsonError(w, http.StatusConflict, "product still has movements")
		return
	case err != nil:
		internalError(w, r, "failed to delete product", err)
		return
	}

	slog.Info("product deleted", "user", GetClaims(r.Context()).Email, "product", id)
	w.WriteHeader(http.StatusNoContent)
}

// Balance handles GET /product/{id}/balance.
func (h *ProductsHandler) Balance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	b, err := store.GetStockBalance(r.Context(), h.DB, id)
	if err != nil {
		internalError(w, r, "failed to compute balance", err)
		return
	}
	if b == nil {
		jsonError(w, http.StatusNotFound, fmt.Sprintf("product %d doesn't exist", id))
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"balance": b})
}

// UploadImage handles PUT /product/{id}/image (multipart field "image").
func (h *ProductsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(imaging.MaxUploadBytes); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid multipart form or file too large")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image field required")
		return
	}
	defer file.Close()

	photo, err := imaging.Process(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = store.SetProductImage(r.Context(), h.DB, id, photo.Data, photo.MIME)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, fmt.Sprintf("product %d doesn't exist", id))
		return
	}
	if err != nil {
		internalError(w, r, "failed to store image", err)
		return
	}

	slog.Info("product image uploaded", "user", GetClaims(r.Context()).Email, "product", id,
		"bytes", len(photo.Data), "width", photo.Width, "height", photo.Height)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "image uploaded"})
}

// GetImage handles GET /product/{id}/image.
func (h *ProductsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	data, mime, err := store.GetProductImage(r.Context(), h.DB, id)
	if err != nil {
		internalError(w, r, "failed to get image", err)
		return
	}
	if len(data) == 0 {
		jsonError(w, http.StatusNotFound, "no image")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Write(data)
}

// created writes the 201 response shared by every resource POST.
func created(w http.ResponseWriter, table string, id int64) {
	w.Header().Set("Location", fmt.Sprintf("/%s/%d", table, id))
	w.WriteHeader(http.StatusCreated)
}
