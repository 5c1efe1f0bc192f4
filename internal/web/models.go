package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/erazemk/estoque/internal/model"
	"github.com/erazemk/estoque/internal/store"
)

// formField describes one input of a create form.
type formField struct {
	Name     string
	Label    string
	Type     string
	Required bool
	Min      int
	Options  []formOption
}

type formOption struct {
	Value string
	Label string
}

type modelPage struct {
	PageData
	Table     string
	Columns   []string
	Rows      []modelRow
	Fields    []formField
	CanDelete bool
}

type modelRow struct {
	ID    int64
	Cells []string
}

func tableNames() []string {
	names := []string{"product"}
	for _, kind := range model.MovementKinds {
		names = append(names, string(kind))
	}
	return names
}

func validTable(table string) bool {
	return table == "product" || model.MovementKind(table).Valid()
}

// ModelList handles GET /admin/{table}.
func (s *Server) ModelList(w http.ResponseWriter, r *http.Request) {
	table := r.PathValue("table")
	if !validTable(table) {
		http.NotFound(w, r)
		return
	}

	page := modelPage{
		PageData:  s.page(r, strings.ToUpper(table[:1])+table[1:]),
		Table:     table,
		CanDelete: model.RoleAtLeast(GetWebClaims(r.Context()).Role, model.RoleManager),
	}

	var err error
	if table == "product" {
		err = s.fillProducts(r, &page)
	} else {
		err = s.fillMovements(r, model.MovementKind(table), &page)
	}
	if err != nil {
		slog.Error("failed to list rows", "table", table, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.Templates.Render(w, http.StatusOK, "model_list.html", &page)
}

func (s *Server) fillProducts(r *http.Request, page *modelPage) error {
	products, err := store.ListProducts(r.Context(), s.DB)
	if err != nil {
		return err
	}

	page.Columns = []string{"ID", "Name", "Description", "Minimum", "Total", "Created by", "Created"}
	for _, p := range products {
		page.Rows = append(page.Rows, modelRow{ID: p.ID, Cells: []string{
			strconv.FormatInt(p.ID, 10), p.Name, p.Description,
			strconv.Itoa(p.AmountMin), strconv.Itoa(p.AmountTotal),
			strconv.FormatInt(p.CreatedBy, 10), p.CreatedAt.Local().Format("2006-01-02 15:04"),
		}})
	}
	page.Fields = []formField{
		{Name: "name", Label: "Name", Type: "text", Required: true},
		{Name: "description", Label: "Description", Type: "text"},
		{Name: "amount_min", Label: "Minimum", Type: "number"},
		{Name: "amount_total", Label: "Total", Type: "number"},
	}
	return nil
}

func (s *Server) fillMovements(r *http.Request, kind model.MovementKind, page *modelPage) error {
	movements, err := store.ListMovements(r.Context(), s.DB, kind)
	if err != nil {
		return err
	}
	products, err := store.ListProducts(r.Context(), s.DB)
	if err != nil {
		return err
	}

	names := make(map[int64]string, len(products))
	options := make([]formOption, 0, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
		options = append(options, formOption{Value: strconv.FormatInt(p.ID, 10), Label: p.Name})
	}

	page.Columns = []string{"ID", "Product", "Amount", "Created by", "Created"}
	for _, m := range movements {
		page.Rows = append(page.Rows, modelRow{ID: m.ID, Cells: []string{
			strconv.FormatInt(m.ID, 10), names[m.Product], strconv.Itoa(m.Amount),
			strconv.FormatInt(m.CreatedBy, 10), m.CreatedAt.Local().Format("2006-01-02 15:04"),
		}})
	}
	page.Fields = []formField{
		{Name: "product", Label: "Product", Type: "select", Required: true, Options: options},
		{Name: "amount", Label: "Amount", Type: "number", Required: true, Min: kind.MinAmount()},
	}
	return nil
}

// ModelCreate handles POST /admin/{table}.
func (s *Server) ModelCreate(w http.ResponseWriter, r *http.Request) {
	table := r.PathValue("table")
	if !validTable(table) {
		http.NotFound(w, r)
		return
	}
	claims := GetWebClaims(r.Context())

	var err error
	if table == "product" {
		err = s.createProduct(r, claims.UserID)
	} else {
		err = s.createMovement(r, model.MovementKind(table), claims.UserID)
	}

	var input inputError
	switch {
	case errors.As(err, &input):
		redirectWith(w, r, table, "error", input.Error())
		return
	case err != nil:
		slog.Error("failed to create row", "table", table, "error", err)
		redirectWith(w, r, table, "error", "Could not save.")
		return
	}

	slog.Info("row created from admin", "user", claims.Email, "table", table)
	redirectWith(w, r, table, "ok", "Saved.")
}

type inputError string

func (e inputError) Error() string { return string(e) }

func formInt(r *http.Request, name string) (int, error) {
	v := r.FormValue(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, inputError(fmt.Sprintf("%s must be a number", name))
	}
	return n, nil
}

func (s *Server) createProduct(r *http.Request, userID int64) error {
	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		return inputError("name is required")
	}
	minimum, err := formInt(r, "amount_min")
	if err != nil {
		return err
	}
	total, err := formInt(r, "amount_total")
	if err != nil {
		return err
	}
	if minimum < 0 || total < 0 {
		return inputError("amounts must not be negative")
	}

	_, err = store.CreateProduct(r.Context(), s.DB, &model.Product{
		Name:        name,
		Description: r.FormValue("description"),
		AmountMin:   minimum,
		AmountTotal: total,
		Creator:     model.Creator{CreatedBy: userID},
	})
	return err
}

func (s *Server) createMovement(r *http.Request, kind model.MovementKind, userID int64) error {
	productID, err := strconv.ParseInt(r.FormValue("product"), 10, 64)
	if err != nil {
		return inputError("choose a product")
	}
	if r.FormValue("amount") == "" {
		return inputError("amount is required")
	}
	amount, err := formInt(r, "amount")
	if err != nil {
		return err
	}
	if amount < kind.MinAmount() {
		return inputError(fmt.Sprintf("amount must be at least %d", kind.MinAmount()))
	}

	_, err = store.CreateMovement(r.Context(), s.DB, kind, amount, productID, userID)
	if errors.Is(err, store.ErrInvalidReference) {
		return inputError("product does not exist")
	}
	return err
}

// ModelDelete handles POST /admin/{table}/{id}/delete.
func (s *Server) ModelDelete(w http.ResponseWriter, r *http.Request) {
	table := r.PathValue("table")
	if !validTable(table) {
		http.NotFound(w, r)
		return
	}
	claims := GetWebClaims(r.Context())
	if !model.RoleAtLeast(claims.Role, model.RoleManager) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if table == "product" {
		err = store.DeleteProduct(r.Context(), s.DB, id)
	} else {
		err = store.DeleteMovement(r.Context(), s.DB, model.MovementKind(table), id)
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		redirectWith(w, r, table, "error", "Row no longer exists.")
		return
	case errors.Is(err, store.ErrInUse):
		redirectWith(w, r, table, "error", "Product still has movements.")
		return
	case err != nil:
		slog.Error("failed to delete row", "table", table, "id", id, "error", err)
		redirectWith(w, r, table, "error", "Could not delete.")
		return
	}

	slog.Info("row deleted from admin", "user", claims.Email, "table", table, "id", id)
	redirectWith(w, r, table, "ok", "Deleted.")
}

func redirectWith(w http.ResponseWriter, r *http.Request, table, key, msg string) {
	http.Redirect(w, r, "/admin/"+table+"?"+url.Values{key: {msg}}.Encode(), http.StatusSeeOther)
}
