package web

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/erazemk/estoque/internal/auth"
	"github.com/erazemk/estoque/internal/db"
	"github.com/erazemk/estoque/internal/model"
	"github.com/erazemk/estoque/internal/store"
)

const testJWTSecret = "test-secret"

func setupTestServer(t *testing.T) (*httptest.Server, *sql.DB) {
	t.Helper()
	database := db.NewTestDB(t, db.Inventory)
	router, err := NewRouter(database, testJWTSecret)
	if err != nil {
		t.Fatalf("creating router: %v", err)
	}
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, database
}

func createTestUser(t *testing.T, database *sql.DB, email, password, role string) *model.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	user, err := store.CreateUser(context.Background(), database, email, hash, role)
	if err != nil {
		t.Fatalf("creating user: %v", err)
	}
	return user
}

// newClient returns a client that keeps cookies and does not follow redirects.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("creating cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func loginAs(t *testing.T, client *http.Client, server *httptest.Server, email, password string) {
	t.Helper()
	resp, err := client.PostForm(server.URL+"/admin/login", url.Values{"email": {email}, "password": {password}})
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("login status = %d, want %d", resp.StatusCode, http.StatusSeeOther)
	}
	if loc := resp.Header.Get("Location"); loc != "/admin/" {
		t.Fatalf("login redirect = %q, want /admin/", loc)
	}
}

func get(t *testing.T, client *http.Client, target string) (*http.Response, string) {
	t.Helper()
	resp, err := client.Get(target)
	if err != nil {
		t.Fatalf("GET %s: %v", target, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func TestUnauthenticatedRedirectsToLogin(t *testing.T) {
	server, _ := setupTestServer(t)
	client := newClient(t)

	for _, path := range []string{"/admin/", "/admin/product", "/admin/shopping"} {
		resp, _ := get(t, client, server.URL+path)
		if resp.StatusCode != http.StatusSeeOther {
			t.Errorf("%s: status = %d, want %d", path, resp.StatusCode, http.StatusSeeOther)
		}
		if loc := resp.Header.Get("Location"); loc != loginPath {
			t.Errorf("%s: redirect = %q, want %q", path, loc, loginPath)
		}
	}
}

func TestLoginPageRenders(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, body := get(t, newClient(t), server.URL+"/admin/login")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(body, `name="password"`) {
		t.Error("login form missing password field")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	server, database := setupTestServer(t)
	createTestUser(t, database, "admin@example.com", "password", model.RoleAdmin)

	resp, err := newClient(t).PostForm(server.URL+"/admin/login",
		url.Values{"email": {"admin@example.com"}, "password": {"nope"}})
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}
	if len(resp.Cookies()) != 0 {
		t.Error("failed login must not set a cookie")
	}
}

func TestDashboard(t *testing.T) {
	server, database := setupTestServer(t)
	admin := createTestUser(t, database, "admin@example.com", "password", model.RoleAdmin)
	ctx := context.Background()
	if _, err := store.CreateProduct(ctx, database, &model.Product{
		Name: "Screws", AmountMin: 10, AmountTotal: 2, Creator: model.Creator{CreatedBy: admin.ID},
	}); err != nil {
		t.Fatalf("creating product: %v", err)
	}

	client := newClient(t)
	loginAs(t, client, server, "admin@example.com", "password")

	resp, body := get(t, client, server.URL+"/admin/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	for _, want := range []string{"Dashboard", "Screws", "/admin/shopping", "admin@example.com"} {
		if !strings.Contains(body, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}
}

func TestCreateFromForm(t *testing.T) {
	server, database := setupTestServer(t)
	admin := createTestUser(t, database, "admin@example.com", "password", model.RoleAdmin)
	client := newClient(t)
	loginAs(t, client, server, "admin@example.com", "password")

	resp, err := client.PostForm(server.URL+"/admin/product", url.Values{
		"name": {"Nails"}, "description": {"steel"}, "amount_min": {"5"}, "amount_total": {"20"},
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusSeeOther)
	}
	if loc := resp.Header.Get("Location"); !strings.HasPrefix(loc, "/admin/product?ok=") {
		t.Errorf("redirect = %q, want success redirect", loc)
	}

	products, err := store.ListProducts(context.Background(), database)
	if err != nil {
		t.Fatalf("listing products: %v", err)
	}
	if len(products) != 1 || products[0].Name != "Nails" || products[0].CreatedBy != admin.ID {
		t.Fatalf("products = %+v", products)
	}

	resp, err = client.PostForm(server.URL+"/admin/shopping", url.Values{
		"product": {"1"}, "amount": {"0"},
	})
	if err != nil {
		t.Fatalf("create shopping: %v", err)
	}
	resp.Body.Close()
	if loc := resp.Header.Get("Location"); !strings.HasPrefix(loc, "/admin/shopping?error=") {
		t.Errorf("zero purchase redirect = %q, want error redirect", loc)
	}

	resp, err = client.PostForm(server.URL+"/admin/shopping", url.Values{
		"product": {"1"}, "amount": {"3"},
	})
	if err != nil {
		t.Fatalf("create shopping: %v", err)
	}
	resp.Body.Close()
	if loc := resp.Header.Get("Location"); !strings.HasPrefix(loc, "/admin/shopping?ok=") {
		t.Errorf("redirect = %q, want success redirect", loc)
	}

	_, body := get(t, client, server.URL+"/admin/shopping")
	if !strings.Contains(body, "Nails") {
		t.Error("shopping list should show the product name")
	}
}

func TestUnknownTable(t *testing.T) {
	server, database := setupTestServer(t)
	createTestUser(t, database, "admin@example.com", "password", model.RoleAdmin)
	client := newClient(t)
	loginAs(t, client, server, "admin@example.com", "password")

	resp, _ := get(t, client, server.URL+"/admin/users")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestDeleteRequiresManager(t *testing.T) {
	server, database := setupTestServer(t)
	admin := createTestUser(t, database, "admin@example.com", "password", model.RoleAdmin)
	createTestUser(t, database, "keeper@example.com", "password", model.RoleStockkeeper)
	p, err := store.CreateProduct(context.Background(), database, &model.Product{
		Name: "Tape", Creator: model.Creator{CreatedBy: admin.ID},
	})
	if err != nil {
		t.Fatalf("creating product: %v", err)
	}

	keeper := newClient(t)
	loginAs(t, keeper, server, "keeper@example.com", "password")

	_, body := get(t, keeper, server.URL+"/admin/product")
	if strings.Contains(body, "/delete") {
		t.Error("stockkeeper should not see delete buttons")
	}

	resp, err := keeper.PostForm(server.URL+"/admin/product/"+itoa(p.ID)+"/delete", nil)
	if err != nil {
		t.Fatalf("delete request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("stockkeeper delete status = %d, want 403", resp.StatusCode)
	}

	manager := newClient(t)
	loginAs(t, manager, server, "admin@example.com", "password")
	resp, err = manager.PostForm(server.URL+"/admin/product/"+itoa(p.ID)+"/delete", nil)
	if err != nil {
		t.Fatalf("delete request: %v", err)
	}
	resp.Body.Close()
	if loc := resp.Header.Get("Location"); !strings.HasPrefix(loc, "/admin/product?ok=") {
		t.Errorf("redirect = %q, want success redirect", loc)
	}

	got, err := store.GetProduct(context.Background(), database, p.ID)
	if err != nil {
		t.Fatalf("getting product: %v", err)
	}
	if got != nil {
		t.Error("product should be deleted")
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	server, database := setupTestServer(t)
	createTestUser(t, database, "admin@example.com", "password", model.RoleAdmin)
	client := newClient(t)
	loginAs(t, client, server, "admin@example.com", "password")

	u, _ := url.Parse(server.URL + "/admin/")
	cookies := client.Jar.Cookies(u)
	if len(cookies) != 1 || cookies[0].Name != cookieName {
		t.Fatalf("cookies = %v, want one %s cookie", cookies, cookieName)
	}
	stolen := cookies[0].Value

	resp, err := client.PostForm(server.URL+"/admin/logout", nil)
	if err != nil {
		t.Fatalf("logout request: %v", err)
	}
	resp.Body.Close()
	if loc := resp.Header.Get("Location"); loc != loginPath {
		t.Errorf("logout redirect = %q, want %q", loc, loginPath)
	}

	req, _ := http.NewRequest(http.MethodGet, server.URL+"/admin/", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: stolen})
	resp, err = newClient(t).Do(req)
	if err != nil {
		t.Fatalf("request with revoked cookie: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Errorf("revoked cookie status = %d, want %d", resp.StatusCode, http.StatusSeeOther)
	}
}

func TestDeactivatedUserLosesSession(t *testing.T) {
	server, database := setupTestServer(t)
	user := createTestUser(t, database, "keeper@example.com", "password", model.RoleStockkeeper)
	client := newClient(t)
	loginAs(t, client, server, "keeper@example.com", "password")

	if err := store.DeactivateUser(context.Background(), database, user.ID); err != nil {
		t.Fatalf("deactivating user: %v", err)
	}

	resp, _ := get(t, client, server.URL+"/admin/")
	if resp.StatusCode != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusSeeOther)
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
