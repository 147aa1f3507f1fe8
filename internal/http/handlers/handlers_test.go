package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"restoplan/internal/infra"
	"restoplan/internal/infra/password"
	"restoplan/internal/middleware"
	"restoplan/internal/sqlinline"
	"restoplan/internal/testutil/fakedb"
)

func newTestApp(db *fakedb.DB) *App {
	app := NewApp(&infra.Config{APIPrefix: "/api/v1"}, zerolog.Nop(), db)
	app.Hasher = password.Bcrypt{Cost: bcrypt.MinCost}
	return app
}

func request(method, target, body string) *http.Request {
	return httptest.NewRequest(method, target, strings.NewReader(body))
}

func withID(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rr.Body.String())
	}
	return v
}

func assertError(t *testing.T, rr *httptest.ResponseRecorder, status int, msg string) {
	t.Helper()
	if rr.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rr.Code, status, rr.Body.String())
	}
	body := decodeBody[map[string]string](t, rr)
	if body["error"] != msg {
		t.Fatalf("error = %q, want %q", body["error"], msg)
	}
}

func TestUpdatePlanEmptyBodyKeepsFields(t *testing.T) {
	db := fakedb.New()
	app := newTestApp(db)
	before := db.Snapshot().Plans[0]

	rr := httptest.NewRecorder()
	app.UpdatePlan(rr, withID(request(http.MethodPut, "/plans/1", ""), "1"))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	after := db.Snapshot().Plans[0]
	if after.Name != before.Name || after.MonthlyFee != before.MonthlyFee ||
		after.YearlyFee != before.YearlyFee || after.MaxNumberOfRestaurants != before.MaxNumberOfRestaurants ||
		*after.Description != *before.Description {
		t.Fatalf("plan changed: before %+v after %+v", before, after)
	}

	rr = httptest.NewRecorder()
	app.UpdatePlan(rr, withID(request(http.MethodPut, "/plans/1", "{}"), "1"))
	if rr.Code != http.StatusOK {
		t.Fatalf("status with {} = %d", rr.Code)
	}
}

func TestUpdatePlanWritesExplicitZeroValues(t *testing.T) {
	db := fakedb.New()
	app := newTestApp(db)

	body := `{"name":"","monthlyFee":0,"yearlyFee":0,"maxNumberOfRestaurants":0,"description":""}`
	rr := httptest.NewRecorder()
	app.UpdatePlan(rr, withID(request(http.MethodPut, "/plans/2", body), "2"))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	got := decodeBody[map[string]any](t, rr)
	if got["name"] != "" || got["monthlyFee"] != float64(0) || got["maxNumberOfRestaurants"] != float64(0) || got["description"] != "" {
		t.Fatalf("unexpected merged plan %#v", got)
	}
	stored := db.Snapshot().Plans[1]
	if stored.Name != "" || stored.MonthlyFee != 0 || stored.YearlyFee != 0 || stored.MaxNumberOfRestaurants != 0 {
		t.Fatalf("zero values not written: %+v", stored)
	}
	if stored.Description == nil || *stored.Description != "" {
		t.Fatalf("description = %v, want empty string", stored.Description)
	}
}

func TestUpdatePlanPartialAndNull(t *testing.T) {
	db := fakedb.New()
	app := newTestApp(db)

	rr := httptest.NewRecorder()
	app.UpdatePlan(rr, withID(request(http.MethodPut, "/plans/3", `{"monthlyFee":49.5,"description":null}`), "3"))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	stored := db.Snapshot().Plans[2]
	if stored.MonthlyFee != 49.5 || stored.Name != "Premium" || stored.YearlyFee != 399 || stored.Description != nil {
		t.Fatalf("unexpected stored plan %+v", stored)
	}

	rr = httptest.NewRecorder()
	app.UpdatePlan(rr, withID(request(http.MethodPut, "/plans/3", `{"name":null}`), "3"))
	assertError(t, rr, http.StatusBadRequest, "Invalid payload")
}

func TestUpdatePlanErrors(t *testing.T) {
	db := fakedb.New()
	app := newTestApp(db)

	rr := httptest.NewRecorder()
	app.UpdatePlan(rr, withID(request(http.MethodPut, "/plans/9", `{"name":"x"}`), "9"))
	assertError(t, rr, http.StatusNotFound, "Plan not found")

	rr = httptest.NewRecorder()
	app.UpdatePlan(rr, withID(request(http.MethodPut, "/plans/abc", `{}`), "abc"))
	assertError(t, rr, http.StatusBadRequest, "Invalid plan id")

	rr = httptest.NewRecorder()
	app.UpdatePlan(rr, withID(request(http.MethodPut, "/plans/1", `{"name":`), "1"))
	assertError(t, rr, http.StatusBadRequest, "Invalid payload")

	db.Fail[sqlinline.QUpdatePlan] = errors.New("deadlock detected")
	rr = httptest.NewRecorder()
	app.UpdatePlan(rr, withID(request(http.MethodPut, "/plans/1", `{"name":"x"}`), "1"))
	assertError(t, rr, http.StatusInternalServerError, "Plan update failed")
}

func TestListFailuresUseFixedMessages(t *testing.T) {
	tests := []struct {
		query   string
		handler func(*App) http.HandlerFunc
		message string
	}{
		{sqlinline.QListPlans, func(a *App) http.HandlerFunc { return a.ListPlans }, "Plans not found"},
		{sqlinline.QListRoles, func(a *App) http.HandlerFunc { return a.ListRoles }, "Roles not found"},
		{sqlinline.QListReviews, func(a *App) http.HandlerFunc { return a.ListReviews }, "Reviews not found"},
		{sqlinline.QListUsers, func(a *App) http.HandlerFunc { return a.ListUsers }, "Users not found"},
		{sqlinline.QRestaurantRatings, func(a *App) http.HandlerFunc { return a.ListRestaurants }, "Restaurants not found"},
	}
	for _, tc := range tests {
		t.Run(tc.message, func(t *testing.T) {
			db := fakedb.New()
			db.Fail[tc.query] = errors.New("relation does not exist")
			rr := httptest.NewRecorder()
			tc.handler(newTestApp(db))(rr, request(http.MethodGet, "/", ""))
			assertError(t, rr, http.StatusInternalServerError, tc.message)
			if strings.Contains(rr.Body.String(), "relation") {
				t.Fatalf("cause leaked into response: %s", rr.Body.String())
			}
		})
	}
}

func TestEmptyListsEncodeAsArrays(t *testing.T) {
	app := newTestApp(fakedb.Empty())
	for name, h := range map[string]http.HandlerFunc{
		"plans":       app.ListPlans,
		"roles":       app.ListRoles,
		"reviews":     app.ListReviews,
		"users":       app.ListUsers,
		"restaurants": app.ListRestaurants,
	} {
		rr := httptest.NewRecorder()
		h(rr, request(http.MethodGet, "/"+name, ""))
		if got := strings.TrimSpace(rr.Body.String()); got != "[]" {
			t.Fatalf("%s body = %q, want []", name, got)
		}
	}
}

func TestListUsersOmitsRoleAndPlan(t *testing.T) {
	app := newTestApp(fakedb.New())
	rr := httptest.NewRecorder()
	app.ListUsers(rr, request(http.MethodGet, "/users", ""))
	users := decodeBody[[]map[string]any](t, rr)
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if _, ok := users[0]["roleId"]; ok {
		t.Fatalf("public projection exposes roleId: %#v", users[0])
	}
	if _, ok := users[0]["password"]; ok {
		t.Fatalf("public projection exposes password")
	}
	if users[0]["isActive"] != true {
		t.Fatalf("isActive = %#v, want true", users[0]["isActive"])
	}
}

func TestGetUser(t *testing.T) {
	app := newTestApp(fakedb.New())

	rr := httptest.NewRecorder()
	app.GetUser(rr, withID(request(http.MethodGet, "/users/2", ""), "2"))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	user := decodeBody[map[string]any](t, rr)
	if user["roleId"] != float64(2) || user["planId"] != float64(2) || user["annualPayment"] != false {
		t.Fatalf("unexpected user %#v", user)
	}

	rr = httptest.NewRecorder()
	app.GetUser(rr, withID(request(http.MethodGet, "/users/404", ""), "404"))
	assertError(t, rr, http.StatusNotFound, "User not found")

	rr = httptest.NewRecorder()
	app.GetUser(rr, withID(request(http.MethodGet, "/users/0", ""), "0"))
	assertError(t, rr, http.StatusBadRequest, "Invalid user id")
}

func TestUpdateUser(t *testing.T) {
	db := fakedb.New()
	app := newTestApp(db)

	rr := httptest.NewRecorder()
	app.UpdateUser(rr, withID(request(http.MethodPut, "/users/2", `{"isActive":false}`), "2"))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	got := decodeBody[map[string]any](t, rr)
	if got["id"] != float64(2) || got["isActive"] != false || got["annualPayment"] != false {
		t.Fatalf("unexpected response %#v", got)
	}

	rr = httptest.NewRecorder()
	app.UpdateUser(rr, withID(request(http.MethodPut, "/users/1", `{"isActive":false}`), "1"))
	stored := db.Snapshot().Users[0]
	if stored.IsActive || !stored.AnnualPayment {
		t.Fatalf("absent annualPayment should keep stored value: %+v", stored)
	}

	rr = httptest.NewRecorder()
	app.UpdateUser(rr, withID(request(http.MethodPut, "/users/2", `{}`), "2"))
	assertError(t, rr, http.StatusBadRequest, "isActive or annualPayment is required")
}

func TestUpdateUserUnknownIDDoesNotWrite(t *testing.T) {
	db := fakedb.New()
	app := newTestApp(db)

	rr := httptest.NewRecorder()
	app.UpdateUser(rr, withID(request(http.MethodPut, "/users/99", `{"isActive":true}`), "99"))
	assertError(t, rr, http.StatusNotFound, "User not found")
	if n := db.Calls(sqlinline.QUpdateUserStatus); n != 0 {
		t.Fatalf("update ran %d times for unknown user", n)
	}
}

func TestDeleteReviewEchoesID(t *testing.T) {
	db := fakedb.New()
	app := newTestApp(db)

	for _, id := range []string{"1", "12345"} {
		rr := httptest.NewRecorder()
		app.DeleteReview(rr, withID(request(http.MethodDelete, "/reviews/"+id, ""), id))
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d for id %s", rr.Code, id)
		}
		if got := strings.TrimSpace(rr.Body.String()); got != `{"id":`+id+`}` {
			t.Fatalf("body = %s", got)
		}
	}

	db.Fail[sqlinline.QDeleteReview] = errors.New("timeout")
	rr := httptest.NewRecorder()
	app.DeleteReview(rr, withID(request(http.MethodDelete, "/reviews/2", ""), "2"))
	assertError(t, rr, http.StatusInternalServerError, "Review deletion failed")
}

func TestListRestaurantsRatings(t *testing.T) {
	app := newTestApp(fakedb.New())
	rr := httptest.NewRecorder()
	app.ListRestaurants(rr, request(http.MethodGet, "/restaurants", ""))

	list := decodeBody[[]map[string]any](t, rr)
	if len(list) != 2 {
		t.Fatalf("expected 2 restaurants, got %d", len(list))
	}
	if list[0]["rating"] != float64(4) {
		t.Fatalf("rating = %#v, want 4", list[0]["rating"])
	}
	if v, ok := list[1]["rating"]; !ok || v != nil {
		t.Fatalf("rating = %#v, want null", v)
	}
	if list[0]["zipCode"] != "20121" || list[0]["countryCode"] != "IT" {
		t.Fatalf("restaurant fields not flattened: %#v", list[0])
	}
}

const registrationBody = `{
	"firstName": "Anna",
	"lastName": "Bianchi",
	"email": "anna@example.com",
	"password": "hunter22",
	"planId": 1,
	"annualPayment": true,
	"restaurants": [
		{"name": "A", "city": "Roma", "cuisine": "Italian", "address": "Via A", "zipCode": "00100", "countryCode": "it"},
		{"name": "B", "city": "Roma", "cuisine": "Pizza", "address": "Via B", "zipCode": "00100", "countryCode": ""}
	]
}`

func TestRegister(t *testing.T) {
	db := fakedb.New()
	app := newTestApp(db)
	before := db.Snapshot()

	req := request(http.MethodPost, "/registration", registrationBody)
	req = req.WithContext(context.WithValue(req.Context(), middleware.CountryKey, "FR"))
	rr := httptest.NewRecorder()
	app.Register(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if got := decodeBody[map[string]string](t, rr); got["message"] != "Registration successful" {
		t.Fatalf("message = %q", got["message"])
	}

	after := db.Snapshot()
	if len(after.Users) != len(before.Users)+1 || len(after.Restaurants) != len(before.Restaurants)+2 {
		t.Fatalf("expected one user and two restaurants to be created")
	}
	user := after.Users[len(after.Users)-1]
	if user.RoleID != 2 || !user.IsActive || !user.AnnualPayment {
		t.Fatalf("unexpected user %+v", user.User)
	}
	if user.PasswordHash == "hunter22" || !password.Compare(user.PasswordHash, "hunter22") {
		t.Fatalf("password not hashed correctly")
	}
	links := 0
	for _, l := range after.Links {
		if l.UserID == user.ID {
			links++
		}
	}
	if links != 2 {
		t.Fatalf("links = %d, want 2", links)
	}
	a, b := after.Restaurants[len(after.Restaurants)-2], after.Restaurants[len(after.Restaurants)-1]
	if a.CountryCode != "IT" || b.CountryCode != "FR" {
		t.Fatalf("country codes = %q, %q; want IT, FR", a.CountryCode, b.CountryCode)
	}
}

func TestRegisterErrors(t *testing.T) {
	t.Run("password too long for bcrypt", func(t *testing.T) {
		db := fakedb.New()
		before := db.Snapshot()
		body := strings.Replace(registrationBody, "hunter22", strings.Repeat("x", 87), 1)
		rr := httptest.NewRecorder()
		newTestApp(db).Register(rr, request(http.MethodPost, "/registration", body))
		assertError(t, rr, http.StatusBadRequest, "password must be at most 72 bytes")
		if len(db.Snapshot().Users) != len(before.Users) {
			t.Fatalf("user inserted for rejected password")
		}
	})
	t.Run("duplicate email", func(t *testing.T) {
		db := fakedb.New()
		before := db.Snapshot()
		body := strings.Replace(registrationBody, "anna@example.com", "mario@example.com", 1)
		rr := httptest.NewRecorder()
		newTestApp(db).Register(rr, request(http.MethodPost, "/registration", body))
		assertError(t, rr, http.StatusConflict, "User already exists")
		after := db.Snapshot()
		if len(after.Users) != len(before.Users) || len(after.Restaurants) != len(before.Restaurants) {
			t.Fatalf("rows left behind after duplicate email")
		}
	})

	t.Run("unknown plan", func(t *testing.T) {
		body := strings.Replace(registrationBody, `"planId": 1`, `"planId": 77`, 1)
		rr := httptest.NewRecorder()
		newTestApp(fakedb.New()).Register(rr, request(http.MethodPost, "/registration", body))
		assertError(t, rr, http.StatusBadRequest, "Unknown plan")
	})

	t.Run("second restaurant fails", func(t *testing.T) {
		db := fakedb.New()
		before := db.Snapshot()
		db.FailOnCall[sqlinline.QInsertRestaurant] = fakedb.FailAt{Call: 2, Err: errors.New("check violation")}
		rr := httptest.NewRecorder()
		newTestApp(db).Register(rr, request(http.MethodPost, "/registration", registrationBody))
		assertError(t, rr, http.StatusInternalServerError, "Registration failed")
		after := db.Snapshot()
		if len(after.Users) != len(before.Users) || len(after.Restaurants) != len(before.Restaurants) || len(after.Links) != len(before.Links) {
			t.Fatalf("partial registration left behind")
		}
	})

	t.Run("missing restaurants", func(t *testing.T) {
		body := `{"firstName":"A","lastName":"B","email":"a@b.c","password":"x","planId":1,"restaurants":[]}`
		rr := httptest.NewRecorder()
		newTestApp(fakedb.New()).Register(rr, request(http.MethodPost, "/registration", body))
		assertError(t, rr, http.StatusBadRequest, "at least one restaurant is required")
	})

	t.Run("invalid country", func(t *testing.T) {
		body := strings.Replace(registrationBody, `"countryCode": "it"`, `"countryCode": "Narnia"`, 1)
		rr := httptest.NewRecorder()
		newTestApp(fakedb.New()).Register(rr, request(http.MethodPost, "/registration", body))
		assertError(t, rr, http.StatusBadRequest, "Invalid countryCode")
	})

	t.Run("malformed json", func(t *testing.T) {
		rr := httptest.NewRecorder()
		newTestApp(fakedb.New()).Register(rr, request(http.MethodPost, "/registration", `{"firstName":`))
		assertError(t, rr, http.StatusBadRequest, "Invalid payload")
	})
}

func TestResetDBRestoresSeedRows(t *testing.T) {
	db := fakedb.New()
	app := newTestApp(db)
	db.Plans[0].Name = "Changed"
	db.Roles = db.Roles[:1]

	rr := httptest.NewRecorder()
	app.ResetDB(rr, request(http.MethodPost, "/reset-db", ""))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if got := decodeBody[map[string]string](t, rr); got["message"] != "The database reset was successful" {
		t.Fatalf("message = %q", got["message"])
	}

	fixture := fakedb.Fixture()
	rr = httptest.NewRecorder()
	app.ListRoles(rr, request(http.MethodGet, "/roles", ""))
	want, _ := json.Marshal(fixture.Roles)
	if got := bytes.TrimSpace(rr.Body.Bytes()); !bytes.Equal(got, want) {
		t.Fatalf("roles = %s, want %s", got, want)
	}
	rr = httptest.NewRecorder()
	app.ListPlans(rr, request(http.MethodGet, "/plans", ""))
	want, _ = json.Marshal(fixture.Plans)
	if got := bytes.TrimSpace(rr.Body.Bytes()); !bytes.Equal(got, want) {
		t.Fatalf("plans = %s, want %s", got, want)
	}
}

func TestResetDBFailure(t *testing.T) {
	db := fakedb.New()
	app := newTestApp(db)
	app.Config.SeedScriptPath = "/nonexistent/seed.sql"

	rr := httptest.NewRecorder()
	app.ResetDB(rr, request(http.MethodPost, "/reset-db", ""))
	assertError(t, rr, http.StatusInternalServerError, "Database reset failed")
	if len(db.Raw) != 0 {
		t.Fatalf("no statement should run when the script cannot be loaded")
	}
}

func TestHealth(t *testing.T) {
	db := fakedb.New()
	app := newTestApp(db)

	rr := httptest.NewRecorder()
	app.Health(rr, request(http.MethodGet, "/healthz", ""))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	db.Down = true
	rr = httptest.NewRecorder()
	app.Health(rr, request(http.MethodGet, "/healthz", ""))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rr.Code)
	}
}
