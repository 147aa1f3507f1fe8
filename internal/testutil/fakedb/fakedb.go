// Package fakedb is an in-memory stand-in for the PostgreSQL store. It
// implements infra.TxExecutor by dispatching on the audited statements in
// sqlinline, so repositories and handlers can be tested without a database.
package fakedb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"restoplan/internal/domain"
	"restoplan/internal/infra"
	"restoplan/internal/sqlinline"
)

// UserRow is a stored user including the password hash.
type UserRow struct {
	domain.User
	PasswordHash string
}

// Link is a user_restaurants row.
type Link struct {
	UserID       int64
	RestaurantID int64
}

// Tables holds every row of the store.
type Tables struct {
	Plans       []domain.Plan
	Roles       []domain.Role
	Users       []UserRow
	Restaurants []domain.Restaurant
	Links       []Link
	Reviews     []domain.Review
}

func (s Tables) clone() Tables {
	return Tables{
		Plans:       append([]domain.Plan(nil), s.Plans...),
		Roles:       append([]domain.Role(nil), s.Roles...),
		Users:       append([]UserRow(nil), s.Users...),
		Restaurants: append([]domain.Restaurant(nil), s.Restaurants...),
		Links:       append([]Link(nil), s.Links...),
		Reviews:     append([]domain.Review(nil), s.Reviews...),
	}
}

// DB is the fake store. The exported table slices may be read and seeded
// directly by tests; all access goes through the mutex otherwise.
type DB struct {
	mu sync.Mutex
	Tables

	// Fail makes the statement fail with the given error.
	Fail map[string]error
	// FailOnCall makes the nth call (1-based) of a statement fail.
	FailOnCall map[string]FailAt
	// Down makes Ping fail.
	Down bool

	calls map[string]int
	// Raw records every statement run through ExecRaw.
	Raw []string
	// Commits and Rollbacks count InTx outcomes.
	Commits   int
	Rollbacks int
}

// FailAt pairs a call number with the error returned on that call.
type FailAt struct {
	Call int
	Err  error
}

// New returns a store holding the baseline fixture.
func New() *DB {
	return &DB{Tables: Fixture(), Fail: map[string]error{}, FailOnCall: map[string]FailAt{}, calls: map[string]int{}}
}

// Empty returns a store with no rows.
func Empty() *DB {
	return &DB{Fail: map[string]error{}, FailOnCall: map[string]FailAt{}, calls: map[string]int{}}
}

func strPtr(s string) *string { return &s }

// Fixture mirrors the rows of the embedded seed script.
func Fixture() Tables {
	return Tables{
		Roles: []domain.Role{{ID: 1, Name: "admin"}, {ID: 2, Name: "owner"}},
		Plans: []domain.Plan{
			{ID: 1, Name: "Basic", MonthlyFee: 9.99, YearlyFee: 99, MaxNumberOfRestaurants: 1, Description: strPtr("One restaurant; menu and opening hours.")},
			{ID: 2, Name: "Standard", MonthlyFee: 19.99, YearlyFee: 199, MaxNumberOfRestaurants: 3, Description: strPtr("Up to three restaurants; reviews; table reservations.")},
			{ID: 3, Name: "Premium", MonthlyFee: 39.99, YearlyFee: 399, MaxNumberOfRestaurants: 10, Description: strPtr(`Up to ten restaurants; analytics; priority support. Note: "fair use" applies; see terms.`)},
		},
		Users: []UserRow{
			{User: domain.User{ID: 1, FirstName: "Admin", LastName: "User", Email: "admin@example.com", RoleID: 1, PlanID: 3, IsActive: true, AnnualPayment: true}},
			{User: domain.User{ID: 2, FirstName: "Mario", LastName: "Rossi", Email: "mario@example.com", RoleID: 2, PlanID: 2, IsActive: true}},
		},
		Restaurants: []domain.Restaurant{
			{ID: 1, Name: "Trattoria da Mario", City: "Milano", Cuisine: "Italian", Address: "Via Roma 1", ZipCode: "20121", CountryCode: "IT", Description: strPtr("Family run; fresh pasta daily.")},
			{ID: 2, Name: "Mario's Pizzeria", City: "Milano", Cuisine: "Pizza", Address: "Corso Como 10", ZipCode: "20154", CountryCode: "IT"},
		},
		Links: []Link{{UserID: 2, RestaurantID: 1}, {UserID: 2, RestaurantID: 2}},
		Reviews: []domain.Review{
			{ID: 1, RestaurantID: 1, Rating: 3, Author: strPtr("Giulia"), Comment: strPtr("Good; a bit slow on a Friday night."), CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
			{ID: 2, RestaurantID: 1, Rating: 5, Author: strPtr("Luca"), Comment: strPtr("Best carbonara in town -- no contest."), CreatedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		},
	}
}

// Snapshot returns a copy of the current tables.
func (d *DB) Snapshot() Tables {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.Tables.clone()
}

// Calls returns how often query ran.
func (d *DB) Calls(query string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls[query]
}

// UniqueViolation and ForeignKeyViolation build driver errors as PostgreSQL reports them.
func UniqueViolation() error { return &pgconn.PgError{Code: "23505", Message: "duplicate key value"} }

func ForeignKeyViolation() error {
	return &pgconn.PgError{Code: "23503", Message: "violates foreign key constraint"}
}

func (d *DB) injected(query string) error {
	if d.calls == nil {
		d.calls = map[string]int{}
	}
	d.calls[query]++
	if err, ok := d.Fail[query]; ok {
		return err
	}
	if f, ok := d.FailOnCall[query]; ok && f.Call == d.calls[query] {
		return f.Err
	}
	return nil
}

func (d *DB) Ping(context.Context) error {
	if d.Down {
		return errors.New("fakedb: down")
	}
	return nil
}

func (d *DB) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	if err := ctx.Err(); err != nil {
		return pgconn.CommandTag{}, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.injected(query); err != nil {
		return pgconn.CommandTag{}, err
	}

	switch query {
	case sqlinline.QUpdatePlan:
		id := toInt64(args[0])
		for i := range d.Plans {
			if d.Plans[i].ID != id {
				continue
			}
			d.Plans[i].Name = args[1].(string)
			d.Plans[i].MonthlyFee = args[2].(float64)
			d.Plans[i].YearlyFee = args[3].(float64)
			d.Plans[i].MaxNumberOfRestaurants = args[4].(int)
			d.Plans[i].Description = args[5].(*string)
			return pgconn.NewCommandTag("UPDATE 1"), nil
		}
		return pgconn.NewCommandTag("UPDATE 0"), nil

	case sqlinline.QDeleteReview:
		id := toInt64(args[0])
		for i, rv := range d.Reviews {
			if rv.ID == id {
				d.Reviews = append(d.Reviews[:i], d.Reviews[i+1:]...)
				return pgconn.NewCommandTag("DELETE 1"), nil
			}
		}
		return pgconn.NewCommandTag("DELETE 0"), nil

	case sqlinline.QUpdateUserStatus:
		id := toInt64(args[0])
		for i := range d.Users {
			if d.Users[i].ID == id {
				d.Users[i].IsActive = args[1].(bool)
				d.Users[i].AnnualPayment = args[2].(bool)
				return pgconn.NewCommandTag("UPDATE 1"), nil
			}
		}
		return pgconn.NewCommandTag("UPDATE 0"), nil

	case sqlinline.QUpdateUserPlan:
		id, planID := toInt64(args[0]), toInt64(args[1])
		if !d.hasPlan(planID) {
			return pgconn.CommandTag{}, ForeignKeyViolation()
		}
		for i := range d.Users {
			if d.Users[i].ID == id {
				d.Users[i].PlanID = planID
				return pgconn.NewCommandTag("UPDATE 1"), nil
			}
		}
		return pgconn.NewCommandTag("UPDATE 0"), nil

	case sqlinline.QInsertUserRestaurant:
		link := Link{UserID: toInt64(args[0]), RestaurantID: toInt64(args[1])}
		for _, l := range d.Links {
			if l == link {
				return pgconn.CommandTag{}, UniqueViolation()
			}
		}
		d.Links = append(d.Links, link)
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	}
	return pgconn.CommandTag{}, fmt.Errorf("fakedb: unexpected exec %q", firstLine(query))
}

func (d *DB) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.injected(query); err != nil {
		return nil, err
	}

	var data [][]any
	switch query {
	case sqlinline.QListPlans:
		for _, p := range d.Plans {
			data = append(data, []any{p.ID, p.Name, p.MonthlyFee, p.YearlyFee, p.MaxNumberOfRestaurants, p.Description})
		}
	case sqlinline.QListRoles:
		for _, r := range d.Roles {
			data = append(data, []any{r.ID, r.Name})
		}
	case sqlinline.QListReviews:
		for _, r := range d.Reviews {
			data = append(data, []any{r.ID, r.RestaurantID, r.Rating, r.Author, r.Comment, r.CreatedAt})
		}
	case sqlinline.QListUsers:
		for _, u := range d.Users {
			data = append(data, []any{u.ID, u.FirstName, u.LastName, u.Email, u.IsActive, u.AnnualPayment})
		}
	case sqlinline.QListRestaurants:
		for _, r := range d.Restaurants {
			data = append(data, []any{r.ID, r.Name, r.City, r.Cuisine, r.Address, r.ZipCode, r.CountryCode, r.Description, r.ImageURL})
		}
	case sqlinline.QRestaurantRatings:
		sums := map[int64]int{}
		counts := map[int64]int{}
		var ids []int64
		for _, r := range d.Reviews {
			if counts[r.RestaurantID] == 0 {
				ids = append(ids, r.RestaurantID)
			}
			sums[r.RestaurantID] += r.Rating
			counts[r.RestaurantID]++
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			data = append(data, []any{id, float64(sums[id]) / float64(counts[id])})
		}
	default:
		return nil, fmt.Errorf("fakedb: unexpected query %q", firstLine(query))
	}
	return NewRows(data...), nil
}

func (d *DB) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	if err := ctx.Err(); err != nil {
		return ErrRow(err)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.injected(query); err != nil {
		return ErrRow(err)
	}

	switch query {
	case sqlinline.QSelectPlanByID:
		id := toInt64(args[0])
		for _, p := range d.Plans {
			if p.ID == id {
				return NewRow(p.ID, p.Name, p.MonthlyFee, p.YearlyFee, p.MaxNumberOfRestaurants, p.Description)
			}
		}
		return Row{}

	case sqlinline.QSelectUserByID:
		id := toInt64(args[0])
		for _, u := range d.Users {
			if u.ID == id {
				return NewRow(u.ID, u.FirstName, u.LastName, u.Email, u.RoleID, u.PlanID, u.IsActive, u.AnnualPayment)
			}
		}
		return Row{}

	case sqlinline.QInsertUser:
		email := args[2].(string)
		for _, u := range d.Users {
			if strings.EqualFold(u.Email, email) {
				return ErrRow(UniqueViolation())
			}
		}
		roleID, planID := toInt64(args[4]), toInt64(args[5])
		if !d.hasPlan(planID) || !d.hasRole(roleID) {
			return ErrRow(ForeignKeyViolation())
		}
		id := int64(1)
		for _, u := range d.Users {
			if u.ID >= id {
				id = u.ID + 1
			}
		}
		d.Users = append(d.Users, UserRow{
			User: domain.User{
				ID:            id,
				FirstName:     args[0].(string),
				LastName:      args[1].(string),
				Email:         email,
				RoleID:        roleID,
				PlanID:        planID,
				IsActive:      args[6].(bool),
				AnnualPayment: args[7].(bool),
			},
			PasswordHash: args[3].(string),
		})
		return NewRow(id)

	case sqlinline.QInsertRestaurant:
		id := int64(1)
		for _, r := range d.Restaurants {
			if r.ID >= id {
				id = r.ID + 1
			}
		}
		d.Restaurants = append(d.Restaurants, domain.Restaurant{
			ID:          id,
			Name:        args[0].(string),
			City:        args[1].(string),
			Cuisine:     args[2].(string),
			Address:     args[3].(string),
			ZipCode:     args[4].(string),
			CountryCode: args[5].(string),
			Description: args[6].(*string),
			ImageURL:    args[7].(*string),
		})
		return NewRow(id)
	}
	return ErrRow(fmt.Errorf("fakedb: unexpected query_row %q", firstLine(query)))
}

// ExecRaw understands the statements of the reset workflow: DROP TABLE
// empties the table, and an INSERT into a seeded table restores the fixture
// rows for it. Other statements are recorded and accepted.
func (d *DB) ExecRaw(ctx context.Context, statement string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Raw = append(d.Raw, statement)
	if err := d.injected(statement); err != nil {
		return err
	}

	upper := strings.ToUpper(statement)
	fixture := Fixture()
	switch {
	case strings.HasPrefix(upper, "DROP TABLE"):
		switch {
		case strings.Contains(statement, `"reviews"`):
			d.Reviews = nil
		case strings.Contains(statement, `"restaurants"`):
			d.Restaurants = nil
		case strings.Contains(statement, `"plans"`):
			d.Plans = nil
		case strings.Contains(statement, `"roles"`):
			d.Roles = nil
		case strings.Contains(statement, `"user_restaurants"`):
			d.Links = nil
		case strings.Contains(statement, `"users"`):
			d.Users = nil
		}
	case strings.HasPrefix(upper, "INSERT INTO ROLES"):
		d.Roles = fixture.Roles
	case strings.HasPrefix(upper, "INSERT INTO PLANS"):
		d.Plans = fixture.Plans
	case strings.HasPrefix(upper, "INSERT INTO USERS"):
		d.Users = fixture.Users
	case strings.HasPrefix(upper, "INSERT INTO RESTAURANTS"):
		d.Restaurants = fixture.Restaurants
	case strings.HasPrefix(upper, "INSERT INTO USER_RESTAURANTS"):
		d.Links = fixture.Links
	case strings.HasPrefix(upper, "INSERT INTO REVIEWS"):
		d.Reviews = fixture.Reviews
	}
	return nil
}

// InTx snapshots the tables and restores them when fn fails.
func (d *DB) InTx(ctx context.Context, fn func(infra.SQLExecutor) error) error {
	d.mu.Lock()
	saved := d.Tables.clone()
	d.mu.Unlock()

	if err := fn(d); err != nil {
		d.mu.Lock()
		d.Tables = saved
		d.Rollbacks++
		d.mu.Unlock()
		return err
	}
	d.mu.Lock()
	d.Commits++
	d.mu.Unlock()
	return nil
}

func (d *DB) hasPlan(id int64) bool {
	for _, p := range d.Plans {
		if p.ID == id {
			return true
		}
	}
	return false
}

func (d *DB) hasRole(id int64) bool {
	for _, r := range d.Roles {
		if r.ID == id {
			return true
		}
	}
	return false
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case int32:
		return int64(n)
	}
	panic(fmt.Sprintf("fakedb: unexpected id type %T", v))
}

func firstLine(query string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(query), "\n")
	return line
}

var _ infra.TxExecutor = (*DB)(nil)
