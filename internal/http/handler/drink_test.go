package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"drinks-service/internal/audit"
	"drinks-service/internal/domain/drink"
	apperrors "drinks-service/pkg/errors"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryDrinks struct {
	mu     sync.Mutex
	nextID int64
	drinks map[int64]*drink.Drink
	err    error
}

func newMemoryDrinks(seed ...drink.Drink) *memoryDrinks {
	m := &memoryDrinks{drinks: map[int64]*drink.Drink{}}
	for _, d := range seed {
		m.nextID++
		d.ID = m.nextID
		stored := d
		m.drinks[d.ID] = &stored
	}
	return m
}

func (m *memoryDrinks) List(context.Context) ([]*drink.Drink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]*drink.Drink, 0, len(m.drinks))
	for _, d := range m.drinks {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryDrinks) GetByID(_ context.Context, id int64) (*drink.Drink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drinks[id]
	if !ok {
		return nil, apperrors.NotFound("drink not found")
	}
	return d, nil
}

func (m *memoryDrinks) titleTaken(title string, except int64) bool {
	for id, d := range m.drinks {
		if id != except && d.Title == title {
			return true
		}
	}
	return false
}

func (m *memoryDrinks) Create(_ context.Context, input drink.CreateDrinkInput) (*drink.Drink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.titleTaken(input.Title, 0) {
		return nil, apperrors.Conflict("drink with this title already exists")
	}
	m.nextID++
	d := &drink.Drink{ID: m.nextID, Title: input.Title, Recipe: input.Recipe}
	m.drinks[d.ID] = d
	return d, nil
}

func (m *memoryDrinks) Update(_ context.Context, id int64, input drink.UpdateDrinkInput) (*drink.Drink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drinks[id]
	if !ok {
		return nil, apperrors.NotFound("drink not found")
	}
	if input.Title != nil {
		if m.titleTaken(*input.Title, id) {
			return nil, apperrors.Conflict("drink with this title already exists")
		}
		d.Title = *input.Title
	}
	if input.Recipe != nil {
		d.Recipe = input.Recipe
	}
	return d, nil
}

func (m *memoryDrinks) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.drinks[id]; !ok {
		return apperrors.NotFound("drink not found")
	}
	delete(m.drinks, id)
	return nil
}

type auditRecord struct {
	resourceID string
	action     audit.Action
	status     audit.Status
}

type recordingAudit struct {
	mu      sync.Mutex
	records []auditRecord
}

func (r *recordingAudit) LogFromContext(_ echo.Context, _ audit.ResourceType, resourceID string, action audit.Action, status audit.Status, _ map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, auditRecord{resourceID: resourceID, action: action, status: status})
}

func (r *recordingAudit) LogError(_ echo.Context, _ audit.ResourceType, resourceID string, action audit.Action, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, auditRecord{resourceID: resourceID, action: action, status: audit.StatusFailure})
}

func water() drink.Drink {
	return drink.Drink{Title: "water", Recipe: []drink.Ingredient{{Name: "water", Color: "blue", Parts: 1}}}
}

func newRequest(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func withID(c echo.Context, id string) echo.Context {
	c.SetParamNames(paramID)
	c.SetParamValues(id)
	return c
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	got, _ := MapToPublicError(err)
	assert.Equal(t, status, got)
}

func TestDrinkHandler_ListDrinks(t *testing.T) {
	h := NewDrinkHandler(newMemoryDrinks(water()), &recordingAudit{})

	c, rec := newRequest(http.MethodGet, "/drinks", "")
	require.NoError(t, h.ListDrinks(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"drinks":[{"id":1,"title":"water","recipe":[{"color":"blue","parts":1}]}]}`, rec.Body.String())
}

func TestDrinkHandler_ListDrinkDetails(t *testing.T) {
	h := NewDrinkHandler(newMemoryDrinks(water()), &recordingAudit{})

	c, rec := newRequest(http.MethodGet, "/drinks-detail", "")
	require.NoError(t, h.ListDrinkDetails(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"drinks":[{"id":1,"title":"water","recipe":[{"name":"water","color":"blue","parts":1}]}]}`, rec.Body.String())
}

func TestDrinkHandler_ListEmpty(t *testing.T) {
	h := NewDrinkHandler(newMemoryDrinks(), &recordingAudit{})

	c, rec := newRequest(http.MethodGet, "/drinks", "")
	require.NoError(t, h.ListDrinks(c))
	assert.JSONEq(t, `{"success":true,"drinks":[]}`, rec.Body.String())
}

func TestDrinkHandler_ListFailure(t *testing.T) {
	repo := newMemoryDrinks()
	repo.err = errors.New("connection reset")
	h := NewDrinkHandler(repo, &recordingAudit{})

	c, _ := newRequest(http.MethodGet, "/drinks", "")
	requireStatus(t, h.ListDrinks(c), http.StatusInternalServerError)
}

func TestDrinkHandler_CreateDrink(t *testing.T) {
	repo := newMemoryDrinks(water())
	auditLog := &recordingAudit{}
	h := NewDrinkHandler(repo, auditLog)

	c, rec := newRequest(http.MethodPost, "/drinks", `{"title":"matcha shake","recipe":[{"name":"milk","color":"grey","parts":1},{"name":"matcha","color":"green","parts":3}]}`)
	require.NoError(t, h.CreateDrink(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"drinks":[{"id":2,"title":"matcha shake","recipe":[{"name":"milk","color":"grey","parts":1},{"name":"matcha","color":"green","parts":3}]}]}`, rec.Body.String())
	assert.Equal(t, []auditRecord{{resourceID: "2", action: audit.ActionCreate, status: audit.StatusSuccess}}, auditLog.records)
}

func TestDrinkHandler_CreateDrinkSingleIngredient(t *testing.T) {
	h := NewDrinkHandler(newMemoryDrinks(), &recordingAudit{})

	c, rec := newRequest(http.MethodPost, "/drinks", `{"title":"tea","recipe":{"name":"tea","color":"brown","parts":2}}`)
	require.NoError(t, h.CreateDrink(c))

	var body longDrinksResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Drinks, 1)
	assert.Equal(t, []drink.Ingredient{{Name: "tea", Color: "brown", Parts: 2}}, body.Drinks[0].Recipe)
}

func TestDrinkHandler_CreateDrinkRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"title":`},
		{name: "missing title", body: `{"recipe":[{"name":"water","color":"blue","parts":1}]}`},
		{name: "missing recipe", body: `{"title":"water"}`},
		{name: "invalid ingredient", body: `{"title":"mud","recipe":[{"name":"mud","parts":1}]}`},
		{name: "recipe of wrong type", body: `{"title":"mud","recipe":"mud"}`},
		{name: "duplicate title", body: `{"title":"water","recipe":[{"name":"water","color":"blue","parts":1}]}`},
		{name: "trailing data", body: `{"title":"a","recipe":{"name":"a","color":"b","parts":1}} {}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewDrinkHandler(newMemoryDrinks(water()), &recordingAudit{})
			c, _ := newRequest(http.MethodPost, "/drinks", tt.body)
			requireStatus(t, h.CreateDrink(c), http.StatusUnprocessableEntity)
		})
	}

	t.Run("wrong content type", func(t *testing.T) {
		h := NewDrinkHandler(newMemoryDrinks(), &recordingAudit{})
		req := httptest.NewRequest(http.MethodPost, "/drinks", strings.NewReader(`{}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMETextPlain)
		c := echo.New().NewContext(req, httptest.NewRecorder())
		requireStatus(t, h.CreateDrink(c), http.StatusUnprocessableEntity)
	})
}

func TestDrinkHandler_UpdateDrink(t *testing.T) {
	repo := newMemoryDrinks(water())
	auditLog := &recordingAudit{}
	h := NewDrinkHandler(repo, auditLog)

	c, rec := newRequest(http.MethodPatch, "/drinks/1", `{"title":"sparkling water"}`)
	require.NoError(t, h.UpdateDrink(withID(c, "1")))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"drinks":[{"id":1,"title":"sparkling water","recipe":[{"name":"water","color":"blue","parts":1}]}]}`, rec.Body.String())
	assert.Equal(t, audit.StatusSuccess, auditLog.records[0].status)

	c, _ = newRequest(http.MethodPatch, "/drinks/1", `{"recipe":[{"name":"soda","color":"clear","parts":2}]}`)
	require.NoError(t, h.UpdateDrink(withID(c, "1")))

	stored, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "sparkling water", stored.Title)
	assert.Equal(t, []drink.Ingredient{{Name: "soda", Color: "clear", Parts: 2}}, stored.Recipe)
}

func TestDrinkHandler_UpdateDrinkErrors(t *testing.T) {
	repo := newMemoryDrinks(water())
	auditLog := &recordingAudit{}
	h := NewDrinkHandler(repo, auditLog)

	c, _ := newRequest(http.MethodPatch, "/drinks/99", `{"title":"ghost"}`)
	requireStatus(t, h.UpdateDrink(withID(c, "99")), http.StatusNotFound)
	assert.Equal(t, audit.StatusFailure, auditLog.records[0].status)

	c, _ = newRequest(http.MethodPatch, "/drinks/abc", `{"title":"ghost"}`)
	requireStatus(t, h.UpdateDrink(withID(c, "abc")), http.StatusNotFound)

	c, _ = newRequest(http.MethodPatch, "/drinks/1", `{}`)
	requireStatus(t, h.UpdateDrink(withID(c, "1")), http.StatusUnprocessableEntity)
}

func TestDrinkHandler_UpdateMissingDrinkIgnoresBody(t *testing.T) {
	h := NewDrinkHandler(newMemoryDrinks(water()), &recordingAudit{})

	for _, body := range []string{`{}`, `{"recipe":[]}`, `not json`} {
		c, _ := newRequest(http.MethodPatch, "/drinks/99", body)
		requireStatus(t, h.UpdateDrink(withID(c, "99")), http.StatusNotFound)
	}
}

func TestDrinkHandler_DeleteDrink(t *testing.T) {
	repo := newMemoryDrinks(water())
	auditLog := &recordingAudit{}
	h := NewDrinkHandler(repo, auditLog)

	c, rec := newRequest(http.MethodDelete, "/drinks/1", "")
	require.NoError(t, h.DeleteDrink(withID(c, "1")))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"delete":1}`, rec.Body.String())
	assert.Equal(t, []auditRecord{{resourceID: "1", action: audit.ActionDelete, status: audit.StatusSuccess}}, auditLog.records)

	c, _ = newRequest(http.MethodDelete, "/drinks/1", "")
	requireStatus(t, h.DeleteDrink(withID(c, "1")), http.StatusNotFound)

	c, _ = newRequest(http.MethodDelete, "/drinks/-1", "")
	requireStatus(t, h.DeleteDrink(withID(c, "-1")), http.StatusNotFound)
}

func TestMapToPublicError(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		message string
	}{
		{err: apperrors.NotFound("drink not found"), status: http.StatusNotFound, message: MsgNotFound},
		{err: apperrors.Conflict("dup"), status: http.StatusUnprocessableEntity, message: MsgUnprocessable},
		{err: apperrors.Unprocessable("bad"), status: http.StatusUnprocessableEntity, message: MsgUnprocessable},
		{err: echo.NewHTTPError(http.StatusBadRequest, "bad"), status: http.StatusBadRequest, message: MsgBadRequest},
		{err: apperrors.Unavailable("down", errors.New("dial")), status: http.StatusServiceUnavailable, message: MsgServiceUnavailable},
		{err: echo.ErrMethodNotAllowed, status: http.StatusMethodNotAllowed, message: MsgMethodNotAllowed},
		{err: echo.NewHTTPError(http.StatusRequestEntityTooLarge), status: http.StatusRequestEntityTooLarge, message: "request entity too large"},
		{err: errors.New("boom"), status: http.StatusInternalServerError, message: MsgServerError},
	}

	for _, tt := range tests {
		status, message := MapToPublicError(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
		assert.Equal(t, tt.message, message, tt.err.Error())
	}
}
