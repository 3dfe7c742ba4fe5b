package handler

import (
	"net/http"
	"testing"

	"github.com/yerinlee/dinepos/internal/model"
	"github.com/yerinlee/dinepos/internal/repository"
)

func TestMenuUpsertRequiresName(t *testing.T) {
	h := NewMenuHandler(&fakeMenuAdminStore{})
	c, rec := newTestContext(t, http.MethodPost, "/v1/menu", `{"price":9000}`)
	if err := h.Upsert(c); err != nil {
		t.Fatal(err)
	}
	wantStatus(t, rec, http.StatusBadRequest)
}

func TestMenuUpsertCreatesWhenIDAbsent(t *testing.T) {
	var got *model.MenuItem
	menu := &fakeMenuAdminStore{upsert: func(m *model.MenuItem) (uint64, error) {
		got = m
		return 77, nil
	}}
	h := NewMenuHandler(menu)

	c, rec := newTestContext(t, http.MethodPost, "/v1/menu", `{"name":"Makgeolli","price":6000,"station":"bar"}`)
	if err := h.Upsert(c); err != nil {
		t.Fatal(err)
	}
	wantStatus(t, rec, http.StatusOK)
	if got == nil || got.ID != 0 || got.RestaurantID != testRestaurantID {
		t.Fatalf("upsert row = %+v", got)
	}
	if !got.IsAvailable {
		t.Error("new items should default to available")
	}
	if got.Station != "bar" {
		t.Errorf("station should be stored raw, got %q", got.Station)
	}
	body := decodeBody(t, rec)
	if body["id"] != float64(77) {
		t.Errorf("body = %v", body)
	}
}

func TestMenuUpsertUpdatesExistingItem(t *testing.T) {
	menu := &fakeMenuAdminStore{upsert: func(m *model.MenuItem) (uint64, error) {
		if m.ID != 3 {
			t.Errorf("id = %d", m.ID)
		}
		if m.IsAvailable {
			t.Error("is_available should be preserved as sent")
		}
		return m.ID, nil
	}}
	h := NewMenuHandler(menu)

	c, rec := newTestContext(t, http.MethodPost, "/v1/menu", `{"id":3,"name":"Bibimbap","price":13000,"is_available":false}`)
	if err := h.Upsert(c); err != nil {
		t.Fatal(err)
	}
	wantStatus(t, rec, http.StatusOK)
}

func TestMenuUpsertUnknownItem(t *testing.T) {
	menu := &fakeMenuAdminStore{upsert: func(m *model.MenuItem) (uint64, error) {
		return 0, repository.ErrMenuItemNotFound
	}}
	h := NewMenuHandler(menu)

	c, rec := newTestContext(t, http.MethodPost, "/v1/menu", `{"id":99,"name":"Gone","price":100}`)
	if err := h.Upsert(c); err != nil {
		t.Fatal(err)
	}
	wantStatus(t, rec, http.StatusNotFound)
}

func TestMenuSetAvailability(t *testing.T) {
	var gotID uint64
	var gotAvailable bool
	menu := &fakeMenuAdminStore{setAvailability: func(rid, id uint64, available bool) error {
		gotID = id
		gotAvailable = available
		return nil
	}}
	h := NewMenuHandler(menu)

	c, rec := newTestContext(t, http.MethodPost, "/v1/menu/4/availability", `{"available":false}`)
	c.SetParamNames("id")
	c.SetParamValues("4")
	if err := h.SetAvailability(c); err != nil {
		t.Fatal(err)
	}
	wantStatus(t, rec, http.StatusOK)
	if gotID != 4 || gotAvailable {
		t.Errorf("id=%d available=%v", gotID, gotAvailable)
	}
}

func TestMenuDeleteConflictsWhenOrdered(t *testing.T) {
	menu := &fakeMenuAdminStore{delete: func(rid, id uint64) error {
		return repository.ErrMenuItemInUse
	}}
	h := NewMenuHandler(menu)

	c, rec := newTestContext(t, http.MethodDelete, "/v1/menu/4", "")
	c.SetParamNames("id")
	c.SetParamValues("4")
	if err := h.Delete(c); err != nil {
		t.Fatal(err)
	}
	wantStatus(t, rec, http.StatusConflict)
}

func TestMenuDeleteRemovesUnorderedItem(t *testing.T) {
	deleted := false
	menu := &fakeMenuAdminStore{delete: func(rid, id uint64) error {
		if rid != testRestaurantID || id != 6 {
			t.Errorf("rid=%d id=%d", rid, id)
		}
		deleted = true
		return nil
	}}
	h := NewMenuHandler(menu)

	c, rec := newTestContext(t, http.MethodDelete, "/v1/menu/6", "")
	c.SetParamNames("id")
	c.SetParamValues("6")
	if err := h.Delete(c); err != nil {
		t.Fatal(err)
	}
	wantStatus(t, rec, http.StatusOK)
	if !deleted {
		t.Error("delete not called")
	}
}

func TestMenuListIncludesSoldOut(t *testing.T) {
	menu := &fakeMenuAdminStore{list: func(rid uint64) ([]model.MenuItem, error) {
		return []model.MenuItem{
			{ID: 1, Name: "Soup", IsAvailable: true},
			{ID: 2, Name: "Cake", IsAvailable: false},
		}, nil
	}}
	h := NewMenuHandler(menu)

	c, rec := newTestContext(t, http.MethodGet, "/v1/menu", "")
	if err := h.List(c); err != nil {
		t.Fatal(err)
	}
	wantStatus(t, rec, http.StatusOK)
	body := decodeBody(t, rec)
	items, ok := body["items"].([]any)
	if !ok || len(items) != 2 {
		t.Fatalf("items = %v", body["items"])
	}
}
