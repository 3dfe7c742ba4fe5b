package handler

import (
	"net/http"
	"testing"

	"github.com/yerinlee/dinepos/internal/model"
	"github.com/yerinlee/dinepos/internal/repository"
)

func TestMarkEmptyRequiresTableID(t *testing.T) {
	h := NewTableHandler(&fakeTableStore{}, &fakeTicketStore{}, &fakePublisher{})
	c, rec := newTestContext(t, http.MethodPost, "/v1/tables/mark-empty", `{}`)
	if err := h.MarkEmpty(c); err != nil {
		t.Fatal(err)
	}
	wantStatus(t, rec, http.StatusBadRequest)
	body := decodeBody(t, rec)
	if body["success"] != false {
		t.Errorf("body = %v", body)
	}
}

func TestMarkEmptyCompletesTicketAndFreesTable(t *testing.T) {
	var completedTable, freedTable uint64
	tickets := &fakeTicketStore{completeActive: func(rid, tableID uint64) (int64, error) {
		completedTable = tableID
		return 1, nil
	}}
	tables := &fakeTableStore{setStatus: func(rid, id uint64, status model.TableStatus) error {
		if status != model.TableEmpty {
			t.Errorf("status = %s", status)
		}
		freedTable = id
		return nil
	}}
	h := NewTableHandler(tables, tickets, &fakePublisher{})

	c, rec := newTestContext(t, http.MethodPost, "/v1/tables/mark-empty", `{"table_id":5}`)
	if err := h.MarkEmpty(c); err != nil {
		t.Fatal(err)
	}
	wantStatus(t, rec, http.StatusOK)
	if completedTable != 5 || freedTable != 5 {
		t.Errorf("completed=%d freed=%d", completedTable, freedTable)
	}
	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Errorf("body = %v", body)
	}
}

func TestMarkEmptyKeepsSuccessShapeOnStoreFailure(t *testing.T) {
	tables := &fakeTableStore{setStatus: func(rid, id uint64, status model.TableStatus) error {
		return repository.ErrTableNotFound
	}}
	h := NewTableHandler(tables, &fakeTicketStore{}, &fakePublisher{})

	c, rec := newTestContext(t, http.MethodPost, "/v1/tables/mark-empty", `{"table_id":5}`)
	if err := h.MarkEmpty(c); err != nil {
		t.Fatal(err)
	}
	wantStatus(t, rec, http.StatusNotFound)
	body := decodeBody(t, rec)
	if body["success"] != false {
		t.Errorf("body = %v", body)
	}
	if _, ok := body["ok"]; ok {
		t.Errorf("unexpected ok field: %v", body)
	}
}

func TestSeatOpensTicketWhenNoneActive(t *testing.T) {
	tickets := &fakeTicketStore{
		hasActive: func(rid, tableID uint64) (bool, error) { return false, nil },
		create: func(rid, tableID uint64, channel model.Channel) (*model.OrderTicket, error) {
			if channel != model.ChannelDineIn {
				t.Errorf("channel = %s", channel)
			}
			return &model.OrderTicket{ID: 9, TableID: tableID, Status: model.TicketOpen, Channel: channel}, nil
		},
	}
	h := NewTableHandler(&fakeTableStore{}, tickets, &fakePublisher{})

	c, rec := newTestContext(t, http.MethodPost, "/v1/tables/3/seat", "")
	c.SetParamNames("id")
	c.SetParamValues("3")
	if err := h.Seat(c); err != nil {
		t.Fatal(err)
	}
	wantStatus(t, rec, http.StatusOK)
}

func TestSeatReusesActiveTicket(t *testing.T) {
	tickets := &fakeTicketStore{
		hasActive: func(rid, tableID uint64) (bool, error) { return true, nil },
		create: func(rid, tableID uint64, channel model.Channel) (*model.OrderTicket, error) {
			t.Fatal("a seated table with an active ticket must not get a second one")
			return nil, nil
		},
	}
	h := NewTableHandler(&fakeTableStore{}, tickets, &fakePublisher{})

	c, rec := newTestContext(t, http.MethodPost, "/v1/tables/3/seat", "")
	c.SetParamNames("id")
	c.SetParamValues("3")
	if err := h.Seat(c); err != nil {
		t.Fatal(err)
	}
	wantStatus(t, rec, http.StatusOK)
}

func TestMarkCleanConflictsWhenNotDirty(t *testing.T) {
	tables := &fakeTableStore{markClean: func(rid, id uint64) (bool, error) { return false, nil }}
	h := NewTableHandler(tables, &fakeTicketStore{}, &fakePublisher{})

	c, rec := newTestContext(t, http.MethodPost, "/v1/tables/3/clean", "")
	c.SetParamNames("id")
	c.SetParamValues("3")
	if err := h.MarkClean(c); err != nil {
		t.Fatal(err)
	}
	wantStatus(t, rec, http.StatusConflict)
}

func TestEnsureTokenReturnsExisting(t *testing.T) {
	tok := "existing-token"
	tables := &fakeTableStore{
		getByToken: func(rid uint64, token string) (*model.DiningTable, error) {
			return nil, repository.ErrTableNotFound
		},
		getByID: func(rid, id uint64) (*model.DiningTable, error) {
			return &model.DiningTable{ID: id, Token: &tok}, nil
		},
		setToken: func(rid, id uint64, token string) error {
			t.Fatal("an existing token must not be replaced")
			return nil
		},
	}
	h := NewTableHandler(tables, &fakeTicketStore{}, &fakePublisher{})

	c, rec := newTestContext(t, http.MethodPost, "/v1/table/token", `{"table_id":"5"}`)
	if err := h.EnsureToken(c); err != nil {
		t.Fatal(err)
	}
	wantStatus(t, rec, http.StatusOK)
	body := decodeBody(t, rec)
	if body["token"] != tok {
		t.Errorf("token = %v", body["token"])
	}
}

func TestEnsureTokenMintsWhenMissing(t *testing.T) {
	var saved string
	tables := &fakeTableStore{
		getByToken: func(rid uint64, token string) (*model.DiningTable, error) {
			return nil, repository.ErrTableNotFound
		},
		getByID: func(rid, id uint64) (*model.DiningTable, error) {
			return &model.DiningTable{ID: id}, nil
		},
		setToken: func(rid, id uint64, token string) error {
			saved = token
			return nil
		},
	}
	h := NewTableHandler(tables, &fakeTicketStore{}, &fakePublisher{})

	c, rec := newTestContext(t, http.MethodPost, "/v1/table/token", `{"table_id":"5"}`)
	if err := h.EnsureToken(c); err != nil {
		t.Fatal(err)
	}
	wantStatus(t, rec, http.StatusOK)
	body := decodeBody(t, rec)
	if saved == "" || body["token"] != saved {
		t.Errorf("minted token not persisted and returned: %q vs %v", saved, body["token"])
	}
}

func TestEnsureTokenUnresolvableTable(t *testing.T) {
	tables := &fakeTableStore{
		getByToken: func(rid uint64, token string) (*model.DiningTable, error) {
			return nil, repository.ErrTableNotFound
		},
		getByID: func(rid, id uint64) (*model.DiningTable, error) {
			return nil, repository.ErrTableNotFound
		},
		getByLabel: func(rid uint64, label string) (*model.DiningTable, error) {
			return nil, repository.ErrTableNotFound
		},
	}
	h := NewTableHandler(tables, &fakeTicketStore{}, &fakePublisher{})

	c, rec := newTestContext(t, http.MethodPost, "/v1/table/token", `{"table_id":"ghost"}`)
	if err := h.EnsureToken(c); err != nil {
		t.Fatal(err)
	}
	wantStatus(t, rec, http.StatusInternalServerError)
}

func TestEnsureAllTokensBackfills(t *testing.T) {
	minted := map[uint64]string{}
	tables := &fakeTableStore{
		listMissingToken: func(rid uint64) ([]uint64, error) { return []uint64{2, 4}, nil },
		setToken: func(rid, id uint64, token string) error {
			minted[id] = token
			return nil
		},
	}
	h := NewTableHandler(tables, &fakeTicketStore{}, &fakePublisher{})

	c, rec := newTestContext(t, http.MethodPost, "/v1/table/token/all", "")
	if err := h.EnsureAllTokens(c); err != nil {
		t.Fatal(err)
	}
	wantStatus(t, rec, http.StatusOK)
	if len(minted) != 2 || minted[2] == minted[4] {
		t.Errorf("minted = %v", minted)
	}
	body := decodeBody(t, rec)
	if body["created"] != float64(2) {
		t.Errorf("created = %v", body["created"])
	}
}
