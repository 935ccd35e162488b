package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"menuboard/internal/model"
	ws "menuboard/internal/websocket"
)

func newItemEnv(t *testing.T) (*handlerEnv, *ItemHandler, *model.Section) {
	t.Helper()
	env := newHandlerEnv(t)
	h := NewItemHandler(env.editors, env.gateway.Items, env.hub, discardLogger())

	sec, err := env.editors.Session(env.userID).AddSection("Mains")
	if err != nil {
		t.Fatalf("add section: %v", err)
	}
	return env, h, sec
}

func TestItemCreate(t *testing.T) {
	env, h, sec := newItemEnv(t)

	body := `{"name":"Burger","price":"12.50","description":"classic","tags":"beef, popular","is_featured":true,"visible":true}`
	req := env.request("POST", "/api/sections/"+strconv.FormatInt(sec.ID, 10)+"/items", body)
	req.SetPathValue("section_id", strconv.FormatInt(sec.ID, 10))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var item model.Item
	if err := json.NewDecoder(rec.Body).Decode(&item); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if item.Name != "Burger" || item.Price != 12.5 || !item.IsFeatured {
		t.Errorf("item = %+v", item)
	}
	if len(item.Tags) != 2 || item.Tags[0] != "beef" || item.Tags[1] != "popular" {
		t.Errorf("tags = %v", item.Tags)
	}
}

func TestItemCreateNumericPrice(t *testing.T) {
	env, h, sec := newItemEnv(t)

	req := env.request("POST", "/x", `{"name":"Soup","price":6.25,"visible":true}`)
	req.SetPathValue("section_id", strconv.FormatInt(sec.ID, 10))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var item model.Item
	json.NewDecoder(rec.Body).Decode(&item)
	if item.Price != 6.25 {
		t.Errorf("price = %v", item.Price)
	}
}

func TestItemCreateRejectsEmptyName(t *testing.T) {
	env, h, sec := newItemEnv(t)

	req := env.request("POST", "/x", `{"name":"","price":"5"}`)
	req.SetPathValue("section_id", strconv.FormatInt(sec.ID, 10))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestItemUpdate(t *testing.T) {
	env, h, sec := newItemEnv(t)

	sess := env.editors.Session(env.userID)
	item, err := sess.AddItem(sec.ID, itemRequest{Name: "Fries", Price: "4", Visible: true}.input())
	if err != nil {
		t.Fatalf("add item: %v", err)
	}

	req := env.request("PUT", "/x", `{"name":"Loaded Fries","price":"6.00","is_trending":true,"visible":true}`)
	req.SetPathValue("id", strconv.FormatInt(item.ID, 10))
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	stored, err := env.gateway.Items.GetByID(item.ID)
	if err != nil || stored == nil {
		t.Fatalf("get item: %v", err)
	}
	if stored.Name != "Loaded Fries" || stored.Price != 6 || !stored.IsTrending {
		t.Errorf("item after update = %+v", stored)
	}
}

func TestItemUpdateNotFound(t *testing.T) {
	env, h, _ := newItemEnv(t)

	req := env.request("PUT", "/x", `{"name":"ghost","price":"1"}`)
	req.SetPathValue("id", "9999")
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestItemDeletePublishesSectionTopic(t *testing.T) {
	env, h, sec := newItemEnv(t)

	sess := env.editors.Session(env.userID)
	item, err := sess.AddItem(sec.ID, itemRequest{Name: "Toast", Price: "3", Visible: true}.input())
	if err != nil {
		t.Fatalf("add item: %v", err)
	}

	sub := env.hub.Subscribe(ws.Topic("menu_items", "section_id", sec.ID))
	defer sub.Close()

	req := env.request("DELETE", "/x", "")
	req.SetPathValue("id", strconv.FormatInt(item.ID, 10))
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}

	select {
	case msg := <-sub.C:
		if msg.Type != "item_deleted" || msg.ID != item.ID {
			t.Errorf("message = %+v", msg)
		}
	default:
		t.Error("expected a change notification on the section topic")
	}

	if stored, _ := env.gateway.Items.GetByID(item.ID); stored != nil {
		t.Error("item should be deleted")
	}
}
