package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boutique_back_end/internal/cart"
	"boutique_back_end/internal/models"
	"boutique_back_end/internal/store"
)

func setup(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	products := store.NewMemoryStore()
	p := &models.Product{
		ProductFields: models.ProductFields{Title: "Lamp", Price: 10},
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	require.NoError(t, products.Create(context.Background(), p))

	h := NewHandler(cart.NewService(cart.NewMemoryRepository(), cart.NewMemoryNotifier(), products), time.Hour)
	r := gin.New()
	g := r.Group("/api/cart", h.Session())
	g.GET("", h.Get)
	g.DELETE("", h.Clear)
	g.POST("/items", h.AddItem)
	g.DELETE("/items/:productId", h.RemoveItem)
	g.POST("/items/:productId/increase", h.IncreaseItem)
	g.POST("/items/:productId/decrease", h.DecreaseItem)
	g.GET("/ws", h.WebSocket)
	return r, p.ID
}

func do(r http.Handler, method, target, body, session string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if session != "" {
		req.Header.Set(SessionHeader, session)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func snapshot(t *testing.T, rec *httptest.ResponseRecorder) cart.Snapshot {
	t.Helper()
	var s cart.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	return s
}

func TestSessionCookieIssued(t *testing.T) {
	r, _ := setup(t)

	rec := do(r, http.MethodGet, "/api/cart", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), SessionCookie+"=")
	assert.Equal(t, 0, snapshot(t, rec).Count)
}

func TestCartFlow(t *testing.T) {
	r, productID := setup(t)
	body := `{"productId":"` + productID + `"}`

	rec := do(r, http.MethodPost, "/api/cart/items", body, "s1")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = do(r, http.MethodPost, "/api/cart/items", body, "s1")
	s := snapshot(t, rec)
	require.Len(t, s.Items, 1)
	assert.Equal(t, 2, s.Items[0].Quantity)
	assert.Equal(t, 20.0, s.Total)

	s = snapshot(t, do(r, http.MethodPost, "/api/cart/items/"+productID+"/increase", "", "s1"))
	assert.Equal(t, 3, s.Count)

	s = snapshot(t, do(r, http.MethodPost, "/api/cart/items/"+productID+"/decrease", "", "s1"))
	assert.Equal(t, 2, s.Count)

	assert.Equal(t, 0, snapshot(t, do(r, http.MethodGet, "/api/cart", "", "other")).Count)

	s = snapshot(t, do(r, http.MethodDelete, "/api/cart/items/"+productID, "", "s1"))
	assert.Empty(t, s.Items)

	do(r, http.MethodPost, "/api/cart/items", body, "s1")
	s = snapshot(t, do(r, http.MethodDelete, "/api/cart", "", "s1"))
	assert.Equal(t, 0, s.Count)
}

func TestAddItemErrors(t *testing.T) {
	r, _ := setup(t)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/cart/items", `{}`, "s1").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPost, "/api/cart/items", `{"productId":"nope"}`, "s1").Code)
}

func TestWebSocketPushesUpdates(t *testing.T) {
	r, productID := setup(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	header := http.Header{}
	header.Set(SessionHeader, "ws-session")
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/api/cart/ws", header)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var hello map[string]any
	require.NoError(t, conn.ReadJSON(&hello))
	assert.Equal(t, "connected", hello["type"])

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/cart/items", strings.NewReader(`{"productId":"`+productID+`"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SessionHeader, "ws-session")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	var update cart.Snapshot
	require.NoError(t, conn.ReadJSON(&update))
	assert.Equal(t, "cart_updated", update.Type)
	assert.Equal(t, 1, update.Count)
	assert.Equal(t, 10.0, update.Total)
}
