package cart

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"boutique_back_end/internal/cart"
	"boutique_back_end/internal/store"
)

const (
	SessionHeader = "X-Session-ID"
	SessionCookie = "cart_session"
	sessionKey    = "cart_session"
)

var pingInterval = 30 * time.Second

type Handler struct {
	carts     *cart.Service
	cookieTTL time.Duration
	upgrader  websocket.Upgrader
}

func NewHandler(carts *cart.Service, cookieTTL time.Duration) *Handler {
	return &Handler{
		carts:     carts,
		cookieTTL: cookieTTL,
		upgrader: websocket.Upgrader{
			// Les origines sont déjà filtrées par le middleware CORS.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Session identifie le panier : en-tête X-Session-ID, sinon cookie
// cart_session, sinon un nouvel identifiant posé en cookie.
func (h *Handler) Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(SessionHeader)
		if id == "" {
			id, _ = c.Cookie(SessionCookie)
		}
		if id == "" {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, id, int(h.cookieTTL.Seconds()), "/", "", false, true)
		}
		c.Set(sessionKey, id)
		c.Next()
	}
}

// SessionID renvoie l'identifiant posé par Session.
func SessionID(c *gin.Context) string {
	return c.GetString(sessionKey)
}

type addItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

func (h *Handler) Get(c *gin.Context) {
	ct, err := h.carts.Get(c.Request.Context(), SessionID(c))
	h.respond(c, ct, err)
}

func (h *Handler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId is required"})
		return
	}
	ct, err := h.carts.Add(c.Request.Context(), SessionID(c), req.ProductID)
	h.respond(c, ct, err)
}

func (h *Handler) RemoveItem(c *gin.Context) {
	ct, err := h.carts.Remove(c.Request.Context(), SessionID(c), c.Param("productId"))
	h.respond(c, ct, err)
}

func (h *Handler) IncreaseItem(c *gin.Context) {
	ct, err := h.carts.Increase(c.Request.Context(), SessionID(c), c.Param("productId"))
	h.respond(c, ct, err)
}

func (h *Handler) DecreaseItem(c *gin.Context) {
	ct, err := h.carts.Decrease(c.Request.Context(), SessionID(c), c.Param("productId"))
	h.respond(c, ct, err)
}

func (h *Handler) Clear(c *gin.Context) {
	ct, err := h.carts.Clear(c.Request.Context(), SessionID(c))
	h.respond(c, ct, err)
}

func (h *Handler) respond(c *gin.Context, ct *cart.Cart, err error) {
	if errors.Is(err, store.ErrProductNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		log.Printf("❌ Panier %s : %v", SessionID(c), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cart unavailable"})
		return
	}
	c.JSON(http.StatusOK, ct.Snapshot())
}

// WebSocket pousse l'état du panier à chaque changement publié sur cart:<session>.
func (h *Handler) WebSocket(c *gin.Context) {
	id := SessionID(c)
	ctx := c.Request.Context()

	events, cancel, err := h.carts.Subscribe(ctx, id)
	if err != nil {
		log.Printf("❌ Abonnement panier %s : %v", id, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Cart sync unavailable"})
		return
	}
	defer cancel()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Erreur upgrade WebSocket: %v", err)
		return
	}
	defer conn.Close()

	// Lecture en tâche de fond pour détecter la fermeture côté client.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	conn.WriteJSON(gin.H{"type": "connected", "message": "Cart sync enabled"})

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if event != cart.EventUpdated && event != cart.EventCleared {
				continue
			}
			ct, err := h.carts.Get(ctx, id)
			if err != nil {
				log.Printf("⚠️ Lecture panier %s pour WebSocket : %v", id, err)
				continue
			}
			snap := ct.Snapshot()
			snap.Type = "cart_updated"
			if err := conn.WriteJSON(snap); err != nil {
				log.Printf("❌ Erreur envoi WebSocket: %v", err)
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}
