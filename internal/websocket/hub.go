package websocket

import (
	"context"
	"log"
	"net/http"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"crewclock-backend/internal/models"
	"crewclock-backend/internal/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub fans Redis clock updates out to connected clients. Workers listen on
// their own channel (their weekly timesheet); supervisors share the board
// channel. Each channel's pub/sub subscription lives only while someone is
// connected to it.
type Hub struct {
	mu          sync.RWMutex
	connections map[string][]*websocket.Conn
	redisClient *redis.Client
	jwtSecret   []byte
	cancelFuncs map[string]context.CancelFunc
}

func NewHub(redisClient *redis.Client, jwtSecret string) *Hub {
	return &Hub{
		connections: make(map[string][]*websocket.Conn),
		redisClient: redisClient,
		jwtSecret:   []byte(jwtSecret),
		cancelFuncs: make(map[string]context.CancelFunc),
	}
}

func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	// Authenticate via token query param
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return h.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userIDStr, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	role, _ := claims["role"].(string)
	channel := services.WorkerChannel(userID)
	if role == models.RoleSupervisor {
		channel = services.SupervisorChannel
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	h.registerConnection(channel, conn)

	// Keep connection alive and handle disconnect
	go func() {
		defer h.unregisterConnection(channel, conn)
		for {
			_, _, err := conn.ReadMessage()
			if err != nil {
				break
			}
		}
	}()
}

func (h *Hub) registerConnection(channel string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.connections[channel] = append(h.connections[channel], conn)

	// Start pub/sub subscription on the first connection for this channel
	if len(h.connections[channel]) == 1 {
		ctx, cancel := context.WithCancel(context.Background())
		h.cancelFuncs[channel] = cancel
		go h.subscribeToPubSub(ctx, channel)
	}

	log.Printf("WebSocket connected: %s (total: %d)", channel, len(h.connections[channel]))
}

func (h *Hub) unregisterConnection(channel string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn.Close()

	conns := h.connections[channel]
	for i, c := range conns {
		if c == conn {
			h.connections[channel] = append(conns[:i], conns[i+1:]...)
			break
		}
	}

	// If no more connections, cancel pub/sub
	if len(h.connections[channel]) == 0 {
		delete(h.connections, channel)
		if cancel, ok := h.cancelFuncs[channel]; ok {
			cancel()
			delete(h.cancelFuncs, channel)
		}
	}

	log.Printf("WebSocket disconnected: %s", channel)
}

func (h *Hub) subscribeToPubSub(ctx context.Context, channel string) {
	pubsub := h.redisClient.Subscribe(ctx, channel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast(channel, []byte(msg.Payload))
		}
	}
}

func (h *Hub) broadcast(channel string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, conn := range h.connections[channel] {
		conn.WriteMessage(websocket.TextMessage, data)
	}
}
