package websocket

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/Krimson/reelspin/internal/spin"
	"github.com/Krimson/reelspin/machine/internal/engine"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	MessageTypeFrame = "frame"

	writeWait = 10 * time.Second
)

// Hub управляет WebSocket соединениями рендереров
type Hub struct {
	// Зарегистрированные клиенты
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan outgoing
	done       chan struct{}

	mu sync.RWMutex

	// Каждый N-й кадр уходит клиентам
	frameEvery uint64
	frameCount atomic.Uint64

	logger *zap.SugaredLogger
}

// Client представляет WebSocket клиента
type Client struct {
	hub *Hub

	conn *websocket.Conn

	// Буферизованный канал исходящих сообщений
	send chan []byte

	// false - клиент получает только события вращения
	wantFrames bool
}

// Message сообщение для рендерера
type Message struct {
	Type  string        `json:"type"`
	Frame *spin.Frame   `json:"frame,omitempty"`
	Event *engine.Event `json:"event,omitempty"`
}

type outgoing struct {
	payload []byte
	isFrame bool
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Рендереры подключаются с любых доменов
		return true
	},
}

// NewHub создаёт новый Hub
func NewHub(frameEvery int, logger *zap.SugaredLogger) *Hub {
	if frameEvery < 1 {
		frameEvery = 1
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan outgoing, 256),
		done:       make(chan struct{}),
		frameEvery: uint64(frameEvery),
		logger:     logger,
	}
}

// Run обслуживает регистрацию и рассылку до отмены контекста
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Infof("[WEBSOCKET] Client registered: %p, frames: %t", client, client.wantFrames)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			h.logger.Infof("[WEBSOCKET] Client unregistered: %p", client)

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				if message.isFrame && !client.wantFrames {
					continue
				}
				select {
				case client.send <- message.payload:
				default:
					// Клиент не успевает читать
					delete(h.clients, client)
					close(client.send)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
	}
}

// ClientCount количество подключённых клиентов
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// PublishFrame рассылает кадр движка
func (h *Hub) PublishFrame(frame spin.Frame) {
	if h.frameCount.Add(1)%h.frameEvery != 0 || h.ClientCount() == 0 {
		return
	}
	h.send(Message{Type: MessageTypeFrame, Frame: &frame}, true)
}

// HandleEvent рассылает событие старта или завершения вращения
func (h *Hub) HandleEvent(ctx context.Context, event engine.Event) {
	h.send(Message{Type: string(event.Type), Event: &event}, false)
}

func (h *Hub) send(msg Message, isFrame bool) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Errorf("[ERROR] Failed to marshal %s message: %v", msg.Type, err)
		return
	}

	select {
	case h.broadcast <- outgoing{payload: payload, isFrame: isFrame}:
	default:
		h.logger.Warnf("[WARN] Broadcast channel full, dropping %s message", msg.Type)
	}
}

// HandleWebSocket обрабатывает WebSocket соединения
// GET /ws?frames=false
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Errorf("[ERROR] Failed to upgrade connection: %v", err)
		return
	}

	client := &Client{
		hub:        h,
		conn:       conn,
		send:       make(chan []byte, 256),
		wantFrames: r.URL.Query().Get("frames") != "false",
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	// Запускаем горутины для клиента
	go client.writePump()
	go client.readPump()
}

// readPump читает до закрытия соединения, входящие сообщения игнорируются
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Errorf("[ERROR] WebSocket error: %v", err)
			}
			return
		}
	}
}

// writePump отправляет сообщения клиенту
func (c *Client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			c.hub.logger.Errorf("[ERROR] Failed to write message: %v", err)
			return
		}
	}

	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
