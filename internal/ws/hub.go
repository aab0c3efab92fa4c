// Package ws доставляет события подключённым клиентам по WebSocket.
package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/ignatzorin/skillswap-backend/internal/logger"
	"github.com/sirupsen/logrus"
)

const broadcastBuffer = 256

// Hub управляет всеми WebSocket клиентами.
type Hub struct {
	mu         sync.RWMutex
	clients    map[uuid.UUID]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan message
	done       chan struct{}
	log        *logrus.Entry
}

type message struct {
	userID  uuid.UUID
	payload []byte
}

// envelope - формат сообщения для клиента: type содержит имя события, data - полезную нагрузку.
type envelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, broadcastBuffer),
		done:       make(chan struct{}),
		log:        logger.Component("ws-hub"),
	}
}

// Run - главный цикл хаба. Единственный владелец изменений карты клиентов.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			close(h.done)
			return
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case msg := <-h.broadcast:
			h.send(msg.userID, msg.payload)
		}
	}
}

// Register и Unregister не блокируются после остановки хаба.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Push ставит событие в очередь доставки и никогда не блокирует вызывающего:
// при переполненной очереди событие отбрасывается. Уведомление уже сохранено в БД,
// клиент получит его при следующей загрузке.
func (h *Hub) Push(userID uuid.UUID, event string, data interface{}) {
	raw, err := json.Marshal(envelope{Type: event, Data: data})
	if err != nil {
		h.log.WithError(err).WithField("event", event).Error("Не удалось сериализовать сообщение")
		return
	}
	select {
	case h.broadcast <- message{userID: userID, payload: raw}:
	default:
		h.log.WithFields(logrus.Fields{"user_id": userID, "event": event}).Warn("Очередь WebSocket переполнена, событие отброшено")
	}
}

// Online сообщает, есть ли у пользователя активные подключения.
func (h *Hub) Online(userID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]struct{})
	}
	h.clients[client.userID][client] = struct{}{}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.clients, client.userID)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, clients := range h.clients {
		for client := range clients {
			close(client.send)
		}
		delete(h.clients, userID)
	}
}

func (h *Hub) send(userID uuid.UUID, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.clients[userID]
	for client := range clients {
		select {
		case client.send <- payload:
		default:
			// медленный клиент: отключаем, writePump закроет соединение
			delete(clients, client)
			close(client.send)
			h.log.WithField("user_id", userID).Warn("Клиент не успевает читать, соединение закрыто")
		}
	}
	if len(clients) == 0 {
		delete(h.clients, userID)
	}
}
