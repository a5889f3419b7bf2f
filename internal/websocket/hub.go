// Package websocket transmite os eventos das sessões de reordenação para os
// navegadores inscritos num tópico (o ID da sessão).
package websocket

import (
	"encoding/json"
	"sync"

	"shelfmap/internal/pkg/logger"
)

// Event é o envelope enviado aos clientes.
type Event struct {
	Type  string      `json:"type"`
	Topic string      `json:"topic"`
	Data  interface{} `json:"data,omitempty"`
}

// Hub mantém os clientes de cada tópico.
type Hub struct {
	mu     sync.RWMutex
	topics map[string]map[*Client]struct{}
	logger logger.Logger
	closed bool
}

// NewHub cria um hub vazio.
func NewHub(log logger.Logger) *Hub {
	return &Hub{
		topics: make(map[string]map[*Client]struct{}),
		logger: log,
	}
}

func (h *Hub) register(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	set, ok := h.topics[c.topic]
	if !ok {
		set = make(map[*Client]struct{})
		h.topics[c.topic] = set
	}
	set[c] = struct{}{}
	h.logger.Debug("Cliente websocket conectado.", map[string]interface{}{"topic": c.topic, "clients": len(set)})
	return true
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *Client) {
	set, ok := h.topics[c.topic]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.send)
	if len(set) == 0 {
		delete(h.topics, c.topic)
	}
}

// Publish envia o evento a todos os clientes do tópico. Clientes com o buffer cheio
// são desconectados. Devolve quantos clientes receberam.
func (h *Hub) Publish(topic, eventType string, data interface{}) int {
	msg, err := json.Marshal(Event{Type: eventType, Topic: topic, Data: data})
	if err != nil {
		h.logger.Error("Falha ao serializar evento websocket.", err)
		return 0
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := 0
	for c := range h.topics[topic] {
		select {
		case c.send <- msg:
			delivered++
		default:
			h.logger.Warn("Buffer do cliente websocket cheio; desconectando.", map[string]interface{}{"topic": topic})
			h.removeLocked(c)
		}
	}
	return delivered
}

// Clients devolve quantos clientes estão inscritos no tópico.
func (h *Hub) Clients(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

// CloseTopic desconecta todos os clientes de um tópico.
func (h *Hub) CloseTopic(topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.topics[topic] {
		h.removeLocked(c)
	}
}

// Close desconecta todos os clientes e recusa novos.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for _, set := range h.topics {
		for c := range set {
			h.removeLocked(c)
		}
	}
}
