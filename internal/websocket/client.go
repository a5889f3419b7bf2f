package websocket

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Tempo para escrever uma mensagem ao cliente.
	writeWait = 10 * time.Second

	// Tempo para receber o próximo pong.
	pongWait = 60 * time.Second

	// Período dos pings. Precisa ser menor que pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Os clientes só escutam; mensagens deles são descartadas.
	maxMessageSize = 4 * 1024

	sendBuffer = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// A origem já é filtrada pelo CORS e pelo token na rota.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client liga uma conexão websocket a um tópico do hub.
type Client struct {
	hub   *Hub
	conn  *websocket.Conn
	send  chan []byte
	topic string
}

// readPump só mantém o deadline com os pongs e detecta a desconexão.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("Conexão websocket encerrada com erro.", map[string]interface{}{"topic": c.topic, "error": err.Error()})
			}
			return
		}
	}
}

// writePump envia as mensagens do hub e os pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWs faz o upgrade e inscreve o cliente no tópico. initial, se não nil,
// é enviado logo após a inscrição.
func ServeWs(hub *Hub, topic string, initial *Event, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.logger.Error("Falha no upgrade websocket.", err)
		return
	}

	client := &Client{hub: hub, conn: conn, send: make(chan []byte, sendBuffer), topic: topic}
	if !hub.register(client) {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "desligando"))
		conn.Close()
		return
	}
	if initial != nil {
		hub.Publish(topic, initial.Type, initial.Data)
	}

	go client.writePump()
	go client.readPump()
}
