package client

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// StreamConnection is a handle over a self-reconnecting websocket reader.
type StreamConnection struct {
	mutex      sync.Mutex
	connection *websocket.Conn
	closed     bool
}

func (c *StreamConnection) Close() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.closed = true
	if c.connection != nil {
		_ = c.connection.Close()
	}
}

func (c *StreamConnection) IsClosed() bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.closed
}

func (c *StreamConnection) setConnection(connection *websocket.Conn) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.connection = connection
}

// Listen dials a stream endpoint and pumps raw messages into eventChannel.
// The address is resolved again before every dial so that expiring
// endpoints (listen keys) stay valid across reconnects. onConnect fires
// after every successful dial, including the first one. The reader stops
// only when the returned handle is closed.
func Listen(resolveAddress func() string, eventChannel chan<- []byte, onConnect func()) *StreamConnection {
	handle := &StreamConnection{}

	go func() {
		for {
			if handle.IsClosed() {
				return
			}

			address := resolveAddress()
			connection, _, err := websocket.DefaultDialer.Dial(address, nil)
			if err != nil {
				log.Printf("Binance WS [%s]: %s, wait and reconnect...", address, err.Error())
				time.Sleep(time.Second * 3)
				continue
			}

			handle.setConnection(connection)
			if handle.IsClosed() {
				_ = connection.Close()
				return
			}

			onConnect()

			for {
				_, message, err := connection.ReadMessage()
				if err != nil {
					if handle.IsClosed() {
						return
					}

					log.Printf("Binance WS, read: %s, wait and reconnect...", err.Error())
					_ = connection.Close()
					time.Sleep(time.Second * 3)
					break
				}

				eventChannel <- message
			}
		}
	}()

	return handle
}
