package ws

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

type messageInfo struct {
	msg             []byte
	needCompression bool
}

// Client wraps a websocket connection with one reader and one writer
// goroutine. Inbound text frames arrive on R; outbound frames go through
// Write. All network I/O happens on the two goroutines, so callers never
// block on a slow peer.
type Client struct {
	Conn *websocket.Conn
	R    chan []byte
	W    chan messageInfo

	closeOnce sync.Once
	writeOnce sync.Once
}

func NewClient(conn *websocket.Conn) *Client {
	if conn == nil {
		return nil
	}

	c := &Client{
		Conn: conn,
		R:    make(chan []byte, 128),
		W:    make(chan messageInfo, 128),
	}

	go c.runReader()
	go c.runWriter()
	return c
}

func (c *Client) runReader() {
	defer close(c.R)

	for {
		t, msg, err := c.Conn.ReadMessage()
		if err != nil {
			return
		}

		switch t {
		case websocket.CloseMessage:
			return

		case websocket.TextMessage:
			c.R <- msg

		case websocket.BinaryMessage:
			origin, err := Decompress(msg)
			if err != nil {
				continue
			}
			c.R <- origin
		}
	}
}

func (c *Client) runWriter() {
	defer c.stopWriter()

	for info := range c.W {
		msg := info.msg
		t := websocket.TextMessage
		if info.needCompression {
			var err error
			msg, err = Compress(info.msg)
			if err != nil {
				continue
			}
			t = websocket.BinaryMessage
		}

		c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.Conn.WriteMessage(t, msg); err != nil {
			break
		}
	}
}

// stopWriter closes W exactly once. Closing W wakes any Write blocked on a
// full buffer, so a dead peer cannot stall callers holding room locks.
func (c *Client) stopWriter() {
	c.writeOnce.Do(func() { close(c.W) })
	c.Conn.Close()
}

func (c *Client) Write(msg []byte, needCompression bool) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New("connection is closed")
		}
	}()

	c.W <- messageInfo{msg: msg, needCompression: needCompression}
	return nil
}

// Close sends a close frame with the given code and reason, then tears the
// connection down. It is safe to call more than once.
func (c *Client) Close(code int, reason string) error {
	var err error
	c.closeOnce.Do(func() {
		deadline := time.Now().Add(writeWait)
		c.Conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(code, reason), deadline)
		err = c.Conn.Close()
		c.writeOnce.Do(func() { close(c.W) })
	})
	return err
}
