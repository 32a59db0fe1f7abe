package ws

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleDocumentSocket subscribes the connection to one document's status
// updates until the peer goes away.
func HandleDocumentSocket(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		docID := c.Param("id")

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Println("ws: upgrade failed:", err)
			return
		}

		hub.Register(docID, conn)
		defer func() {
			hub.Unregister(docID, conn)
			conn.Close()
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}

// HandleGlobalSocket subscribes the connection to every status update.
func HandleGlobalSocket(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Println("ws: upgrade failed:", err)
			return
		}

		hub.RegisterGlobal(conn)
		defer func() {
			hub.UnregisterGlobal(conn)
			conn.Close()
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}
