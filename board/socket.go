package board

import (
	"context"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/0n0123/kanban/domain"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Register wires the socket endpoint on the provided Echo instance.
func Register(e *echo.Echo, store Storage, hub *Hub, coord *Coordinator, logger *log.Logger) {
	e.GET("/socket", serveSocket(store, hub, coord, logger))
}

func serveSocket(store Storage, hub *Hub, coord *Coordinator, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			logger.WithError(err).Error("failed to upgrade connection")
			return err
		}
		defer conn.Close()

		// batches keep a context independent of the request so a client
		// disconnecting mid-batch cannot abort an issued store call
		ctx := context.Background()
		cl := hub.register()
		defer hub.unregister(cl)
		logger.WithField("client", cl.id).Info("client connected")

		go func() {
			defer conn.Close()
			for data := range cl.send {
				if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
					logger.WithError(err).WithField("client", cl.id).Error("failed to send frame")
					return
				}
			}
		}()

		tasks, err := store.ListAll(c.Request().Context())
		if err != nil {
			logger.WithError(err).Error("cannot load board snapshot")
			tasks = []domain.Task{}
		}
		hub.sendTo(cl, domain.EventWelcome, domain.Message{Tasks: tasks})

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				break
			}
			var f frame
			if err := sonic.ConfigStd.Unmarshal(data, &f); err != nil {
				logger.WithError(err).WithField("client", cl.id).Warn("discarding malformed frame")
				continue
			}
			coord.Handle(ctx, f.Event, f.Data)
		}

		logger.WithField("client", cl.id).Info("client disconnected")
		return nil
	}
}
