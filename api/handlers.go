package api

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/OhASys/sstracker-backend/hub"
)

const livenessMessage = "Sonic Shuriken's Tracker backend is running!"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The browser client is served from a different origin; CORS policy
	// is permissive across the whole backend.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Register wires up all routes on the provided Echo instance.
func Register(e *echo.Echo, h *hub.Hub, auth Authenticator, logger *log.Logger) {
	e.GET("/", liveness)
	e.GET("/socket", serveSocket(h, auth, logger))
}

func liveness(c echo.Context) error {
	return c.String(http.StatusOK, livenessMessage)
}

// serveSocket authenticates the upgrade request (browser websockets cannot
// set headers, so a token query parameter stands in for the Authorization
// header) and hands the connection to a Client pair of pumps.
func serveSocket(h *hub.Hub, auth Authenticator, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			if token := c.QueryParam("token"); token != "" {
				authHeader = "Bearer " + token
			}
		}
		userID, err := auth.UserIDFromAuthHeader(authHeader)
		if err != nil {
			return c.String(http.StatusUnauthorized, err.Error())
		}

		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			logger.Errorf("socket upgrade: %v", err)
			return nil
		}

		client := newClient(h, conn, userID, logger)
		go client.writePump()
		go client.readPump()
		return nil
	}
}
