package websocket

import (
	stderrors "errors"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"codeberg.org/archviz/studio/internal/auth"
	"codeberg.org/archviz/studio/internal/errors"
	"codeberg.org/archviz/studio/internal/events"
	"codeberg.org/archviz/studio/internal/logger"
	ws "codeberg.org/archviz/studio/internal/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     ws.CheckOrigin,
}

var (
	errInvalidTopic   = stderrors.New("topic must be \"users\" or \"user:<id>\"")
	errTopicForbidden = stderrors.New("not allowed to subscribe to this topic")
)

// WebSocketHandler godoc
// @Summary Subscribe to user record changes
// @Description Upgrades to a websocket that receives a snapshot followed by user_changed and user_deleted events
// @Tags realtime
// @Param token query string true "JWT"
// @Param topic query string true "users or user:<id>"
// @Success 101
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Router /api/v1/ws [get]
func WebSocketHandler(hub *ws.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		var params ConnectParams
		if err := c.ShouldBindQuery(&params); err != nil {
			errors.BadRequest(c, "invalid parameters", err)
			return
		}

		claims, err := auth.ValidateJWT(params.Token)
		if err != nil {
			errors.Unauthorized(c, "invalid or expired token")
			return
		}

		switch err := authorizeTopic(claims, params.Topic); {
		case stderrors.Is(err, errInvalidTopic):
			errors.BadRequest(c, err.Error(), nil)
			return
		case err != nil:
			errors.Forbidden(c, err.Error())
			return
		}

		// check connection limits before accepting new connection
		ipAddress := c.ClientIP()
		canAccept, reason := hub.CanAcceptConnection(claims.UserID, ipAddress)

		if !canAccept {
			errors.TooManyRequests(c, reason)
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.ErrorErr(err, "failed to upgrade connection",
				"topic", params.Topic,
				"ip", ipAddress,
			)

			return
		}

		// track IP connection only after successful upgrade
		hub.TrackIPConnection(ipAddress)

		clientID := ws.GenerateClientID()
		client := ws.NewClient(clientID, params.Topic, claims.UserID, claims.IsAdmin, ipAddress, conn, hub)

		hub.Register <- client

		go client.WritePump()
		go client.ReadPump()

		logger.Info("websocket connection established",
			"client_id", clientID,
			"topic", params.Topic,
			"user_id", claims.UserID,
			"ip", ipAddress,
		)
	}
}

// admins may watch any topic; users only their own record
func authorizeTopic(claims *auth.Claims, topic string) error {
	if !events.ValidTopic(topic) {
		return errInvalidTopic
	}

	if claims.IsAdmin {
		return nil
	}

	if id, ok := events.ParseUserTopic(topic); ok && id == claims.UserID {
		return nil
	}

	return errTopicForbidden
}
