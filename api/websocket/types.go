package websocket

type ConnectParams struct {
	Token string `form:"token" binding:"required"` // jwt from /auth/login
	Topic string `form:"topic" binding:"required"` // "users" or "user:<id>"
}
