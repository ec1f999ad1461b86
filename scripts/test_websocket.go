//go:build ignore

package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: go run test_websocket.go <topic> <token>")
		fmt.Println("Example: go run test_websocket.go users jwt_token_here")
		fmt.Println("         go run test_websocket.go user:<id> jwt_token_here")
		os.Exit(1)
	}

	topic := os.Args[1]
	token := os.Args[2]

	host := os.Getenv("ARCHVIZ_HOST")
	if host == "" {
		host = "localhost:8080"
	}

	// build WebSocket URL
	u := url.URL{
		Scheme: "ws",
		Host:   host,
		Path:   "/api/v1/ws",
	}
	q := u.Query()
	q.Set("topic", topic)
	q.Set("token", token)
	u.RawQuery = q.Encode()

	fmt.Printf("Connecting to %s\n", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer c.Close()

	fmt.Println("✅ Connected to WebSocket!")

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	done := make(chan struct{})

	// print snapshots and record changes as they arrive
	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Println("read:", err)
				return
			}
			fmt.Printf("📨 Received: %s\n", message)
		}
	}()

	time.Sleep(1 * time.Second)
	ping, _ := json.Marshal(map[string]string{"type": "ping"})
	fmt.Printf("📤 Sending ping: %s\n", ping)
	if err := c.WriteMessage(websocket.TextMessage, ping); err != nil {
		log.Println("write:", err)
		return
	}

	select {
	case <-done:
		return
	case <-interrupt:
		fmt.Println("\n🛑 Interrupt received, closing connection...")

		err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		if err != nil {
			log.Println("write close:", err)
			return
		}
		select {
		case <-done:
		case <-time.After(time.Second):
		}
	}
}
