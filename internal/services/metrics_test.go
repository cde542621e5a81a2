package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"smartlighting-backend-go/internal/models"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
)

func TestMetricsHubConcurrentClients(t *testing.T) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	hub := NewMetricsHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				conn, _, err := websocket.DefaultDialer.Dial(url, nil)
				if !assert.NoError(t, err) {
					return
				}
				hub.Add(conn)
				hub.Broadcast(models.ServerMetricSample{})
				hub.Remove(conn)
				_ = conn.Close()
			}
		}()
	}
	wg.Wait()
}
