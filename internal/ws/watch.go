package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
)

// WatchURL derives the change-feed address from the admin API base URL.
func WatchURL(baseURL string) (string, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path += "/ws"
	return u.String(), nil
}

// Watch subscribes to the change feed and calls fn for every event until ctx
// is done or the server closes the connection.
func Watch(ctx context.Context, rawURL, token string, fn func(Event)) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse watch url: %w", err)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("watch: unauthorized: %w", err)
		}
		return fmt.Errorf("watch: dial: %w", err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) || errors.Is(err, websocket.ErrCloseSent) {
				return nil
			}
			return fmt.Errorf("watch: read: %w", err)
		}
		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			continue
		}
		fn(ev)
	}
}
