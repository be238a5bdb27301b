// Package chatclient drives the chat backend from the client side: a
// REST client for room/message CRUD and receipts, a socket listener for
// push delivery, and a Session that funnels both into a chatstate.Store.
package chatclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fieldops/internal/models"
	"fieldops/internal/repositories"
)

// APIError is a non-2xx response decoded from the backend's error shape.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, accessToken string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   accessToken,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) ListRooms(ctx context.Context) ([]models.ChatRoom, error) {
	var rooms []models.ChatRoom
	if err := c.do(ctx, http.MethodGet, "/chats/", nil, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (c *Client) GetMessages(ctx context.Context, roomID, limit, offset int) ([]models.Message, error) {
	path := fmt.Sprintf("/chats/%d/messages?limit=%d&offset=%d", roomID, limit, offset)
	var messages []models.Message
	if err := c.do(ctx, http.MethodGet, path, nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// SendMessage carries the client token so a retried send lands on the
// same server row.
func (c *Client) SendMessage(ctx context.Context, roomID int, body, clientToken string) (*models.Message, error) {
	req := map[string]string{"message": body, "client_token": clientToken}
	var msg models.Message
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/chats/%d/messages", roomID), req, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *Client) EditMessage(ctx context.Context, roomID int, msgID int64, body string) (*models.Message, error) {
	req := map[string]string{"message": body}
	var msg models.Message
	path := fmt.Sprintf("/chats/%d/messages/%d", roomID, msgID)
	if err := c.do(ctx, http.MethodPut, path, req, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *Client) DeleteMessage(ctx context.Context, roomID int, msgID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/chats/%d/messages/%d", roomID, msgID), nil, nil)
}

// SendReadReceipt implements chatstate.ReceiptSender.
func (c *Client) SendReadReceipt(ctx context.Context, roomID int, msgID int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/chats/%d/messages/%d/read", roomID, msgID), nil, nil)
}

// SendRoomRead implements chatstate.ReceiptSender.
func (c *Client) SendRoomRead(ctx context.Context, roomID int, msgIDs []int64) error {
	req := map[string][]int64{"message_ids": msgIDs}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/chats/%d/read", roomID), req, nil)
}

// UnreadCounts hits the aggregate endpoint: one call instead of
// refetching every room's messages.
func (c *Client) UnreadCounts(ctx context.Context) ([]repositories.RoomUnread, int, error) {
	var resp struct {
		Rooms []repositories.RoomUnread `json:"rooms"`
		Total int                       `json:"total"`
	}
	if err := c.do(ctx, http.MethodGet, "/chats/unread-counts", nil, &resp); err != nil {
		return nil, 0, err
	}
	return resp.Rooms, resp.Total, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return &APIError{Status: resp.StatusCode, Message: apiErr.Error}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
