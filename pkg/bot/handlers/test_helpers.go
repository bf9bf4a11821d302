package handlers

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"
	"time"

	telegram "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

type recordedRequest struct {
	path        string
	method      string
	contentType string
	body        []byte
}

type mockClient struct {
	requests []recordedRequest
	response string
}

func newMockClient() *mockClient {
	return &mockClient{
		response: `{"ok":true,"result":{}}`,
	}
}

func (m *mockClient) Do(req *http.Request) (*http.Response, error) {
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	if err := req.Body.Close(); err != nil {
		return nil, fmt.Errorf("failed to close request body: %w", err)
	}
	m.requests = append(m.requests, recordedRequest{
		path:        req.URL.Path,
		method:      req.Method,
		contentType: req.Header.Get("Content-Type"),
		body:        body,
	})

	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(m.response)),
		Header:     make(http.Header),
	}, nil
}

// messageTexts extracts the "text" field from every recorded sendMessage
// request, in order.
func (m *mockClient) messageTexts(t *testing.T) []string {
	t.Helper()
	texts := make([]string, 0, len(m.requests))
	for _, req := range m.requests {
		mediaType, params, err := mime.ParseMediaType(req.contentType)
		if err != nil {
			t.Fatalf("failed to parse media type: %v", err)
		}
		if !strings.HasPrefix(mediaType, "multipart/") {
			continue
		}
		reader := multipart.NewReader(bytes.NewReader(req.body), params["boundary"])
		for {
			part, err := reader.NextPart()
			if err == io.EOF {
				break
			}
			if err != nil {
				t.Fatalf("failed to read multipart part: %v", err)
			}
			if part.FormName() == "text" {
				data, err := io.ReadAll(part)
				if err != nil {
					t.Fatalf("failed to read text part: %v", err)
				}
				texts = append(texts, string(data))
			}
		}
	}
	return texts
}

func (m *mockClient) lastMessageText(t *testing.T) string {
	t.Helper()
	texts := m.messageTexts(t)
	if len(texts) == 0 {
		t.Fatalf("expected at least one sent message")
	}
	return texts[len(texts)-1]
}

func newTestTelegramBot(t *testing.T, client *mockClient) *telegram.Bot {
	t.Helper()
	b, err := telegram.New("test-token",
		telegram.WithSkipGetMe(),
		telegram.WithHTTPClient(time.Second, client),
	)
	if err != nil {
		t.Fatalf("failed to create test bot: %v", err)
	}
	return b
}

func newTestUpdate(text string, userID int64, username string) *models.Update {
	return &models.Update{
		Message: &models.Message{
			From: &models.User{
				ID:       userID,
				Username: username,
			},
			Chat: models.Chat{
				ID:   userID,
				Type: models.ChatTypePrivate,
			},
			Text: text,
		},
	}
}
