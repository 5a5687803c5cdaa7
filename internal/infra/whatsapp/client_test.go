package whatsapp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(Config{APIURL: srv.URL + "/", InstanceID: "1101", Token: "tok"}, nil)
	require.NoError(t, err)
	return c
}

func TestSend(t *testing.T) {
	var got sendRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/waInstance1101/sendMessage/tok", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"idMessage":"BAE5F4886F6F2D05"}`))
	})

	id, err := c.Send(context.Background(), "120363@g.us", "📦 НОВАЯ ЗАЯВКА")
	require.NoError(t, err)
	assert.Equal(t, "BAE5F4886F6F2D05", id)
	assert.Equal(t, sendRequest{ChatID: "120363@g.us", Message: "📦 НОВАЯ ЗАЯВКА"}, got)
}

func TestSend_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "bad status", status: http.StatusForbidden, body: `{"message":"forbidden"}`},
		{name: "broken json", status: http.StatusOK, body: `{`},
		{name: "no id", status: http.StatusOK, body: `{}`, wantErr: ErrNoMessageID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := c.Send(context.Background(), "1@c.us", "hi")
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
			}
		})
	}
}

func TestSend_CanceledContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"idMessage":"X"}`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Send(ctx, "1@c.us", "hi")
	assert.Error(t, err)
}

func TestNew_NotConfigured(t *testing.T) {
	_, err := New(Config{APIURL: "https://api.green-api.com", InstanceID: "1101"}, nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.False(t, Config{Token: "x"}.Configured())
	assert.True(t, Config{InstanceID: "1", Token: "x"}.Configured())
}
