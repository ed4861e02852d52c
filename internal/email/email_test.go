package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Send(t *testing.T) {
	var gotAuth string
	var gotBody sendRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/emails", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "msg-123"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "Orders <orders@example.com>")

	id, err := c.Send(context.Background(), "lab@example.com", "Your order #1000", "<p>hi</p>")
	require.NoError(t, err)
	assert.Equal(t, "msg-123", id)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "Orders <orders@example.com>", gotBody.From)
	assert.Equal(t, []string{"lab@example.com"}, gotBody.To)
	assert.Equal(t, "Your order #1000", gotBody.Subject)
}

func TestClient_Send_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "invalid recipient"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "orders@example.com")

	_, err := c.Send(context.Background(), "not-an-address", "subj", "<p>hi</p>")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid recipient")
}

func TestClient_Send_MissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "orders@example.com")

	_, err := c.Send(context.Background(), "lab@example.com", "subj", "<p>hi</p>")
	require.Error(t, err)
}

func TestDisabled_Send(t *testing.T) {
	_, err := Disabled{}.Send(context.Background(), "a@b.c", "s", "<p>h</p>")
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestInstructions_KnownMethods(t *testing.T) {
	tests := []struct {
		method string
		want   string
	}{
		{"zelle", "Zelle"},
		{"cashapp", "Cash App"},
		{"venmo", "Venmo"},
		{"bitcoin", "surcharge"},
		{"usdc", "USDC"},
		{"usdt", "USDT"},
	}
	for _, tt := range tests {
		assert.Contains(t, Instructions(tt.method), tt.want, "method %s", tt.method)
	}
}

func TestInstructions_UnknownMethodFallsBack(t *testing.T) {
	assert.Contains(t, Instructions("barter"), "support")
}

func TestConfirmationHTML_EscapesCustomerInput(t *testing.T) {
	html := ConfirmationHTML("#1000", "zelle", "93.42", []ConfirmationLine{
		{Name: "<script>alert(1)</script>", Quantity: 1, Price: "40.00"},
	})

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "#1000")
	assert.Contains(t, html, "$93.42")
}
