package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"endicode-workers/internal/common/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestConfig(baseURL string) config.WhatsAppConfig {
	return config.WhatsAppConfig{
		BaseURL:       baseURL,
		PhoneNumberID: "1234567890",
		AccessToken:   "test-token",
		Timeout:       2000,
	}
}

func TestFormatMessage(t *testing.T) {
	assert.Equal(t, "From Jane (+15550100): Hello", FormatMessage("Jane", "+15550100", "Hello"))
	assert.Equal(t, "From Website visitor (+15550100): Hello", FormatMessage("", "+15550100", "Hello"))
	assert.Equal(t, "From Website visitor (+15550100): Hello", FormatMessage("  ", "+15550100", "Hello"))
}

func TestRequest_Validate(t *testing.T) {
	assert.NoError(t, Request{UserPhone: "+1", Message: "hi"}.Validate())
	assert.ErrorIs(t, Request{Message: "hi"}.Validate(), ErrMissingFields)
	assert.ErrorIs(t, Request{UserPhone: "+1", Message: " "}.Validate(), ErrMissingFields)
}

func TestClient_Relay(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"messaging_product":"whatsapp","contacts":[{"input":"+15550100","wa_id":"15550100"}],"messages":[{"id":"wamid.ABC"}]}`))
	}))
	defer server.Close()

	client := NewClient(createTestConfig(server.URL + "/v18.0"))
	resp, err := client.Relay(context.Background(), Request{UserName: "Jane", UserPhone: "+15550100", Message: "Hello"})
	require.NoError(t, err)

	assert.Equal(t, "wamid.ABC", resp.MessageID())
	assert.Equal(t, "/v18.0/1234567890/messages", gotPath)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "whatsapp", gotBody["messaging_product"])
	assert.Equal(t, "+15550100", gotBody["to"])
	assert.Equal(t, "text", gotBody["type"])
	assert.Equal(t, map[string]interface{}{"body": "From Jane (+15550100): Hello"}, gotBody["text"])
}

func TestClient_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid parameter","code":100}}`))
	}))
	defer server.Close()

	_, err := NewClient(createTestConfig(server.URL)).SendText(context.Background(), "+1", "hi")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, json.RawMessage(`{"error":{"message":"Invalid parameter","code":100}}`), apiErr.Details())
}

func TestAPIError_DetailsPlainText(t *testing.T) {
	assert.Equal(t, "bad gateway", (&APIError{Status: 502, Body: "bad gateway"}).Details())
}

func TestClient_NotConfigured(t *testing.T) {
	client := NewClient(config.WhatsAppConfig{BaseURL: "http://unused"})
	assert.False(t, client.Configured())

	_, err := client.SendText(context.Background(), "+1", "hi")
	assert.ErrorIs(t, err, ErrNotConfigured)

	// configuration is checked before the request fields
	_, err = client.Relay(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
