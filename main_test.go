package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fakhrymubarak/weatherapi-go/pkg/weatherapi"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_PrintsResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "New York", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`{"location":{"name":"New York","country":"USA"},"current":{"temp_f":41.0,"condition":{"text":"Overcast"}}}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	err := lookup(context.Background(), &out, "New York",
		weatherapi.WithAPIKey("test_api_key"),
		weatherapi.WithBaseURL(srv.URL),
	)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "New York", got["city"])
	assert.Equal(t, "Overcast", got["condition"])
	assert.Equal(t, 41.0, got["temp_f"])
	assert.Nil(t, got["humidity"])
}

func TestLookup_ReturnsClientError(t *testing.T) {
	t.Setenv("WEATHERAPI_KEY", "")

	var out bytes.Buffer
	err := lookup(context.Background(), &out, "Austin")
	assert.ErrorIs(t, err, weatherapi.ErrInvalidArgument)
	assert.Zero(t, out.Len())
}
