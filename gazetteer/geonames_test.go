package gazetteer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeonamesClientFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/getJSON", r.URL.Path)
		assert.Equal(t, "756135", r.URL.Query().Get("geonameId"))
		assert.Equal(t, "demo", r.URL.Query().Get("username"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"name": "Warsaw",
			"countryName": "Poland",
			"alternateNames": [
				{"lang": "pl", "name": "Warszawka"},
				{"lang": "pl", "name": "Warszawa", "isPreferredName": true},
				{"lang": "wkdt", "name": "Q270"}
			]
		}`))
	}))
	defer server.Close()

	client := NewGeonamesClientWithBaseURL(server.URL, "demo")
	entry, err := client.Fetch(context.Background(), "756135")
	require.NoError(t, err)

	assert.Equal(t, "Warsaw", entry.Name)
	assert.Equal(t, "Poland", entry.Country)
	assert.Equal(t, "Warszawa", entry.NamePL)
	assert.Equal(t, "Q270", entry.WikidataID)
}

func TestGeonamesClientFetchNoAlternates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"name": "Giessen", "countryName": "Germany"}`))
	}))
	defer server.Close()

	client := NewGeonamesClientWithBaseURL(server.URL, "demo")
	entry, err := client.Fetch(context.Background(), "2920236")
	require.NoError(t, err)

	assert.Equal(t, "Giessen", entry.NamePL)
	assert.Equal(t, "", entry.WikidataID)
}

func TestGeonamesClientErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status": {"message": "user does not exist.", "value": 10}}`))
	}))
	defer server.Close()

	client := NewGeonamesClientWithBaseURL(server.URL, "nobody")
	_, err := client.Fetch(context.Background(), "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user does not exist")
}

func TestGeonamesClientHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewGeonamesClientWithBaseURL(server.URL, "demo")
	_, err := client.Fetch(context.Background(), "1")
	require.Error(t, err)
}
