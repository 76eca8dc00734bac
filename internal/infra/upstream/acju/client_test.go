package acju

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	payload := `{
		"hijriDay": 21,
		"hijriMonthName": "Ramadhan",
		"hijriYear": 1447,
		"monthStartDate": "2026-02-18",
		"monthEndDate": "2026-03-19"
	}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "2026-03-10", r.URL.Query().Get("date"))
		_, _ = w.Write([]byte(payload))
	}))
	defer server.Close()

	client := NewClient(server.URL, 2*time.Second)
	res, err := client.Lookup(context.Background(), "2026-03-10")
	require.NoError(t, err)
	require.NotNil(t, res)
	require.Equal(t, 21, res.Day)
	require.Equal(t, "Ramadhan", res.MonthName)
	require.Equal(t, 1447, res.Year)
	require.Equal(t, "2026-02-18", res.MonthStartDate)
	require.Equal(t, "2026-03-19", res.MonthEndDate)
	require.JSONEq(t, payload, string(res.Raw))
}

func TestLookupNoEntry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := NewClient(server.URL, 2*time.Second)
	res, err := client.Lookup(context.Background(), "2027-01-01")
	require.NoError(t, err, "404 means the calendar has no entry, not a failure")
	require.Nil(t, res)
}

func TestLookupEmptyEntryTreatedAsMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 2*time.Second)
	res, err := client.Lookup(context.Background(), "2026-03-10")
	require.NoError(t, err)
	require.Nil(t, res)
}

func TestLookupServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, 2*time.Second)
	_, err := client.Lookup(context.Background(), "2026-03-10")
	require.Error(t, err)
	require.Contains(t, err.Error(), "status=500")
}
