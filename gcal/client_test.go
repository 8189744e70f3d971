package gcal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func TestNewClientRequiresToken(t *testing.T) {
	_, err := NewClient(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestListCalendarsKeepsProviderOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasSuffix(r.URL.Path, "/users/me/calendarList"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]string{
				{"id": "primary", "summary": "Главный"},
				{"id": "family@group.calendar.google.com", "summary": "Семья"},
			},
		})
	}))
	defer srv.Close()

	client, err := NewClient(context.Background(), "test-token", option.WithEndpoint(srv.URL))
	require.NoError(t, err)

	calendars, err := client.ListCalendars()
	require.NoError(t, err)
	require.Len(t, calendars, 2)

	assert.Equal(t, "primary", calendars[0].ID)
	assert.Equal(t, "Главный", calendars[0].DisplayName)
	assert.Equal(t, "family@group.calendar.google.com", calendars[1].ID)
}

func TestListCalendarsProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":403,"message":"insufficient scope"}}`, http.StatusForbidden)
	}))
	defer srv.Close()

	client, err := NewClient(context.Background(), "test-token", option.WithEndpoint(srv.URL))
	require.NoError(t, err)

	_, err = client.ListCalendars()
	assert.Error(t, err)
}

func TestCreateEventSendsPointInTimeEvent(t *testing.T) {
	var got struct {
		Summary     string `json:"summary"`
		Description string `json:"description"`
		Start       struct {
			DateTime string `json:"dateTime"`
		} `json:"start"`
		End struct {
			DateTime string `json:"dateTime"`
		} `json:"end"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Contains(t, r.URL.Path, "/calendars/primary/events")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"evt-1"}`))
	}))
	defer srv.Close()

	client, err := NewClient(context.Background(), "test-token", option.WithEndpoint(srv.URL))
	require.NoError(t, err)

	due := time.Date(2025, 4, 1, 18, 30, 0, 0, time.UTC)
	err = client.CreateEvent("primary", Event{
		Summary:     EventSummaryPrefix + "Lavar a louça",
		Description: "depois do jantar",
		Start:       due,
		End:         due,
	})
	require.NoError(t, err)

	assert.Equal(t, EventSummaryPrefix+"Lavar a louça", got.Summary)
	assert.Equal(t, "depois do jantar", got.Description)
	assert.Equal(t, due.Format(time.RFC3339), got.Start.DateTime)
	assert.Equal(t, got.Start.DateTime, got.End.DateTime)
}

func TestCreateEventProviderErrorIsReturned(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":500,"message":"backend error"}}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := NewClient(context.Background(), "test-token", option.WithEndpoint(srv.URL))
	require.NoError(t, err)

	err = client.CreateEvent("primary", Event{Summary: "x", Start: time.Now(), End: time.Now()})
	assert.Error(t, err)
}
