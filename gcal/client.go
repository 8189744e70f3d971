package gcal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// ErrNoToken — попытка обратиться к Google без provider-токена
var ErrNoToken = errors.New("empty provider token")

// CalendarInfo — элемент списка календарей пользователя
type CalendarInfo struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Event — событие для отправки в календарь
type Event struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
}

// Client — обертка над Google Calendar API под bearer-токеном пользователя.
// Все вызовы одиночные: без ретраев и backoff, ошибки решает вызывающий.
type Client struct {
	svc *calendar.Service
}

// NewClient создает клиент календаря по access-токену.
// Дополнительные опции используются в тестах (подмена endpoint/транспорта).
func NewClient(ctx context.Context, token string, opts ...option.ClientOption) (*Client, error) {
	if token == "" {
		return nil, ErrNoToken
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	all := append([]option.ClientOption{option.WithTokenSource(ts)}, opts...)

	svc, err := calendar.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// ListCalendars возвращает календари пользователя в порядке, выданном Google
func (c *Client) ListCalendars() ([]CalendarInfo, error) {
	list, err := c.svc.CalendarList.List().Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", err)
	}

	var calendars []CalendarInfo
	for _, entry := range list.Items {
		calendars = append(calendars, CalendarInfo{
			ID:          entry.Id,
			DisplayName: entry.Summary,
		})
	}
	return calendars, nil
}

// CreateEvent создает одно событие в указанном календаре
func (c *Client) CreateEvent(calendarID string, ev Event) error {
	item := &calendar.Event{
		Summary:     ev.Summary,
		Description: ev.Description,
		Start: &calendar.EventDateTime{
			DateTime: ev.Start.Format(time.RFC3339),
		},
		End: &calendar.EventDateTime{
			DateTime: ev.End.Format(time.RFC3339),
		},
	}

	if _, err := c.svc.Events.Insert(calendarID, item).Do(); err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}
