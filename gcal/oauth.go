package gcal

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	calendar "google.golang.org/api/calendar/v3"

	"github.com/wadepvenga/gerenciador-tarefas-familia/models"
)

// OAuthConfig — конфигурация OAuth2 для Google Calendar.
// Нужен доступ на чтение списка календарей и запись событий.
func OAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		Endpoint:     google.Endpoint,
		RedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
		Scopes: []string{
			calendar.CalendarReadonlyScope,
			calendar.CalendarEventsScope,
		},
	}
}

// AuthURL возвращает URL страницы согласия Google.
// access_type=offline + prompt=consent — чтобы получить refresh-токен.
func AuthURL(state string) string {
	return OAuthConfig().AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// Exchange обменивает authorization code на токены
func Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	tok, err := OAuthConfig().Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange auth code: %w", err)
	}
	return tok, nil
}

// refreshToken получает свежий access-токен через refresh-токен
func refreshToken(ctx context.Context, row *models.ProviderToken) (*oauth2.Token, error) {
	src := OAuthConfig().TokenSource(ctx, &oauth2.Token{
		AccessToken:  row.AccessToken,
		RefreshToken: row.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       row.Expiry,
	})
	return src.Token()
}
