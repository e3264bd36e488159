package assistant

import (
	"context"

	"personal-assistant/internal/model"
	"personal-assistant/pkg/currency"
	"personal-assistant/pkg/gcalendar"
	"personal-assistant/pkg/weather"
)

// UseCase handles one conversational exchange end to end.
type UseCase interface {
	// ProcessMessage interprets the user's text, executes the extracted
	// actions in order and returns the reply. It only fails when the
	// exchange could not be attached to a session.
	ProcessMessage(ctx context.Context, input ProcessInput) (ProcessOutput, error)

	// EnsureTelegramUser returns the user bound to chatID, creating it on
	// first contact. The bool reports whether the user was created.
	EnsureTelegramUser(ctx context.Context, chatID int64, username string) (model.User, bool, error)
}

// Calendar is the external calendar the dispatcher mirrors events to.
type Calendar interface {
	CreateEvent(ctx context.Context, req gcalendar.CreateEventRequest) (*gcalendar.Event, error)
	PatchEvent(ctx context.Context, req gcalendar.PatchEventRequest) (*gcalendar.Event, error)
	DeleteEvent(ctx context.Context, calendarID, eventID string) error
	ListEvents(ctx context.Context, req gcalendar.ListEventsRequest) ([]gcalendar.Event, error)
}

type Weather interface {
	Current(ctx context.Context, city string) (weather.Current, error)
	Forecast(ctx context.Context, city, date string) (weather.Forecast, error)
}

type Currency interface {
	Convert(ctx context.Context, amount float64, from, to string) (currency.Conversion, error)
}
