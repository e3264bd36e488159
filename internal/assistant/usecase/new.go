package usecase

import (
	"time"

	"personal-assistant/internal/assistant"
	"personal-assistant/internal/intent"
	"personal-assistant/internal/model"
	"personal-assistant/internal/repository"
	"personal-assistant/internal/session"
	pkgLog "personal-assistant/pkg/log"
)

// Store is the slice of the entity store the dispatcher needs.
type Store interface {
	repository.UserRepository
	repository.NoteRepository
	repository.TaskRepository
	repository.EventRepository
	repository.ReminderRepository
	repository.ExpenseRepository
}

// Options carries the optional collaborators and tunables. A nil collaborator
// means the feature is unavailable.
type Options struct {
	Calendar   assistant.Calendar
	CalendarID string
	Weather    assistant.Weather
	Currency   assistant.Currency

	RecentSize      int
	DefaultTimezone string
}

type implUseCase struct {
	l        pkgLog.Logger
	repo     Store
	sessions session.UseCase
	intent   intent.Extractor

	calendar   assistant.Calendar
	calendarID string
	weather    assistant.Weather
	currency   assistant.Currency

	recentSize      int
	defaultTimezone string
	now             func() time.Time

	handlers map[model.ActionType]handlerFunc
}

// New creates a new assistant UseCase instance.
func New(l pkgLog.Logger, repo Store, sessions session.UseCase, extractor intent.Extractor, opt Options) *implUseCase {
	uc := &implUseCase{
		l:               l,
		repo:            repo,
		sessions:        sessions,
		intent:          extractor,
		calendar:        opt.Calendar,
		calendarID:      opt.CalendarID,
		weather:         opt.Weather,
		currency:        opt.Currency,
		recentSize:      opt.RecentSize,
		defaultTimezone: opt.DefaultTimezone,
		now:             time.Now,
	}
	if uc.recentSize <= 0 {
		uc.recentSize = session.DefaultRecentSize
	}
	if uc.defaultTimezone == "" {
		uc.defaultTimezone = model.DefaultTimezone
	}
	uc.handlers = uc.registerHandlers()
	return uc
}

func (uc *implUseCase) registerHandlers() map[model.ActionType]handlerFunc {
	return map[model.ActionType]handlerFunc{
		model.ActionCreateNote:      uc.createNote,
		model.ActionCreateTask:      uc.createTask,
		model.ActionCreateEvent:     uc.createEvent,
		model.ActionCreateExpense:   uc.createExpense,
		model.ActionCreateReminder:  uc.createReminder,
		model.ActionUpdateEvent:     uc.updateEvent,
		model.ActionDeleteEvent:     uc.deleteEvent,
		model.ActionUpdateTask:      uc.updateTask,
		model.ActionDeleteNote:      uc.deleteNote,
		model.ActionDeleteTask:      uc.deleteTask,
		model.ActionCheckSchedule:   uc.checkSchedule,
		model.ActionList:            uc.list,
		model.ActionSearch:          uc.search,
		model.ActionCheckWeather:    uc.checkWeather,
		model.ActionConvertCurrency: uc.convertCurrency,
	}
}
