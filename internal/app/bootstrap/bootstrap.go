// Package bootstrap registers every command and query handler on in-process
// buses and wraps them with the middleware pipeline.
package bootstrap

import (
	"log/slog"

	"staybook/internal/app/clock"
	"staybook/internal/app/commands"
	"staybook/internal/app/dto"
	bookingapp "staybook/internal/app/handlers/booking"
	propertyapp "staybook/internal/app/handlers/property"
	userapp "staybook/internal/app/handlers/user"
	"staybook/internal/app/middleware"
	"staybook/internal/app/outbox"
	"staybook/internal/app/queries"
	"staybook/internal/app/uow"
	"staybook/internal/domain/refund"
)

type Deps struct {
	UoW         uow.UoWFactory
	Outbox      outbox.Outbox
	Encoder     outbox.EventEncoder
	Idempotency middleware.IdempotencyStore
	Validator   middleware.Validator
	Clock       clock.Clock
	Policy      refund.Policy
	Currency    string
	Logger      *slog.Logger
}

type Buses struct {
	Commands commands.Bus
	Queries  queries.Bus
}

// Build panics when a required dependency is missing.
func Build(d Deps) Buses {
	if d.UoW == nil || d.Outbox == nil {
		panic("bootstrap: uow factory and outbox required")
	}
	if d.Encoder == nil {
		d.Encoder = outbox.JSONEventEncoder{}
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	d.Clock = clock.Or(d.Clock)

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler[propertyapp.CreatePropertyCommand, *dto.Property](commandBus, &propertyapp.CreatePropertyHandler{
		UoWFactory: d.UoW,
		Outbox:     d.Outbox,
		Encoder:    d.Encoder,
		Currency:   d.Currency,
		Clock:      d.Clock,
	})
	commands.RegisterHandler[userapp.RegisterUserCommand, *dto.User](commandBus, &userapp.RegisterUserHandler{
		UoWFactory: d.UoW,
		Outbox:     d.Outbox,
		Encoder:    d.Encoder,
		Clock:      d.Clock,
	})
	commands.RegisterHandler[bookingapp.RequestBookingCommand, *dto.Booking](commandBus, &bookingapp.RequestBookingHandler{
		UoWFactory: d.UoW,
		Outbox:     d.Outbox,
		Encoder:    d.Encoder,
		Policy:     d.Policy,
		Clock:      d.Clock,
		Logger:     d.Logger,
	})
	commands.RegisterHandler[bookingapp.CancelBookingCommand, *dto.CancelResult](commandBus, &bookingapp.CancelBookingHandler{
		UoWFactory: d.UoW,
		Outbox:     d.Outbox,
		Encoder:    d.Encoder,
		Clock:      d.Clock,
		Logger:     d.Logger,
	})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler[propertyapp.GetPropertyQuery, *dto.Property](queryBus, &propertyapp.GetPropertyHandler{UoWFactory: d.UoW})
	queries.RegisterHandler[propertyapp.CheckAvailabilityQuery, *dto.Availability](queryBus, &propertyapp.CheckAvailabilityHandler{UoWFactory: d.UoW, Logger: d.Logger})
	queries.RegisterHandler[propertyapp.ListBookingsQuery, *dto.BookingCollection](queryBus, &propertyapp.ListBookingsHandler{UoWFactory: d.UoW})
	queries.RegisterHandler[userapp.GetUserQuery, *dto.User](queryBus, &userapp.GetUserHandler{UoWFactory: d.UoW})
	queries.RegisterHandler[bookingapp.GetBookingQuery, *dto.Booking](queryBus, &bookingapp.GetBookingHandler{UoWFactory: d.UoW})

	d.Logger.Debug("buses ready", "commands", commandBus.Keys(), "queries", queryBus.Keys())

	commandMW := []middleware.CommandMiddleware{middleware.Logging(d.Logger)}
	queryMW := []middleware.QueryMiddleware{middleware.QueryLogging(d.Logger)}
	if d.Validator != nil {
		commandMW = append(commandMW, middleware.Validation(d.Validator))
		queryMW = append(queryMW, middleware.QueryValidation(d.Validator))
	}
	if d.Idempotency != nil {
		commandMW = append(commandMW, middleware.Idempotency(d.Idempotency, nil))
	}
	commandMW = append(commandMW,
		middleware.OutboxFlush(d.Outbox, d.Logger),
		middleware.Transaction(d.UoW, nil),
	)

	return Buses{
		Commands: middleware.ChainCommands(commandBus, commandMW...),
		Queries:  middleware.ChainQueries(queryBus, queryMW...),
	}
}
