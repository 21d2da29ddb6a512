package audit

import "github.com/rs/zerolog/log"

type Event struct {
	BarbershopID uint
	ActorID      *uint
	Action       string
	Entity       string
	EntityID     *uint
	Metadata     any
}

// Dispatcher decouples audit writes from request handling: events go through
// a buffered channel consumed by a single worker, and are dropped rather
// than blocking the API when the buffer is full.
type Dispatcher struct {
	logger *Logger
	queue  chan Event
}

func NewDispatcher(logger *Logger) *Dispatcher {
	d := &Dispatcher{
		logger: logger,
		queue:  make(chan Event, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		if err := d.logger.Log(
			ev.BarbershopID,
			ev.ActorID,
			ev.Action,
			ev.Entity,
			ev.EntityID,
			ev.Metadata,
		); err != nil {
			log.Error().Err(err).Str("action", ev.Action).Msg("audit write failed")
		}
	}
}

// Nop returns a dispatcher that accepts and discards events, for callers
// running without audit persistence.
func Nop() *Dispatcher {
	d := &Dispatcher{queue: make(chan Event, 100)}
	go func() {
		for range d.queue {
		}
	}()
	return d
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		log.Warn().Str("action", ev.Action).Msg("audit queue full, dropping event")
	}
}
