package mem

import (
	"context"
	"github.com/viant/lambdagate/event"
	"sync"
)

//Publisher in memory publisher
type Publisher struct {
	mux    sync.Mutex
	events []*event.Event
}

func (p *Publisher) Publish(ctx context.Context, anEvent *event.Event) (*event.Confirmation, error) {
	p.mux.Lock()
	defer p.mux.Unlock()
	p.events = append(p.events, anEvent)
	return &event.Confirmation{MessageID: anEvent.ID}, nil
}

//Events returns published events
func (p *Publisher) Events() []*event.Event {
	p.mux.Lock()
	defer p.mux.Unlock()
	return append([]*event.Event{}, p.events...)
}

//New creates in memory publisher
func New() *Publisher {
	return &Publisher{}
}
