package event

import (
	"context"
	"encoding/json"
	"github.com/google/uuid"
	"github.com/viant/lambdagate/gateway"
	"time"
)

//Kind represents provisioning event kind
type Kind string

const (
	//Provisioned front door became servable
	Provisioned = Kind("provisioned")
	//Deleted front door was deleted
	Deleted = Kind("deleted")
	//Revoked backend invoke permission was revoked
	Revoked = Kind("revoked")
	//RolledBack partial provisioning was compensated
	RolledBack = Kind("rolledBack")
)

//Event represents provisioning lifecycle event
type Event struct {
	ID         string              `json:",omitempty"`
	Kind       Kind                `json:",omitempty"`
	Time       time.Time           `json:",omitempty"`
	URL        string              `json:",omitempty"`
	Descriptor *gateway.Descriptor `json:",omitempty"`
}

//Subject returns event subject
func (e *Event) Subject() string {
	return "gateway." + string(e.Kind)
}

//Payload returns JSON encoded event
func (e *Event) Payload() ([]byte, error) {
	return json.Marshal(e)
}

//Attributes returns message attributes
func (e *Event) Attributes() map[string]string {
	ret := map[string]string{"kind": string(e.Kind)}
	if e.Descriptor != nil {
		if e.Descriptor.APIID != "" {
			ret["apiId"] = e.Descriptor.APIID
		}
		if e.Descriptor.Stage != "" {
			ret["stage"] = e.Descriptor.Stage
		}
	}
	return ret
}

//New creates an event
func New(kind Kind, descriptor *gateway.Descriptor) *Event {
	ret := &Event{ID: uuid.New().String(), Kind: kind, Time: time.Now().UTC(), Descriptor: descriptor}
	if kind == Provisioned && descriptor != nil {
		ret.URL = descriptor.URL()
	}
	return ret
}

//Publisher publishes provisioning events
type Publisher interface {
	Publish(ctx context.Context, event *Event) (*Confirmation, error)
}

//Confirmation represents publish confirmation
type Confirmation struct {
	MessageID string
}

func (c *Confirmation) String() string {
	return c.MessageID
}
