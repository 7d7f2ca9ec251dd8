package production

import (
	"context"

	"github.com/comalice/fsmx"
)

// Notice is one machine notification, flattened to names so it can leave
// the dispatching goroutine.
type Notice struct {
	Machine string
	Type    string // "start", "dispatch", "transition" or "guard"
	From    string
	To      string
	State   string // current state once a dispatch returned
	Event   string
	Outcome string
}

// ChannelPublisher forwards machine notifications to a channel. Publishing
// never blocks the machine: notices are dropped when the channel is full.
type ChannelPublisher struct {
	ch      chan<- Notice
	dropped int
}

var _ fsmx.Observer = (*ChannelPublisher)(nil)

// NewChannelPublisher creates a ChannelPublisher writing to ch.
func NewChannelPublisher(ch chan<- Notice) *ChannelPublisher {
	return &ChannelPublisher{ch: ch}
}

// Dropped returns how many notices did not fit in the channel.
func (p *ChannelPublisher) Dropped() int { return p.dropped }

func (p *ChannelPublisher) publish(n Notice) {
	select {
	case p.ch <- n:
	default:
		p.dropped++
	}
}

func (p *ChannelPublisher) Started(_ context.Context, m *fsmx.Machine, s fsmx.StateID) {
	p.publish(Notice{Machine: m.Name(), Type: "start", To: m.StateName(s)})
}

func (p *ChannelPublisher) Dispatched(_ context.Context, m *fsmx.Machine, e fsmx.Event, o fsmx.Outcome) {
	p.publish(Notice{
		Machine: m.Name(),
		Type:    "dispatch",
		State:   m.StateName(m.Current()),
		Event:   m.EventName(e.Kind()),
		Outcome: o.String(),
	})
}

func (p *ChannelPublisher) Transitioned(_ context.Context, m *fsmx.Machine, from, to fsmx.StateID) {
	p.publish(Notice{Machine: m.Name(), Type: "transition", From: m.StateName(from), To: m.StateName(to)})
}

func (p *ChannelPublisher) GuardRejected(_ context.Context, m *fsmx.Machine, from, to fsmx.StateID) {
	p.publish(Notice{Machine: m.Name(), Type: "guard", From: m.StateName(from), To: m.StateName(to)})
}

// Close closes the channel.
func (p *ChannelPublisher) Close() error {
	close(p.ch)
	return nil
}
