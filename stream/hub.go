package stream

import "slices"

type hubConfig struct {
	replay     int
	permanent  bool
	keepReplay bool
}

type HubOption func(*hubConfig)

// Replay keeps the last k values and delivers them to every new subscriber.
func Replay(k int) HubOption {
	return func(c *hubConfig) { c.replay = max(k, 0) }
}

// Permanent keeps a Multicast connected upstream once it connected, even
// without subscribers.
func Permanent() HubOption {
	return func(c *hubConfig) { c.permanent = true }
}

// KeepReplay makes a Multicast keep its replay buffer when it disconnects
// from upstream, so subscribers of the next connection first receive the
// values of the previous one.
func KeepReplay() HubOption {
	return func(c *hubConfig) { c.keepReplay = true }
}

// Hub fans the events pushed into it out to every attached subscriber, in
// attachment order. It is both an Observer and, through Stream, a source.
type Hub[T any] struct {
	replay int
	buffer []T

	observers []*Subscriber[T]

	done bool
	err  error
}

var _ Observer[int] = (*Hub[int])(nil)

func NewHub[T any](opts ...HubOption) *Hub[T] {
	var cfg hubConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Hub[T]{replay: cfg.replay}
}

// NewValueHub creates a hub holding a current value: every subscriber
// first receives the latest value.
func NewValueHub[T any](initial T) *Hub[T] {
	h := NewHub[T](Replay(1))
	h.Next(initial)
	return h
}

func (h *Hub[T]) Next(v T) {
	if h.done {
		return
	}

	if h.replay > 0 {
		if len(h.buffer) == h.replay {
			h.buffer = slices.Delete(h.buffer, 0, 1)
		}
		h.buffer = append(h.buffer, v)
	}

	for _, o := range slices.Clone(h.observers) {
		o.Next(v)
	}
}

func (h *Hub[T]) Error(err error) {
	if h.done {
		return
	}
	h.done, h.err = true, err

	for _, o := range h.release() {
		o.Error(err)
	}
}

func (h *Hub[T]) Complete() {
	if h.done {
		return
	}
	h.done = true

	for _, o := range h.release() {
		o.Complete()
	}
}

func (h *Hub[T]) release() []*Subscriber[T] {
	observers := h.observers
	h.observers = nil
	return observers
}

// Value returns the latest replayed value.
func (h *Hub[T]) Value() (v T, ok bool) {
	if len(h.buffer) == 0 {
		return v, false
	}
	return h.buffer[len(h.buffer)-1], true
}

// Observers returns the number of attached subscribers.
func (h *Hub[T]) Observers() int {
	return len(h.observers)
}

// Done reports whether the hub received a terminal event.
func (h *Hub[T]) Done() bool {
	return h.done
}

// Stream returns a stream attaching its subscribers to the hub. A late
// subscriber receives the replay buffer, then the terminal event if the
// hub is done.
func (h *Hub[T]) Stream() Stream[T] {
	return New(h.attach)
}

func (h *Hub[T]) attach(s *Subscriber[T]) func() {
	for _, v := range slices.Clone(h.buffer) {
		if s.Closed() {
			return nil
		}
		s.Next(v)
	}

	if h.done {
		if h.err != nil {
			s.Error(h.err)
		} else {
			s.Complete()
		}
		return nil
	}
	if s.Closed() {
		return nil
	}

	h.observers = append(h.observers, s)

	return func() {
		if i := slices.Index(h.observers, s); i >= 0 {
			h.observers = slices.Delete(h.observers, i, i+1)
		}
	}
}

type multicast[T any] struct {
	src Stream[T]
	cfg hubConfig

	hub      *Hub[T]
	upstream *Subscription
	refs     int
}

// Multicast shares one execution of s between its subscribers, replaying
// the latest value to late ones. The first subscriber connects to s and
// the last one leaving disconnects it.
//
// On disconnection the replay buffer is cleared unless KeepReplay is
// given. Once s completed the multicast stays completed; after s failed,
// the next subscriber starts a fresh execution.
func Multicast[T any](s Stream[T], opts ...HubOption) Stream[T] {
	cfg := hubConfig{replay: 1}
	for _, opt := range opts {
		opt(&cfg)
	}

	m := &multicast[T]{src: s, cfg: cfg}
	m.hub = m.newHub()

	return New(m.attach)
}

func (m *multicast[T]) newHub() *Hub[T] {
	return &Hub[T]{replay: m.cfg.replay}
}

func (m *multicast[T]) attach(out *Subscriber[T]) func() {
	m.refs++
	detach := m.hub.attach(out)

	teardown := func() {
		if detach != nil {
			detach()
		}

		m.refs--
		if m.refs == 0 && !m.cfg.permanent {
			m.disconnect()
		}
	}

	if out.Closed() || m.hub.done || m.upstream != nil {
		return teardown
	}

	m.upstream = &Subscription{}
	m.src.subscribe(m.upstream, m.hub)

	return teardown
}

func (m *multicast[T]) disconnect() {
	if up := m.upstream; up != nil {
		m.upstream = nil
		up.Dispose()
	}

	switch {
	case m.hub.done && m.hub.err == nil:
		// completed for good
	case m.hub.done || !m.cfg.keepReplay:
		m.hub = m.newHub()
	default:
		// keep the replay buffer for the next connection
	}
}
