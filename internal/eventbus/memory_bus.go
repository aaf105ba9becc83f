package eventbus

import (
	"context"
	"sync"
	"sync/atomic"
)

// memoryBus доставляет события внутри процесса.
// У каждого подписчика своя очередь и горутина, поэтому он получает события в порядке публикации.
type memoryBus struct {
	queue    chan *Envelope
	capacity int

	// closeMu защищает closed и отправку в queue
	closeMu sync.RWMutex
	closed  bool

	mu     sync.RWMutex
	subs   map[uint64]*memSub
	nextID uint64

	dispatched chan struct{}
	wg         sync.WaitGroup

	published atomic.Uint64
	consumed  atomic.Uint64
	dropped   atomic.Uint64
}

type memSub struct {
	bus    *memoryBus
	id     uint64
	filter Filter
	inbox  chan *Envelope
	ctx    context.Context
	cancel context.CancelFunc
}

// NewMemoryBus создаёт шину в памяти с буфером на capacity событий
func NewMemoryBus(capacity int) EventBus {
	if capacity <= 0 {
		capacity = 1
	}
	mb := &memoryBus{
		queue:      make(chan *Envelope, capacity),
		capacity:   capacity,
		subs:       make(map[uint64]*memSub),
		dispatched: make(chan struct{}),
	}
	go mb.dispatchLoop()
	return mb
}

// Publish ставит событие в очередь. При полном буфере события ниже PriorityHigh
// отбрасываются, остальные ждут места или отмены ctx.
func (mb *memoryBus) Publish(ctx context.Context, ev *Envelope) error {
	mb.closeMu.RLock()
	defer mb.closeMu.RUnlock()
	if mb.closed {
		return ErrClosed
	}

	select {
	case mb.queue <- ev:
		mb.published.Add(1)
		return nil
	default:
	}

	if ev.Priority < PriorityHigh {
		mb.dropped.Add(1)
		return nil
	}
	select {
	case mb.queue <- ev:
		mb.published.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (mb *memoryBus) Subscribe(ctx context.Context, f Filter, h Handler) (Subscription, error) {
	mb.closeMu.RLock()
	defer mb.closeMu.RUnlock()
	if mb.closed {
		return nil, ErrClosed
	}

	sctx, cancel := context.WithCancel(ctx)
	mb.mu.Lock()
	sub := &memSub{
		bus:    mb,
		id:     mb.nextID,
		filter: f,
		inbox:  make(chan *Envelope, mb.capacity),
		ctx:    sctx,
		cancel: cancel,
	}
	mb.nextID++
	mb.subs[sub.id] = sub
	mb.mu.Unlock()

	mb.wg.Add(1)
	go sub.run(h)
	return sub, nil
}

func (mb *memoryBus) Metrics() Stats {
	return Stats{
		Published: mb.published.Load(),
		Consumed:  mb.consumed.Load(),
		Dropped:   mb.dropped.Load(),
		InFlight:  len(mb.queue),
	}
}

// Close прекращает приём событий и дожидается доставки уже принятых
func (mb *memoryBus) Close() error {
	mb.closeMu.Lock()
	if mb.closed {
		mb.closeMu.Unlock()
		return nil
	}
	mb.closed = true
	close(mb.queue)
	mb.closeMu.Unlock()

	<-mb.dispatched

	mb.mu.Lock()
	for id, sub := range mb.subs {
		close(sub.inbox)
		delete(mb.subs, id)
	}
	mb.mu.Unlock()

	mb.wg.Wait()
	return nil
}

func (mb *memoryBus) dispatchLoop() {
	defer close(mb.dispatched)
	for ev := range mb.queue {
		mb.mu.RLock()
		targets := make([]*memSub, 0, len(mb.subs))
		for _, sub := range mb.subs {
			if matchFilter(ev, sub.filter) {
				targets = append(targets, sub)
			}
		}
		mb.mu.RUnlock()

		for _, sub := range targets {
			select {
			case sub.inbox <- ev:
			case <-sub.ctx.Done():
			}
		}
	}
}

func (s *memSub) run(h Handler) {
	defer s.bus.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			return
		case ev, ok := <-s.inbox:
			if !ok {
				return
			}
			h(s.ctx, ev)
			s.bus.consumed.Add(1)
		}
	}
}

func (s *memSub) Unsubscribe() {
	s.cancel()
	s.bus.mu.Lock()
	delete(s.bus.subs, s.id)
	s.bus.mu.Unlock()
}

func matchFilter(ev *Envelope, f Filter) bool {
	match := func(val string, arr []string) bool {
		if len(arr) == 0 {
			return true
		}
		for _, v := range arr {
			if v == val {
				return true
			}
		}
		return false
	}
	return match(ev.EventType, f.Types) && match(ev.Source, f.Sources)
}
