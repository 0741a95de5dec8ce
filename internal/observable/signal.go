package observable

import "weak"

// Handler receives values emitted by a Signal.
type Handler[T any] func(T)

// Subscription represents an active handler registration. It does not
// keep its Signal reachable.
type Subscription struct {
	id     uint64
	cancel func(id uint64)
}

// Unsubscribe removes the handler. Safe to call more than once and on nil.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.cancel == nil {
		return
	}
	s.cancel(s.id)
	s.cancel = nil
}

// Active reports whether the subscription is still registered.
func (s *Subscription) Active() bool {
	return s != nil && s.cancel != nil
}

type handlerEntry[T any] struct {
	id uint64
	fn Handler[T]
}

// Signal delivers values synchronously to its handlers in subscription order.
// The zero value is ready to use.
type Signal[T any] struct {
	nextID   uint64
	handlers []handlerEntry[T]
}

// Subscribe registers a handler.
func (s *Signal[T]) Subscribe(fn Handler[T]) *Subscription {
	s.nextID++
	id := s.nextID
	s.handlers = append(s.handlers, handlerEntry[T]{id: id, fn: fn})
	owner := weak.Make(s)
	return &Subscription{id: id, cancel: func(id uint64) {
		if sig := owner.Value(); sig != nil {
			sig.remove(id)
		}
	}}
}

// Emit calls every handler registered at the time of the call.
// Handlers added or removed during delivery take effect on the next Emit.
func (s *Signal[T]) Emit(v T) {
	for _, h := range s.handlers {
		h.fn(v)
	}
}

// Len returns the number of registered handlers.
func (s *Signal[T]) Len() int {
	return len(s.handlers)
}

// remove drops a handler by id. It builds a fresh slice so an Emit that is
// iterating over the previous one is unaffected.
func (s *Signal[T]) remove(id uint64) {
	for i, h := range s.handlers {
		if h.id == id {
			next := make([]handlerEntry[T], 0, len(s.handlers)-1)
			next = append(next, s.handlers[:i]...)
			next = append(next, s.handlers[i+1:]...)
			s.handlers = next
			return
		}
	}
}
