package assist

import "testing"

func TestEmitterDeliversInAttachOrder(t *testing.T) {
	e := newEmitter()
	var order []int
	e.On(EventUpdated, func(Event) { order = append(order, 1) })
	e.On(EventUpdated, func(Event) { order = append(order, 2) })
	e.On(EventAny, func(Event) { order = append(order, 3) })

	e.emit(Event{Type: EventUpdated})

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("delivery order = %v, want [1 2 3]", order)
	}
}

func TestEmitterIgnoresOtherTypes(t *testing.T) {
	e := newEmitter()
	var fired int
	e.On(EventFetched, func(Event) { fired++ })

	e.emit(Event{Type: EventUpdated})
	if fired != 0 {
		t.Errorf("listener fired %d times for a different event type", fired)
	}
}

func TestEmitterOff(t *testing.T) {
	e := newEmitter()
	var fired int
	sub := e.On(EventUpdated, func(Event) { fired++ })

	e.emit(Event{Type: EventUpdated})
	e.Off(sub)
	e.emit(Event{Type: EventUpdated})

	if fired != 1 {
		t.Errorf("expected 1 delivery, got %d", fired)
	}

	// Detaching twice is a no-op.
	e.Off(sub)
}

func TestEmitterOnce(t *testing.T) {
	e := newEmitter()
	var fired int
	e.Once(EventFinished, func(Event) { fired++ })

	e.emit(Event{Type: EventFinished})
	e.emit(Event{Type: EventFinished})

	if fired != 1 {
		t.Errorf("once listener fired %d times", fired)
	}
}

func TestEmitterListenerMayDetachDuringDelivery(t *testing.T) {
	e := newEmitter()
	var sub Subscription
	var fired int
	sub = e.On(EventUpdated, func(Event) {
		fired++
		e.Off(sub)
	})

	e.emit(Event{Type: EventUpdated})
	e.emit(Event{Type: EventUpdated})

	if fired != 1 {
		t.Errorf("self-detaching listener fired %d times", fired)
	}
}

func TestEmitterRemoveAll(t *testing.T) {
	e := newEmitter()
	var fired int
	e.On(EventUpdated, func(Event) { fired++ })
	e.On(EventAny, func(Event) { fired++ })

	e.removeAll()
	e.emit(Event{Type: EventUpdated})

	if fired != 0 {
		t.Errorf("detached listeners fired %d times", fired)
	}
}
