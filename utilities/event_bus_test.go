package utilities

import "testing"

func TestEventBusPublishOrder(t *testing.T) {
	bus := NewEventBus()

	var got []int
	bus.Subscribe("evt", func(data interface{}) { got = append(got, 1) })
	bus.Subscribe("evt", func(data interface{}) { got = append(got, 2) })
	bus.Subscribe("other", func(data interface{}) { got = append(got, 99) })

	bus.Publish("evt", nil)

	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("handlers ran as %v, want [1 2]", got)
	}
}

func TestEventBusPassesPayload(t *testing.T) {
	bus := NewEventBus()

	var payload interface{}
	bus.Subscribe(EventPlanUpdated, func(data interface{}) { payload = data })
	bus.Publish(EventPlanUpdated, "plan v2")

	if payload != "plan v2" {
		t.Errorf("payload = %v", payload)
	}
}

func TestEventBusNoSubscribers(t *testing.T) {
	bus := NewEventBus()
	bus.Publish("nobody-listens", 42)
}
