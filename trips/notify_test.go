package trips_test

import (
	"testing"

	"github.com/warp/trip-engine/trips"
)

func TestDispatcher_FanOutAndCancel(t *testing.T) {
	d := trips.NewDispatcher()

	var a, b []string
	cancelA := d.Subscribe(func(id string) { a = append(a, id) })
	d.Subscribe(func(id string) { b = append(b, id) })

	d.TripsUpdated("leaf-1")
	if len(a) != 1 || len(b) != 1 {
		t.Fatalf("both subscribers should receive the signal, got %d/%d", len(a), len(b))
	}

	cancelA()
	d.TripsUpdated("leaf-1")
	if len(a) != 1 {
		t.Error("cancelled subscriber must not receive further signals")
	}
	if len(b) != 2 || b[1] != "leaf-1" {
		t.Errorf("remaining subscriber missed a signal: %v", b)
	}
}

func TestDispatcher_NoSubscribersIsFine(t *testing.T) {
	trips.NewDispatcher().TripsUpdated("leaf-1")
}

func TestNotifierFunc_Adapts(t *testing.T) {
	var got string
	var n trips.Notifier = trips.NotifierFunc(func(id string) { got = id })
	n.TripsUpdated("leaf-1")
	if got != "leaf-1" {
		t.Errorf("NotifierFunc did not forward, got %q", got)
	}
}
