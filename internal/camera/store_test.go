package camera

import (
	"reflect"
	"testing"
)

func TestStore_PutGet(t *testing.T) {
	s := NewStore[string]()

	if _, ok := s.Get("missing"); ok {
		t.Error("Get(missing) ok = true, want false")
	}

	s.Put("a", "one")
	v, ok := s.Get("a")
	if !ok || v != "one" {
		t.Errorf("Get(a) = %q, %v, want one, true", v, ok)
	}

	s.Put("a", "two")
	v, _ = s.Get("a")
	if v != "two" {
		t.Errorf("Get(a) after overwrite = %q, want two", v)
	}
}

func TestStore_PutNotifiesOnce(t *testing.T) {
	s := NewStore[int]()

	var events []Event[int]
	s.Subscribe(func(e Event[int]) { events = append(events, e) })

	s.Put("dev", 42)

	if len(events) != 1 {
		t.Fatalf("observer saw %d events, want 1", len(events))
	}
	if events[0].ID != "dev" || events[0].Value != 42 {
		t.Errorf("event = %+v, want {dev 42}", events[0])
	}
}

func TestStore_PutQuietSkipsObservers(t *testing.T) {
	s := NewStore[int]()

	var events int
	s.Subscribe(func(Event[int]) { events++ })

	s.PutQuiet("dev", 1)

	if events != 0 {
		t.Errorf("observer saw %d events after PutQuiet, want 0", events)
	}
	if v, ok := s.Get("dev"); !ok || v != 1 {
		t.Errorf("Get(dev) = %d, %v, want 1, true", v, ok)
	}
}

func TestStore_ValueVisibleToObserver(t *testing.T) {
	s := NewStore[string]()

	// The write lands before observers run.
	s.Subscribe(func(e Event[string]) {
		if v, ok := s.Get(e.ID); !ok || v != e.Value {
			t.Errorf("Get(%s) inside observer = %q, %v, want %q", e.ID, v, ok, e.Value)
		}
	})

	s.Put("dev", "ready")
}

func TestStore_ObserverOrder(t *testing.T) {
	s := NewStore[int]()

	var order []string
	s.Subscribe(func(Event[int]) { order = append(order, "first") })
	s.Subscribe(func(Event[int]) { order = append(order, "second") })

	s.Put("dev", 1)

	if !reflect.DeepEqual(order, []string{"first", "second"}) {
		t.Errorf("observer order = %v", order)
	}
}

func TestStore_ListSorted(t *testing.T) {
	s := NewStore[string]()
	s.Put("c", "3")
	s.Put("a", "1")
	s.Put("b", "2")

	if got := s.IDs(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("IDs() = %v, want [a b c]", got)
	}
	if got := s.List(); !reflect.DeepEqual(got, []string{"1", "2", "3"}) {
		t.Errorf("List() = %v, want [1 2 3]", got)
	}
	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}
}
