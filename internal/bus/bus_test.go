package bus

import (
	"sync"
	"testing"

	"cardlink/internal/domain"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	b := New()
	var got []int

	b.Subscribe(domain.EventContactsUpdated, func(payload any) {
		got = append(got, payload.(domain.ContactsUpdated).PendingCount)
	})
	b.Subscribe(domain.EventContactsUpdated, func(payload any) {
		got = append(got, payload.(domain.ContactsUpdated).PendingCount)
	})

	b.Publish(domain.EventContactsUpdated, domain.ContactsUpdated{PendingCount: 3})

	if len(got) != 2 || got[0] != 3 || got[1] != 3 {
		t.Fatalf("unexpected deliveries: %v", got)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := New()
	calls := 0
	release := b.Subscribe("evt", func(any) { calls++ })

	b.Publish("evt", nil)
	release()
	b.Publish("evt", nil)
	release() // releasing twice is harmless

	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestLateSubscriberMissesEarlierPublish(t *testing.T) {
	b := New()
	b.Publish("evt", nil)

	calls := 0
	b.Subscribe("evt", func(any) { calls++ })

	if calls != 0 {
		t.Fatalf("late subscriber must not see earlier publishes, got %d calls", calls)
	}
}

func TestPublishToUnknownEventIsNoop(t *testing.T) {
	b := New()
	b.Publish("nobody-listens", 42)
}

func TestConcurrentSubscribePublish(t *testing.T) {
	b := New()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := b.Subscribe("evt", func(any) {})
			b.Publish("evt", nil)
			release()
		}()
	}
	wg.Wait()
}
