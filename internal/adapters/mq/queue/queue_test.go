package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/levelboard/internal/domain/model"
)

func request(id string) model.ReloadRequest {
	return model.ReloadRequest{ID: id, Trigger: model.TriggerAPI, At: time.Now()}
}

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	if out, err := q.Enqueue(ctx, request("r1")); err != nil || out != OutcomeQueued {
		t.Fatalf("expected queued, got %v %v", out, err)
	}
	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	r := <-q.Dequeue(ctx)
	if r.ID != "r1" {
		t.Errorf("expected r1, got %v", r.ID)
	}
}

func TestInMemoryQueue_CoalescesWhenFull(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	for _, id := range []string{"r1", "r2"} {
		if out, _ := q.Enqueue(ctx, request(id)); out != OutcomeQueued {
			t.Fatalf("expected %s to be queued, got %v", id, out)
		}
	}

	out, err := q.Enqueue(ctx, request("r3"))
	if err != nil {
		t.Fatalf("expected no error when full, got %v", err)
	}
	if out != OutcomeCoalesced {
		t.Errorf("expected coalesced, got %v", out)
	}
	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestInMemoryQueue_Close(t *testing.T) {
	q := NewInMemoryQueue()
	ctx := context.Background()

	if _, err := q.Enqueue(ctx, request("r1")); err != nil {
		t.Fatal(err)
	}
	if err := q.Close(); err != nil {
		t.Fatal(err)
	}
	if err := q.Close(); err != nil {
		t.Errorf("second close should be a no-op, got %v", err)
	}

	out, err := q.Enqueue(ctx, request("r2"))
	if !errors.Is(err, ErrClosed) || out != OutcomeRejected {
		t.Errorf("expected rejection after close, got %v %v", out, err)
	}

	// Pending requests drain before the channel closes.
	var got []string
	for r := range q.Dequeue(ctx) {
		got = append(got, r.ID)
	}
	if len(got) != 1 || got[0] != "r1" {
		t.Errorf("expected [r1], got %v", got)
	}
}

func TestInMemoryQueue_CanceledContext(t *testing.T) {
	q := NewInMemoryQueue()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := q.Enqueue(ctx, request("r1"))
	if !errors.Is(err, context.Canceled) || out != OutcomeRejected {
		t.Errorf("expected canceled rejection, got %v %v", out, err)
	}
}

func TestInMemoryQueue_ConcurrentProducers(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(3))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if _, err := q.Enqueue(ctx, request("r")); err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			}
		}()
	}
	wg.Wait()

	if l := q.Len(ctx); l != 3 {
		t.Errorf("expected a full queue of 3, got %d", l)
	}
}
