package view

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestScheduler_ZeroDelayRunsInline(t *testing.T) {
	s := newScheduler()
	ran := false
	s.schedule("k", 0, func() { ran = true })
	if !ran {
		t.Error("zero delay must run synchronously")
	}
}

func TestScheduler_LatestWinsPerKey(t *testing.T) {
	s := newScheduler()
	var got atomic.Int32
	var calls atomic.Int32

	for i := 1; i <= 5; i++ {
		v := int32(i)
		s.schedule("k", 10*time.Millisecond, func() {
			calls.Add(1)
			got.Store(v)
		})
	}

	time.Sleep(60 * time.Millisecond)
	if c := calls.Load(); c != 1 {
		t.Errorf("ran %d times, want 1", c)
	}
	if v := got.Load(); v != 5 {
		t.Errorf("ran with value %d, want 5", v)
	}
}

func TestScheduler_KeysAreIndependent(t *testing.T) {
	s := newScheduler()
	var wg sync.WaitGroup
	wg.Add(2)
	s.schedule("a", 5*time.Millisecond, wg.Done)
	s.schedule("b", 5*time.Millisecond, wg.Done)

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("independent keys should both fire")
	}
}

func TestScheduler_StopCancelsPending(t *testing.T) {
	s := newScheduler()
	var calls atomic.Int32
	s.schedule("k", 10*time.Millisecond, func() { calls.Add(1) })
	s.stop()

	time.Sleep(40 * time.Millisecond)
	if c := calls.Load(); c != 0 {
		t.Errorf("cancelled task ran %d times", c)
	}
}
