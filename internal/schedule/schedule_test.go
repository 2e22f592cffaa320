package schedule

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestAddEveryRunsJob(t *testing.T) {
	s := New(time.UTC)
	var runs int32
	if err := s.AddEvery("test", time.Second, func() error {
		atomic.AddInt32(&runs, 1)
		return nil
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s.Start()
	defer s.Stop()

	time.Sleep(2500 * time.Millisecond)
	if atomic.LoadInt32(&runs) == 0 {
		t.Error("expected job to run at least once")
	}
}

func TestSingleFlightPerJob(t *testing.T) {
	s := New(time.UTC)
	var active, maxActive int32
	s.AddEvery("slow", time.Second, func() error {
		cur := atomic.AddInt32(&active, 1)
		for {
			old := atomic.LoadInt32(&maxActive)
			if cur <= old || atomic.CompareAndSwapInt32(&maxActive, old, cur) {
				break
			}
		}
		time.Sleep(1500 * time.Millisecond)
		atomic.AddInt32(&active, -1)
		return nil
	})

	s.Start()
	time.Sleep(3500 * time.Millisecond)
	s.Stop()

	if got := atomic.LoadInt32(&maxActive); got != 1 {
		t.Errorf("expected single-flight execution, saw %d concurrent runs", got)
	}
}

func TestIndependentJobsDoNotBlock(t *testing.T) {
	s := New(time.UTC)
	var fastRuns int32
	s.AddEvery("slow", time.Second, func() error {
		time.Sleep(5 * time.Second)
		return nil
	})
	s.AddEvery("fast", time.Second, func() error {
		atomic.AddInt32(&fastRuns, 1)
		return nil
	})

	s.Start()
	time.Sleep(2500 * time.Millisecond)

	if atomic.LoadInt32(&fastRuns) == 0 {
		t.Error("expected fast job to run while slow job is stuck")
	}
	// Don't wait for the slow job; Stop would block on it.
	go s.Stop()
}

func TestAddDailyRejectsBadHour(t *testing.T) {
	s := New(time.UTC)
	if err := s.AddDaily("report", 25, func() error { return nil }); err == nil {
		t.Error("expected error for out-of-range hour")
	}
}
