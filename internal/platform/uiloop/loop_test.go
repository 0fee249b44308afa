package uiloop

import (
	"sync"
	"testing"
)

func TestLoopRunsInPostOrder(t *testing.T) {
	l := New()
	l.Start()
	defer l.Close()

	var got []int
	for i := 0; i < 100; i++ {
		i := i
		l.Post(func() { got = append(got, i) })
	}
	l.Flush()

	if len(got) != 100 {
		t.Fatalf("ran %d tasks, want 100", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("task %d ran at position %d", v, i)
		}
	}
}

func TestLoopAllowsPostFromTask(t *testing.T) {
	l := New()
	l.Start()
	defer l.Close()

	var wg sync.WaitGroup
	wg.Add(1)
	l.Post(func() {
		l.Post(func() { wg.Done() })
	})
	wg.Wait()
}

func TestLoopSurvivesPanic(t *testing.T) {
	l := New()
	l.Start()
	defer l.Close()

	l.Post(func() { panic("boom") })

	ran := false
	l.Post(func() { ran = true })
	l.Flush()

	if !ran {
		t.Fatal("task after panic did not run")
	}
}

func TestLoopCloseDrainsAndRejects(t *testing.T) {
	l := New()
	l.Start()

	count := 0
	for i := 0; i < 10; i++ {
		l.Post(func() { count++ })
	}
	l.Close()

	if count != 10 {
		t.Fatalf("count = %d, want 10", count)
	}
	if l.Post(func() {}) {
		t.Fatal("Post after Close returned true")
	}
}
