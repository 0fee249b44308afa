package presentation

import (
	"context"
	"sync"
	"time"

	"map-weather-service/internal/domain"
)

type Kind string

const (
	KindResult  Kind = "result"
	KindMessage Kind = "message"
)

// Presentation is one thing shown to the user: a result dialog or a notice.
type Presentation struct {
	Seq     uint64                `json:"seq"`
	Kind    Kind                  `json:"kind"`
	Result  *domain.WeatherResult `json:"result,omitempty"`
	Message string                `json:"message,omitempty"`
	At      time.Time             `json:"at"`
}

// Feed is a PresentationSink that keeps the most recent presentations in
// memory and lets readers wait for new ones.
type Feed struct {
	mu      sync.Mutex
	limit   int
	seq     uint64
	entries []Presentation
	changed chan struct{}
	now     func() time.Time
}

func NewFeed(limit int) *Feed {
	if limit <= 0 {
		limit = 100
	}
	return &Feed{
		limit:   limit,
		changed: make(chan struct{}),
		now:     time.Now,
	}
}

func (f *Feed) ShowResult(result domain.WeatherResult) {
	f.append(Presentation{Kind: KindResult, Result: &result})
}

func (f *Feed) ShowMessage(text string) {
	f.append(Presentation{Kind: KindMessage, Message: text})
}

// Last returns the sequence number of the newest presentation (0 when empty).
func (f *Feed) Last() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seq
}

// Since returns retained presentations with Seq > after, oldest first.
func (f *Feed) Since(after uint64) []Presentation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sinceLocked(after)
}

// Wait blocks until at least one presentation newer than after exists or ctx ends.
func (f *Feed) Wait(ctx context.Context, after uint64) ([]Presentation, error) {
	for {
		f.mu.Lock()
		out := f.sinceLocked(after)
		changed := f.changed
		f.mu.Unlock()

		if len(out) > 0 {
			return out, nil
		}

		select {
		case <-changed:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (f *Feed) append(p Presentation) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	p.Seq = f.seq
	p.At = f.now()

	f.entries = append(f.entries, p)
	if len(f.entries) > f.limit {
		f.entries = append([]Presentation(nil), f.entries[len(f.entries)-f.limit:]...)
	}

	close(f.changed)
	f.changed = make(chan struct{})
}

func (f *Feed) sinceLocked(after uint64) []Presentation {
	out := make([]Presentation, 0)
	for _, p := range f.entries {
		if p.Seq > after {
			out = append(out, p)
		}
	}
	return out
}
