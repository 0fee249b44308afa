package location

import "sync/atomic"

// Permission holds the runtime grant for location sensing.
type Permission struct {
	granted atomic.Bool
}

func NewPermission(granted bool) *Permission {
	p := &Permission{}
	p.granted.Store(granted)
	return p
}

func (p *Permission) Granted() bool {
	return p.granted.Load()
}

func (p *Permission) Set(granted bool) {
	p.granted.Store(granted)
}
