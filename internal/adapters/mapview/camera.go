package mapview

import (
	"sync"

	"map-weather-service/internal/domain"
)

// Initial viewport: centred on India at country zoom.
var (
	DefaultCenter = domain.Coordinate{Lat: 20.5937, Lon: 78.9629}
	DefaultZoom   = 5.0
)

type Viewport struct {
	Center   domain.Coordinate `json:"center"`
	Zoom     float64           `json:"zoom"`
	Animated bool              `json:"animated"`
	Moves    int               `json:"moves"`
}

// Camera is an in-memory MapCamera. Mutations come from the UI loop;
// Snapshot may be read from any goroutine.
type Camera struct {
	mu sync.RWMutex
	vp Viewport
}

func NewCamera() *Camera {
	return &Camera{vp: Viewport{Center: DefaultCenter, Zoom: DefaultZoom}}
}

// CenterOn jumps to c without animation.
func (c *Camera) CenterOn(at domain.Coordinate, zoom float64) {
	c.move(at, zoom, false)
}

func (c *Camera) AnimateTo(at domain.Coordinate, zoom float64) {
	c.move(at, zoom, true)
}

func (c *Camera) Snapshot() Viewport {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vp
}

func (c *Camera) move(at domain.Coordinate, zoom float64, animated bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.vp.Center = at
	c.vp.Zoom = zoom
	c.vp.Animated = animated
	c.vp.Moves++
}
