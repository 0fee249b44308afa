package presentation

import (
	"fmt"
	"io"
	"strconv"
	"sync"

	"map-weather-service/internal/domain"
)

// Terminal renders presentations as plain text, for the CLI.
type Terminal struct {
	mu sync.Mutex
	w  io.Writer
}

func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w}
}

func (t *Terminal) ShowResult(result domain.WeatherResult) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprint(t.w, FormatResult(result))
}

func (t *Terminal) ShowMessage(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.w, text)
}

// FormatResult renders the weather dialog body.
func FormatResult(r domain.WeatherResult) string {
	return fmt.Sprintf(
		"Weather Info\nLocation: %s\nTemperature: %s°C\n",
		r.PlaceName, strconv.FormatFloat(r.TemperatureCelsius, 'f', -1, 64),
	)
}
