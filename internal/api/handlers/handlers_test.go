package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"map-weather-service/internal/adapters/location"
	"map-weather-service/internal/adapters/mapview"
	"map-weather-service/internal/adapters/presentation"
	"map-weather-service/internal/api/dto"
	"map-weather-service/internal/domain"
)

type mockScreen struct {
	tapFn        func(c domain.Coordinate) bool
	searchFn     func(city string) bool
	locateFn     func() bool
	permissionFn func(granted bool) bool
}

func (m *mockScreen) HandleTap(_ context.Context, c domain.Coordinate) bool {
	if m.tapFn == nil {
		return true
	}
	return m.tapFn(c)
}

func (m *mockScreen) HandleSearch(_ context.Context, city string) bool {
	if m.searchFn == nil {
		return strings.TrimSpace(city) != ""
	}
	return m.searchFn(city)
}

func (m *mockScreen) HandleLocateMe(_ context.Context) bool {
	if m.locateFn == nil {
		return true
	}
	return m.locateFn()
}

func (m *mockScreen) OnPermissionResult(_ context.Context, granted bool) bool {
	if m.permissionFn == nil {
		return true
	}
	return m.permissionFn(granted)
}

func post(t *testing.T, h http.HandlerFunc, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestTapAccepted(t *testing.T) {
	feed := presentation.NewFeed(0)
	feed.ShowMessage("earlier")

	var got domain.Coordinate
	h := &LookupHandler{
		Screen:  &mockScreen{tapFn: func(c domain.Coordinate) bool { got = c; return true }},
		Feed:    feed,
		MaxWait: time.Second,
	}

	rec := post(t, h.Tap, "/v1/taps", `{"lat": 19.076, "lon": 72.8777}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want %d (%s)", rec.Code, http.StatusAccepted, rec.Body)
	}

	var res dto.AcceptedResponse
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !res.Accepted || res.After != 1 {
		t.Fatalf("response = %+v, want accepted after 1", res)
	}
	if got != (domain.Coordinate{Lat: 19.076, Lon: 72.8777}) {
		t.Fatalf("tap coordinate = %v", got)
	}
}

func TestTapValidation(t *testing.T) {
	h := &LookupHandler{Screen: &mockScreen{}, Feed: presentation.NewFeed(0), MaxWait: time.Second}

	tests := []struct {
		name string
		body string
	}{
		{"missing lon", `{"lat": 10}`},
		{"out of range", `{"lat": 91, "lon": 0}`},
		{"unknown field", `{"lat": 1, "lon": 2, "zoom": 3}`},
		{"trailing object", `{"lat": 1, "lon": 2}{}`},
		{"not json", `lat=1`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, h.Tap, "/v1/taps", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestTapWaitReturnsNextPresentation(t *testing.T) {
	feed := presentation.NewFeed(0)
	feed.ShowMessage("earlier")

	h := &LookupHandler{
		Screen: &mockScreen{tapFn: func(c domain.Coordinate) bool {
			go feed.ShowResult(domain.WeatherResult{PlaceName: "Mumbai", TemperatureCelsius: 31, Coordinate: c})
			return true
		}},
		Feed:    feed,
		MaxWait: 2 * time.Second,
	}

	rec := post(t, h.Tap, "/v1/taps?wait=true", `{"lat": 19.076, "lon": 72.8777}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (%s)", rec.Code, http.StatusOK, rec.Body)
	}

	var res dto.PresentationsResponse
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.Presentations) != 1 {
		t.Fatalf("presentations = %d, want 1", len(res.Presentations))
	}
	p := res.Presentations[0]
	if p.Kind != presentation.KindResult || p.Result == nil || p.Result.PlaceName != "Mumbai" {
		t.Fatalf("presentation = %+v, want Mumbai result", p)
	}
	if res.Last != 2 {
		t.Fatalf("last = %d, want 2", res.Last)
	}
}

func TestTapWaitTimesOutToAccepted(t *testing.T) {
	h := &LookupHandler{Screen: &mockScreen{}, Feed: presentation.NewFeed(0), MaxWait: 20 * time.Millisecond}

	rec := post(t, h.Tap, "/v1/taps?wait=true", `{"lat": 1, "lon": 2}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusAccepted)
	}
}

func TestSearchRejectsBlankCity(t *testing.T) {
	h := &LookupHandler{Screen: &mockScreen{}, Feed: presentation.NewFeed(0), MaxWait: time.Second}

	rec := post(t, h.Search, "/v1/searches", `{"city": "   "}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	rec = post(t, h.Search, "/v1/searches", `{"city": "Pune"}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusAccepted)
	}
}

func TestLocateMeAfterShutdown(t *testing.T) {
	h := &LookupHandler{
		Screen:  &mockScreen{locateFn: func() bool { return false }},
		Feed:    presentation.NewFeed(0),
		MaxWait: time.Second,
	}

	rec := post(t, h.LocateMe, "/v1/locate", ``)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestPresentationsSinceCursor(t *testing.T) {
	feed := presentation.NewFeed(0)
	feed.ShowMessage("one")
	feed.ShowMessage("two")
	feed.ShowMessage("three")

	h := &LookupHandler{Screen: &mockScreen{}, Feed: feed, MaxWait: time.Second}

	req := httptest.NewRequest(http.MethodGet, "/v1/presentations?after=1", nil)
	rec := httptest.NewRecorder()
	h.Presentations(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var res dto.PresentationsResponse
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.Presentations) != 2 || res.Presentations[0].Message != "two" || res.Last != 3 {
		t.Fatalf("response = %+v, want [two three] last 3", res)
	}
}

func TestPresentationsBadQuery(t *testing.T) {
	h := &LookupHandler{Screen: &mockScreen{}, Feed: presentation.NewFeed(0), MaxWait: time.Second}

	for _, q := range []string{"after=-1", "after=x", "wait=soon"} {
		req := httptest.NewRequest(http.MethodGet, "/v1/presentations?"+q, nil)
		rec := httptest.NewRecorder()
		h.Presentations(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want %d", q, rec.Code, http.StatusBadRequest)
		}
	}
}

func TestFixRequiresEnabledTracker(t *testing.T) {
	tracker := location.NewTracker()
	h := &LocationHandler{
		Screen:     &mockScreen{},
		Tracker:    tracker,
		Permission: location.NewPermission(false),
		Camera:     mapview.NewCamera(),
	}

	rec := post(t, h.Fix, "/v1/location/fixes", `{"lat": 18.52, "lon": 73.85}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusConflict)
	}

	tracker.Enable()
	rec = post(t, h.Fix, "/v1/location/fixes", `{"lat": 18.52, "lon": 73.85}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusAccepted)
	}
	if c, ok := tracker.CurrentLocation(); !ok || c.Lat != 18.52 {
		t.Fatalf("current location = %v, %v", c, ok)
	}

	rec = httptest.NewRecorder()
	h.LoseFix(rec, httptest.NewRequest(http.MethodDelete, "/v1/location/fixes", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if _, ok := tracker.CurrentLocation(); ok {
		t.Fatalf("current location still set after loss")
	}
}

func TestPermissionUpdatesGrantAndScreen(t *testing.T) {
	perm := location.NewPermission(false)
	var answered []bool
	h := &LocationHandler{
		Screen: &mockScreen{permissionFn: func(granted bool) bool {
			answered = append(answered, granted)
			return true
		}},
		Tracker:    location.NewTracker(),
		Permission: perm,
		Camera:     mapview.NewCamera(),
	}

	rec := post(t, h.SetPermission, "/v1/location/permission", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	rec = post(t, h.SetPermission, "/v1/location/permission", `{"granted": true}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusAccepted)
	}
	if !perm.Granted() {
		t.Fatalf("permission not granted")
	}
	if len(answered) != 1 || !answered[0] {
		t.Fatalf("screen answers = %v, want [true]", answered)
	}
}

func TestCameraSnapshot(t *testing.T) {
	cam := mapview.NewCamera()
	cam.AnimateTo(domain.Coordinate{Lat: 18.52, Lon: 73.85}, 10)

	h := &LocationHandler{Screen: &mockScreen{}, Camera: cam}

	req := httptest.NewRequest(http.MethodGet, "/v1/camera", nil)
	rec := httptest.NewRecorder()
	h.CameraSnapshot(rec, req)

	var res dto.CameraResponse
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Lat != 18.52 || res.Zoom != 10 || !res.Animated {
		t.Fatalf("camera = %+v", res)
	}
}
