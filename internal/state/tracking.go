package state

import (
	"context"
	"errors"

	"github.com/looplab/fsm"

	"github.com/seastream/aiswatch/internal/models"
)

// TrackingState is the tracking slot's lifecycle position.
type TrackingState string

const (
	// TrackingIdle: no vessel selected.
	TrackingIdle TrackingState = "idle"
	// TrackingLoading: a vessel is selected, historical fetch in flight.
	TrackingLoading TrackingState = "loading"
	// TrackingActive: track seeded, live points are being appended.
	TrackingActive TrackingState = "tracking"
)

const (
	eventBegin  = "begin"
	eventSeed   = "seed"
	eventResume = "resume"
	eventAbort  = "abort"
	eventEnd    = "end"
)

// ErrStaleTrack is returned when a historical fetch resolves for a tracking
// session that has since been replaced or ended.
var ErrStaleTrack = errors.New("historical track response is stale")

// tracker owns the single "selected vessel" slot. The generation counter
// increments on every begin/resume/end, so an in-flight historical fetch
// started for an earlier session can never overwrite a newer one.
type tracker struct {
	machine *fsm.FSM
	mmsi    string
	gen     uint64
	track   []models.TrackPoint
}

func newTracker() *tracker {
	anyState := []string{string(TrackingIdle), string(TrackingLoading), string(TrackingActive)}
	return &tracker{
		machine: fsm.NewFSM(
			string(TrackingIdle),
			fsm.Events{
				{Name: eventBegin, Src: anyState, Dst: string(TrackingLoading)},
				{Name: eventSeed, Src: []string{string(TrackingLoading)}, Dst: string(TrackingActive)},
				{Name: eventResume, Src: anyState, Dst: string(TrackingActive)},
				{Name: eventAbort, Src: []string{string(TrackingLoading)}, Dst: string(TrackingIdle)},
				{Name: eventEnd, Src: anyState, Dst: string(TrackingIdle)},
			},
			fsm.Callbacks{},
		),
	}
}

func (t *tracker) state() TrackingState {
	return TrackingState(t.machine.Current())
}

func (t *tracker) begin(mmsi string) uint64 {
	t.machine.Event(context.Background(), eventBegin)
	t.mmsi = mmsi
	t.track = nil
	t.gen++
	return t.gen
}

func (t *tracker) resume(mmsi string) {
	t.machine.Event(context.Background(), eventResume)
	t.mmsi = mmsi
	t.track = nil
	t.gen++
}

func (t *tracker) seed(gen uint64, points []models.TrackPoint) error {
	if gen != t.gen || t.state() != TrackingLoading {
		return ErrStaleTrack
	}

	// Enforce the strictly-increasing invariant on the seed itself; the
	// server should honor it but the track must, regardless.
	t.track = t.track[:0]
	for _, p := range points {
		t.appendPoint(p)
	}
	t.machine.Event(context.Background(), eventSeed)
	return nil
}

func (t *tracker) abort(gen uint64) {
	if gen != t.gen || t.state() != TrackingLoading {
		return
	}
	t.machine.Event(context.Background(), eventAbort)
	t.mmsi = ""
	t.track = nil
}

func (t *tracker) end() {
	t.machine.Event(context.Background(), eventEnd)
	t.mmsi = ""
	t.track = nil
	t.gen++
}

// observe feeds a live position candidate. Points for other vessels, points
// outside the tracking state and points that do not advance the clock are
// silently dropped.
func (t *tracker) observe(mmsi string, p models.TrackPoint) {
	if t.state() != TrackingActive || mmsi != t.mmsi {
		return
	}
	t.appendPoint(p)
}

func (t *tracker) appendPoint(p models.TrackPoint) {
	if n := len(t.track); n > 0 && p.Timestamp <= t.track[n-1].Timestamp {
		return
	}
	t.track = append(t.track, p)
}

// resetTrack drops accumulated points without touching the selection, used
// when the whole vessel mapping is replaced by a fresh snapshot.
func (t *tracker) resetTrack() {
	t.track = nil
}
