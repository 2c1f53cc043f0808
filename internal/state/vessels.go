// Package state maintains the authoritative in-memory view of all known
// vessels, merged from the bulk snapshot and the live stream, plus the
// position history of the one vessel being tracked.
package state

import (
	"iter"

	"github.com/seastream/aiswatch/internal/models"
)

// Index is the merged vessel view. It is owned by the UI event loop and is
// deliberately unsynchronized: every mutation happens on that single logical
// thread (tea.Cmd results are delivered as messages, never applied
// concurrently).
type Index struct {
	vessels map[string]models.VesselUpdate
	tracker *tracker
}

// NewIndex creates an empty vessel index.
func NewIndex() *Index {
	return &Index{
		vessels: make(map[string]models.VesselUpdate),
		tracker: newTracker(),
	}
}

// LoadInitial replaces the whole vessel mapping with a bulk snapshot and
// resets the derived track. Callers must not invoke this with the result of
// a failed fetch; a fetch error leaves the previous state untouched simply
// by never reaching this method.
func (x *Index) LoadInitial(records []models.VesselUpdate) {
	vessels := make(map[string]models.VesselUpdate, len(records))
	for _, v := range records {
		if v.MMSI == "" {
			continue
		}
		vessels[v.MMSI] = v
	}
	x.vessels = vessels
	x.tracker.resetTrack()
}

// ApplyUpdate upserts one streamed update by MMSI: a full replace, no
// per-field merge. Updates older than the stored state for the same vessel
// are ignored, so replays and out-of-order delivery cannot regress the view.
// If the update is for the tracked vessel, its position is appended to the
// track when the timestamp advances. O(1); called once per inbound message.
func (x *Index) ApplyUpdate(u models.VesselUpdate) {
	if u.MMSI == "" {
		return
	}
	if prev, ok := x.vessels[u.MMSI]; ok && u.Timestamp < prev.Timestamp {
		return
	}
	x.vessels[u.MMSI] = u

	if u.HasPosition() {
		x.tracker.observe(u.MMSI, models.TrackPoint{
			Latitude:  *u.Latitude,
			Longitude: *u.Longitude,
			Timestamp: u.Timestamp,
		})
	}
}

// Get returns the last known state for a vessel.
func (x *Index) Get(mmsi string) (models.VesselUpdate, bool) {
	v, ok := x.vessels[mmsi]
	return v, ok
}

// Len returns the number of known vessels.
func (x *Index) Len() int {
	return len(x.vessels)
}

// All iterates over every known vessel, in map order.
func (x *Index) All() iter.Seq[models.VesselUpdate] {
	return x.Filtered(func(models.VesselUpdate) bool { return true })
}

// Filtered returns a lazy, restartable view of the vessels satisfying pred.
// Nothing is cached: the vessel count is small enough that recomputing per
// render beats carrying invalidation state.
func (x *Index) Filtered(pred func(models.VesselUpdate) bool) iter.Seq[models.VesselUpdate] {
	return func(yield func(models.VesselUpdate) bool) {
		for _, v := range x.vessels {
			if !pred(v) {
				continue
			}
			if !yield(v) {
				return
			}
		}
	}
}

// BeginTracking selects mmsi for tracking, clears the track and returns the
// generation token the historical fetch must present to SeedTrack. Any
// previous tracking session ends here.
func (x *Index) BeginTracking(mmsi string) uint64 {
	return x.tracker.begin(mmsi)
}

// ResumeTracking re-enters tracking for mmsi without a history fetch, used
// after a reconnect when the track is continued optimistically.
func (x *Index) ResumeTracking(mmsi string) {
	x.tracker.resume(mmsi)
}

// SeedTrack installs a fetched historical track. The generation token guards
// against a late response for a vessel that is no longer being tracked.
func (x *Index) SeedTrack(gen uint64, points []models.TrackPoint) error {
	return x.tracker.seed(gen, points)
}

// AbortTracking cancels a tracking session whose historical fetch failed.
func (x *Index) AbortTracking(gen uint64) {
	x.tracker.abort(gen)
}

// EndTracking clears the tracked vessel and its track.
func (x *Index) EndTracking() {
	x.tracker.end()
}

// TrackedMMSI returns the vessel currently selected for tracking, or "".
func (x *Index) TrackedMMSI() string {
	return x.tracker.mmsi
}

// TrackingState reports the tracking slot's state machine position.
func (x *Index) TrackingState() TrackingState {
	return x.tracker.state()
}

// Track returns a copy of the tracked vessel's position history, oldest
// first.
func (x *Index) Track() []models.TrackPoint {
	if len(x.tracker.track) == 0 {
		return nil
	}
	out := make([]models.TrackPoint, len(x.tracker.track))
	copy(out, x.tracker.track)
	return out
}
