package keepalivestats

import (
	"errors"
	"sort"
	"sync"
	"time"
)

var (
	// ErrIDOutOfRange indicates a network id or slot outside the 16-bit
	// range.
	ErrIDOutOfRange = errors.New("keepalivestats: network id or slot out of range")

	// ErrDuplicateKeepalive indicates a start for a (network, slot) pair
	// that is already tracked.
	ErrDuplicateKeepalive = errors.New("keepalivestats: keepalive already started")

	// ErrUnknownKeepalive indicates a pause/resume/stop for a (network,
	// slot) pair that was never started.
	ErrUnknownKeepalive = errors.New("keepalivestats: unknown keepalive")
)

// UnknownCarrierID marks a keepalive whose carrier could not be resolved.
const UnknownCarrierID = -1

// Clock supplies a monotonic uptime so durations stay correct across wall
// clock and timezone changes.
type Clock interface {
	UptimeMillis() int64
}

type systemClock struct {
	start time.Time
}

func (c systemClock) UptimeMillis() int64 {
	return time.Since(c.start).Milliseconds()
}

// Properties describes a keepalive at start time.
type Properties struct {
	// CarrierID of the underlying network, or UnknownCarrierID.
	CarrierID int

	// TransportTypes of the underlying network, one bit per transport.
	TransportTypes uint32

	// IntervalSeconds between keepalive probes.
	IntervalSeconds int
}

// DurationForNumOfKeepalive reports time spent at one concurrency level.
// Registered counts time with exactly NumOfKeepalive keepalives tracked;
// Active counts time with exactly NumOfKeepalive keepalives not suspended.
type DurationForNumOfKeepalive struct {
	NumOfKeepalive           int
	RegisteredDurationMillis int64
	ActiveDurationMillis     int64
}

// KeepaliveLifetimeForCarrier reports accumulated keepalive lifetimes for
// one (carrier, transports, interval) combination.
type KeepaliveLifetimeForCarrier struct {
	CarrierID            int
	TransportTypes       uint32
	IntervalMillis       int
	LifetimeMillis       int64
	ActiveLifetimeMillis int64
}

// Metrics is an aggregated snapshot of everything the Tracker has observed
// during the current reporting window.
type Metrics struct {
	DurationPerNumOfKeepalive   []DurationForNumOfKeepalive
	KeepaliveLifetimePerCarrier []KeepaliveLifetimeForCarrier
}

// keepaliveStats accumulates the lifetime of a single keepalive.
type keepaliveStats struct {
	carrierID      int
	transportTypes uint32
	intervalMillis int

	lifetimeMillis       int64
	activeLifetimeMillis int64
	lastUpdate           int64
	active               bool
}

// update advances the lifetime counters to now and records the new active
// state. Call on every active-state transition.
func (s *keepaliveStats) update(now int64, active bool) {
	increase := now - s.lastUpdate
	s.lifetimeMillis += increase
	if s.active {
		s.activeLifetimeMillis += increase
	}
	s.lastUpdate = now
	s.active = active
}

// reset clears the lifetime counters without touching the active state.
func (s *keepaliveStats) reset(now int64) {
	s.lifetimeMillis = 0
	s.activeLifetimeMillis = 0
	s.lastUpdate = now
}

// snapshotAndReset advances the counters to now, returns them, and resets
// them for the next window.
func (s *keepaliveStats) snapshotAndReset(now int64) (lifetime, activeLifetime int64) {
	s.update(now, s.active)
	lifetime, activeLifetime = s.lifetimeMillis, s.activeLifetimeMillis
	s.reset(now)
	return lifetime, activeLifetime
}

type lifetimeKey struct {
	carrierID      int
	transportTypes uint32
	intervalMillis int
}

// Tracker aggregates keepalive metrics. It is safe for concurrent use.
type Tracker struct {
	mu    sync.Mutex
	clock Clock

	// Duration buckets indexed by number of concurrent keepalives.
	durations []DurationForNumOfKeepalive

	// Live keepalives keyed by the packed (network id, slot) pair.
	statsByID map[uint32]*keepaliveStats

	// Lifetime totals of stopped (and snapshotted) keepalives.
	aggregate map[lifetimeKey]*KeepaliveLifetimeForCarrier

	numRegistered int
	numActive     int
	lastUpdate    int64
}

// NewTracker returns a Tracker using a monotonic system clock.
func NewTracker() *Tracker {
	return NewTrackerWithClock(systemClock{start: time.Now()})
}

// NewTrackerWithClock returns a Tracker reading time from clock.
func NewTrackerWithClock(clock Clock) *Tracker {
	return &Tracker{
		clock:      clock,
		statsByID:  make(map[uint32]*keepaliveStats),
		aggregate:  make(map[lifetimeKey]*KeepaliveLifetimeForCarrier),
		lastUpdate: clock.UptimeMillis(),
	}
}

// keepaliveID packs a network id and slot into one key. Both are 16-bit, so
// the pair fits a uint32 with the network id in the high half.
func keepaliveID(netID, slot int) (uint32, error) {
	if netID < 0 || netID >= 1<<16 || slot < 0 || slot >= 1<<16 {
		return 0, ErrIDOutOfRange
	}
	return uint32(netID)<<16 | uint32(slot), nil
}

// ensureDurationsSize grows the duration buckets to cover the current number
// of registered keepalives.
func (t *Tracker) ensureDurationsSize() {
	for len(t.durations) <= t.numRegistered {
		t.durations = append(t.durations, DurationForNumOfKeepalive{
			NumOfKeepalive: len(t.durations),
		})
	}
}

// updateDurations credits the time since the last update to the buckets for
// the current registered and active counts. Must be called before changing
// either count.
func (t *Tracker) updateDurations(now int64) {
	t.ensureDurationsSize()

	increase := now - t.lastUpdate
	t.durations[t.numRegistered].RegisteredDurationMillis += increase
	t.durations[t.numActive].ActiveDurationMillis += increase
	t.lastUpdate = now
}

// OnStartKeepalive informs the Tracker a keepalive has just started and is
// active.
func (t *Tracker) OnStartKeepalive(netID, slot int, props Properties) error {
	id, err := keepaliveID(netID, slot)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.statsByID[id]; ok {
		return ErrDuplicateKeepalive
	}

	now := t.clock.UptimeMillis()
	t.updateDurations(now)

	t.numRegistered++
	t.numActive++

	t.statsByID[id] = &keepaliveStats{
		carrierID:      props.CarrierID,
		transportTypes: props.TransportTypes,
		intervalMillis: props.IntervalSeconds * 1000,
		lastUpdate:     now,
		active:         true,
	}
	return nil
}

// setActive records an active-state transition for the (netID, slot)
// keepalive at time now. The caller must hold t.mu.
func (t *Tracker) setActive(netID, slot int, active bool, now int64) (*keepaliveStats, error) {
	id, err := keepaliveID(netID, slot)
	if err != nil {
		return nil, err
	}
	stats, ok := t.statsByID[id]
	if !ok {
		return nil, ErrUnknownKeepalive
	}

	t.updateDurations(now)
	if active != stats.active {
		if active {
			t.numActive++
		} else {
			t.numActive--
		}
	}
	stats.update(now, active)
	return stats, nil
}

// OnPauseKeepalive informs the Tracker a keepalive has just been suspended.
func (t *Tracker) OnPauseKeepalive(netID, slot int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := t.setActive(netID, slot, false, t.clock.UptimeMillis())
	return err
}

// OnResumeKeepalive informs the Tracker a keepalive has just been resumed.
func (t *Tracker) OnResumeKeepalive(netID, slot int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := t.setActive(netID, slot, true, t.clock.UptimeMillis())
	return err
}

// OnStopKeepalive informs the Tracker a keepalive has just been stopped. Its
// accumulated lifetime moves into the per-carrier aggregate and its slot is
// freed.
func (t *Tracker) OnStopKeepalive(netID, slot int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock.UptimeMillis()
	stats, err := t.setActive(netID, slot, false, now)
	if err != nil {
		return err
	}

	t.numRegistered--
	t.addToAggregate(stats, now)

	id, _ := keepaliveID(netID, slot)
	delete(t.statsByID, id)
	return nil
}

// addToAggregate folds the lifetime of stats into the per-carrier aggregate
// and resets it. The caller must hold t.mu.
func (t *Tracker) addToAggregate(stats *keepaliveStats, now int64) {
	lifetime, activeLifetime := stats.snapshotAndReset(now)

	key := lifetimeKey{
		carrierID:      stats.carrierID,
		transportTypes: stats.transportTypes,
		intervalMillis: stats.intervalMillis,
	}
	total, ok := t.aggregate[key]
	if !ok {
		total = &KeepaliveLifetimeForCarrier{
			CarrierID:      stats.carrierID,
			TransportTypes: stats.transportTypes,
			IntervalMillis: stats.intervalMillis,
		}
		t.aggregate[key] = total
	}
	total.LifetimeMillis += lifetime
	total.ActiveLifetimeMillis += activeLifetime
}

// buildMetrics assembles a Metrics snapshot at time now. Live keepalives are
// folded into the aggregate and their counters restart from now, so
// consecutive snapshots never double count. The caller must hold t.mu.
func (t *Tracker) buildMetrics(now int64) Metrics {
	t.updateDurations(now)

	durations := make([]DurationForNumOfKeepalive, len(t.durations))
	copy(durations, t.durations)

	for _, stats := range t.statsByID {
		t.addToAggregate(stats, now)
	}

	lifetimes := make([]KeepaliveLifetimeForCarrier, 0, len(t.aggregate))
	for _, total := range t.aggregate {
		lifetimes = append(lifetimes, *total)
	}
	sort.Slice(lifetimes, func(i, j int) bool {
		a, b := lifetimes[i], lifetimes[j]
		if a.CarrierID != b.CarrierID {
			return a.CarrierID < b.CarrierID
		}
		if a.TransportTypes != b.TransportTypes {
			return a.TransportTypes < b.TransportTypes
		}
		return a.IntervalMillis < b.IntervalMillis
	})

	return Metrics{
		DurationPerNumOfKeepalive:   durations,
		KeepaliveLifetimePerCarrier: lifetimes,
	}
}

// BuildMetrics returns an aggregated snapshot of the current reporting
// window.
func (t *Tracker) BuildMetrics() Metrics {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buildMetrics(t.clock.UptimeMillis())
}

// BuildAndResetMetrics returns the snapshot BuildMetrics would and resets
// the stored metrics, keeping the state of live keepalives so the next
// window starts counting from zero.
func (t *Tracker) BuildAndResetMetrics() Metrics {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock.UptimeMillis()
	metrics := t.buildMetrics(now)

	t.durations = t.durations[:0]
	t.ensureDurationsSize()

	t.aggregate = make(map[lifetimeKey]*KeepaliveLifetimeForCarrier)
	for _, stats := range t.statsByID {
		stats.reset(now)
	}

	return metrics
}
