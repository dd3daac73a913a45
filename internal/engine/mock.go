package engine

import (
	"sync"
	"time"
)

// Mock is a test double for Engine.
type Mock struct {
	mu sync.Mutex

	state    State
	position time.Duration
	duration time.Duration
	volume   float64
	muted    bool
	rate     float64
	info     MediaInfo
	lastErr  string

	loadErr error
	playErr error

	loadCalls  []string
	playCalls  int
	pauseCalls int
	stopCalls  int
	seekCalls  []time.Duration

	panicOnLoad     bool
	panicOnPlay     bool
	panicOnPosition bool

	events chan Event
	closed bool
}

// NewMock creates a new mock engine for testing.
func NewMock() *Mock {
	return &Mock{
		state:  StateStopped,
		volume: 1.0,
		rate:   1.0,
		events: make(chan Event, 32),
	}
}

// Load mimics a real engine's load discipline: interrupting active
// playback stops the engine and emits the Stopped transition before
// anything about the new media.
func (m *Mock) Load(locator string) error {
	m.mu.Lock()
	if m.panicOnLoad {
		m.mu.Unlock()
		panic("mock engine: load")
	}
	m.loadCalls = append(m.loadCalls, locator)
	wasActive := m.state != StateStopped
	if wasActive {
		m.state = StateStopped
		m.position = 0
	}
	err := m.loadErr
	if err == nil {
		m.info = MediaInfo{Locator: locator, Type: MediaAudio, HasAudio: true}
	}
	m.mu.Unlock()
	if wasActive {
		m.emit(Event{Kind: EventStateChanged, State: StateStopped})
	}
	if err != nil {
		return err
	}
	m.emit(Event{Kind: EventMediaLoaded, Locator: locator})
	return nil
}

func (m *Mock) Play() error {
	m.mu.Lock()
	if m.panicOnPlay {
		m.mu.Unlock()
		panic("mock engine: play")
	}
	m.playCalls++
	err := m.playErr
	if err == nil {
		m.state = StatePlaying
	}
	m.mu.Unlock()
	if err == nil {
		m.emit(Event{Kind: EventStateChanged, State: StatePlaying})
	}
	return err
}

func (m *Mock) Pause() error {
	m.mu.Lock()
	m.pauseCalls++
	changed := m.state == StatePlaying || m.state == StateBuffering
	if changed {
		m.state = StatePaused
	}
	m.mu.Unlock()
	if changed {
		m.emit(Event{Kind: EventStateChanged, State: StatePaused})
	}
	return nil
}

func (m *Mock) Stop() error {
	m.mu.Lock()
	m.stopCalls++
	changed := m.state != StateStopped
	m.state = StateStopped
	m.mu.Unlock()
	if changed {
		m.emit(Event{Kind: EventStateChanged, State: StateStopped})
	}
	return nil
}

func (m *Mock) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.panicOnPosition {
		panic("mock engine: position")
	}
	return m.position
}

func (m *Mock) SetPosition(pos time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seekCalls = append(m.seekCalls, pos)
	m.position = pos
	return nil
}

func (m *Mock) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

func (m *Mock) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

func (m *Mock) SetVolume(level float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = level
	return nil
}

func (m *Mock) Muted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.muted
}

func (m *Mock) SetMuted(muted bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.muted = muted
	return nil
}

func (m *Mock) Rate() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rate
}

func (m *Mock) SetRate(rate float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rate = rate
	return nil
}

func (m *Mock) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Mock) ErrorDescription() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

func (m *Mock) Info() MediaInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.info
}

func (m *Mock) Events() <-chan Event {
	return m.events
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	close(m.events)
	return nil
}

func (m *Mock) emit(ev Event) {
	m.mu.Lock()
	closed := m.closed
	m.mu.Unlock()
	if closed {
		return
	}
	select {
	case m.events <- ev:
	default:
	}
}

// Test helpers

func (m *Mock) SetState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

func (m *Mock) SetPlayError(err error) {
	m.mu.Lock()
	m.playErr = err
	m.mu.Unlock()
}

func (m *Mock) SetLoadError(err error) {
	m.mu.Lock()
	m.loadErr = err
	m.mu.Unlock()
}

func (m *Mock) SetDuration(d time.Duration) {
	m.mu.Lock()
	m.duration = d
	m.mu.Unlock()
}

func (m *Mock) SetPositionValue(d time.Duration) {
	m.mu.Lock()
	m.position = d
	m.mu.Unlock()
}

func (m *Mock) SetInfo(info MediaInfo) {
	m.mu.Lock()
	m.info = info
	m.mu.Unlock()
}

func (m *Mock) PanicOnLoad() {
	m.mu.Lock()
	m.panicOnLoad = true
	m.mu.Unlock()
}

func (m *Mock) PanicOnPlay() {
	m.mu.Lock()
	m.panicOnPlay = true
	m.mu.Unlock()
}

func (m *Mock) PanicOnPosition() {
	m.mu.Lock()
	m.panicOnPosition = true
	m.mu.Unlock()
}

func (m *Mock) LoadCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.loadCalls...)
}

func (m *Mock) PlayCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playCalls
}

func (m *Mock) StopCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopCalls
}

func (m *Mock) SeekCalls() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.seekCalls...)
}

// EmitState simulates an engine-originated state report.
func (m *Mock) EmitState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
	m.emit(Event{Kind: EventStateChanged, State: s})
}

// EmitError simulates an engine-originated error.
func (m *Mock) EmitError(msg string) {
	m.mu.Lock()
	m.lastErr = msg
	m.state = StateError
	m.mu.Unlock()
	m.emit(Event{Kind: EventError, Message: msg})
	m.emit(Event{Kind: EventStateChanged, State: StateError})
}

// EmitDuration simulates an engine-originated duration report.
func (m *Mock) EmitDuration(d time.Duration) {
	m.mu.Lock()
	m.duration = d
	m.mu.Unlock()
	m.emit(Event{Kind: EventDurationChanged, Duration: d})
}

// EmitBuffering simulates a buffering progress report.
func (m *Mock) EmitBuffering(progress int) {
	m.emit(Event{Kind: EventBuffering, Progress: progress})
}

// Verify Mock implements Engine at compile time.
var _ Engine = (*Mock)(nil)
