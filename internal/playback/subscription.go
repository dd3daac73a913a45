package playback

const eventBufferSize = 16

// Subscription provides event channels for a subscriber. Events are
// delivered in the order the controller processed them; sends never
// block, so a subscriber that stops draining sees dropped events, not
// a stalled controller.
type Subscription struct {
	StateChanged    <-chan StateChange
	PositionChanged <-chan PositionChange
	DurationChanged <-chan DurationChange
	VolumeChanged   <-chan VolumeChange
	RateChanged     <-chan RateChange
	MediaChanged    <-chan MediaChange
	PlaylistChanged <-chan PlaylistChange
	Buffering       <-chan BufferingProgress
	Error           <-chan ErrorEvent
	Done            <-chan struct{}

	// Internal write channels
	stateCh    chan StateChange
	positionCh chan PositionChange
	durationCh chan DurationChange
	volumeCh   chan VolumeChange
	rateCh     chan RateChange
	mediaCh    chan MediaChange
	playlistCh chan PlaylistChange
	bufferCh   chan BufferingProgress
	errorCh    chan ErrorEvent
	doneCh     chan struct{}
}

// newSubscription creates a new subscription with buffered channels.
func newSubscription() *Subscription {
	s := &Subscription{
		stateCh:    make(chan StateChange, eventBufferSize),
		positionCh: make(chan PositionChange, eventBufferSize),
		durationCh: make(chan DurationChange, eventBufferSize),
		volumeCh:   make(chan VolumeChange, eventBufferSize),
		rateCh:     make(chan RateChange, eventBufferSize),
		mediaCh:    make(chan MediaChange, eventBufferSize),
		playlistCh: make(chan PlaylistChange, eventBufferSize),
		bufferCh:   make(chan BufferingProgress, eventBufferSize),
		errorCh:    make(chan ErrorEvent, eventBufferSize),
		doneCh:     make(chan struct{}),
	}
	s.StateChanged = s.stateCh
	s.PositionChanged = s.positionCh
	s.DurationChanged = s.durationCh
	s.VolumeChanged = s.volumeCh
	s.RateChanged = s.rateCh
	s.MediaChanged = s.mediaCh
	s.PlaylistChanged = s.playlistCh
	s.Buffering = s.bufferCh
	s.Error = s.errorCh
	s.Done = s.doneCh
	return s
}

// close signals subscribers to stop by closing doneCh.
func (s *Subscription) close() {
	close(s.doneCh)
}

// sendState sends a state change event (non-blocking).
func (s *Subscription) sendState(e StateChange) {
	select {
	case s.stateCh <- e:
	default:
		// Drop if buffer full
	}
}

// sendPosition sends a position change event (non-blocking).
func (s *Subscription) sendPosition(e PositionChange) {
	select {
	case s.positionCh <- e:
	default:
	}
}

// sendDuration sends a duration change event (non-blocking).
func (s *Subscription) sendDuration(e DurationChange) {
	select {
	case s.durationCh <- e:
	default:
	}
}

// sendVolume sends a volume change event (non-blocking).
func (s *Subscription) sendVolume(e VolumeChange) {
	select {
	case s.volumeCh <- e:
	default:
	}
}

// sendRate sends a rate change event (non-blocking).
func (s *Subscription) sendRate(e RateChange) {
	select {
	case s.rateCh <- e:
	default:
	}
}

// sendMedia sends a media change event (non-blocking).
func (s *Subscription) sendMedia(e MediaChange) {
	select {
	case s.mediaCh <- e:
	default:
	}
}

// sendPlaylist sends a playlist change event (non-blocking).
func (s *Subscription) sendPlaylist(e PlaylistChange) {
	select {
	case s.playlistCh <- e:
	default:
	}
}

// sendBuffering sends a buffering progress event (non-blocking).
func (s *Subscription) sendBuffering(e BufferingProgress) {
	select {
	case s.bufferCh <- e:
	default:
	}
}

// sendError sends an error event (non-blocking).
func (s *Subscription) sendError(e ErrorEvent) {
	select {
	case s.errorCh <- e:
	default:
	}
}
