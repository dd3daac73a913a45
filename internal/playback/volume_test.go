package playback

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"

	"github.com/darkplay/darkplay/internal/engine"
)

func TestSetVolumeClamping(t *testing.T) {
	c, m, _ := newTestController(t, Options{})

	c.SetVolume(150)
	assert.Equal(t, 100, c.Volume())
	assert.Equal(t, 1.0, m.Volume())

	c.SetVolume(-20)
	assert.Equal(t, 0, c.Volume())
	assert.Equal(t, 0.0, m.Volume())

	c.SetVolume(80)
	assert.Equal(t, 80, c.Volume())
	assert.Equal(t, 0.8, m.Volume())
}

func TestVolumeSteps(t *testing.T) {
	c, _, _ := newTestController(t, Options{Volume: lo.ToPtr(50), VolumeStep: 5})

	c.IncreaseVolume(0) // 0 means the configured step
	assert.Equal(t, 55, c.Volume())

	c.DecreaseVolume(10)
	assert.Equal(t, 45, c.Volume())

	c.SetVolume(98)
	c.IncreaseVolume(0)
	assert.Equal(t, 100, c.Volume(), "step past 100 clamps")

	c.SetVolume(3)
	c.DecreaseVolume(0)
	assert.Equal(t, 0, c.Volume(), "step below 0 clamps")
}

func TestMuteRoundTrip(t *testing.T) {
	c, m, _ := newTestController(t, Options{})

	c.SetVolume(80)
	c.ToggleMute()
	assert.True(t, c.IsMuted())
	assert.Equal(t, 80, c.Volume(), "mute must not change the volume")
	assert.True(t, m.Muted())

	c.ToggleMute()
	assert.False(t, c.IsMuted())
	assert.Equal(t, 80, c.Volume(), "unmute restores the pre-mute volume")
	assert.False(t, m.Muted())
}

func TestUnmuteRestoresZeroedVolume(t *testing.T) {
	c, m, _ := newTestController(t, Options{})

	c.SetVolume(80)
	c.SetMuted(true)
	// Some engines zero their level while muted; simulate that.
	_ = m.SetVolume(0)

	c.SetMuted(false)
	assert.Equal(t, 80, c.Volume())
	assert.Equal(t, 0.8, m.Volume())
}

func TestSetMutedSameValueIsNoOp(t *testing.T) {
	c, _, sub := newTestController(t, Options{})

	c.SetMuted(false)
	select {
	case ev := <-sub.VolumeChanged:
		t.Errorf("redundant SetMuted published %+v", ev)
	default:
	}
}

func TestVolumeChangeEvents(t *testing.T) {
	c, _, sub := newTestController(t, Options{})

	c.SetVolume(30)
	ev := <-sub.VolumeChanged
	assert.Equal(t, 30, ev.Volume)
	assert.False(t, ev.Muted)

	c.SetMuted(true)
	ev = <-sub.VolumeChanged
	assert.Equal(t, 30, ev.Volume)
	assert.True(t, ev.Muted)
}

func TestRateClamping(t *testing.T) {
	c, m, _ := newTestController(t, Options{})

	c.SetRate(10)
	assert.Equal(t, MaxRate, c.Rate())
	assert.Equal(t, MaxRate, m.Rate())

	c.SetRate(0.01)
	assert.Equal(t, MinRate, c.Rate())

	c.SetRate(1.5)
	assert.Equal(t, 1.5, c.Rate())
}

func TestSpeedSteps(t *testing.T) {
	c, _, _ := newTestController(t, Options{})

	c.IncreaseSpeed()
	assert.Equal(t, 1.25, c.Rate())

	c.DecreaseSpeed()
	c.DecreaseSpeed()
	assert.Equal(t, 0.75, c.Rate())

	c.ResetSpeed()
	assert.Equal(t, 1.0, c.Rate())

	// Stepping never leaves the valid range.
	for i := 0; i < 30; i++ {
		c.IncreaseSpeed()
	}
	assert.Equal(t, MaxRate, c.Rate())
	for i := 0; i < 30; i++ {
		c.DecreaseSpeed()
	}
	assert.Equal(t, MinRate, c.Rate())
}

func TestInitialVolumeOptions(t *testing.T) {
	c := New(Options{})
	defer c.Close()
	assert.Equal(t, DefaultVolume, c.Volume(), "nil Volume takes the default")

	// An explicit zero is a real setting, not "unset".
	silent := New(Options{Volume: lo.ToPtr(0)})
	defer silent.Close()
	assert.Equal(t, 0, silent.Volume())
	assert.False(t, silent.IsMuted())
}

func TestVolumeSurvivesWithoutEngine(t *testing.T) {
	c := New(Options{})
	defer c.Close()

	c.SetVolume(65)
	assert.Equal(t, 65, c.Volume())

	// Binding an engine afterwards applies the cached settings.
	m := engine.NewMock()
	c.SetEngine(m)
	assert.Equal(t, 0.65, m.Volume())
}
