package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/lo"

	"github.com/darkplay/darkplay/internal/config"
	"github.com/darkplay/darkplay/internal/engine"
	"github.com/darkplay/darkplay/internal/engine/beepengine"
	"github.com/darkplay/darkplay/internal/log"
	"github.com/darkplay/darkplay/internal/mpris"
	"github.com/darkplay/darkplay/internal/notify"
	"github.com/darkplay/darkplay/internal/playback"
	"github.com/darkplay/darkplay/internal/state"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "darkplay: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	engineName := flag.String("engine", "", "media engine to use (default: best available)")
	listEngines := flag.Bool("engines", false, "list available media engines and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := log.Setup(cfg.LogLevel(), cfg.Log.File); err != nil {
		return err
	}

	registry := engine.NewRegistry()
	registry.Register(beepengine.Factory{})

	if *listEngines {
		for _, name := range registry.Names() {
			fmt.Println(name)
		}
		return nil
	}

	pb := cfg.GetPlaybackConfig()
	name := pb.Engine
	if *engineName != "" {
		name = *engineName
	}
	eng, err := registry.New(name)
	if err != nil {
		return err
	}

	var mgr *state.Manager
	if cfg.PersistState() {
		mgr, err = state.Open(cfg.State.Path)
		if err != nil {
			log.Warnf("state persistence disabled: %v", err)
			mgr = nil
		} else {
			defer mgr.Close()
		}
	}

	ctl := playback.New(playback.Options{
		Volume:     lo.ToPtr(pb.DefaultVolume),
		Muted:      pb.Muted,
		AutoPlay:   pb.AutoPlay,
		Repeat:     pb.Repeat,
		SeekStep:   pb.SeekStep(),
		VolumeStep: pb.VolumeStep,
	})
	defer ctl.Close()
	ctl.SetEngine(eng)
	if pb.Rate != 1.0 {
		ctl.SetRate(pb.Rate)
	}

	// Saved settings win over config defaults.
	var saved *state.PlayerState
	if mgr != nil {
		if saved, err = mgr.GetPlayer(); err != nil {
			log.Warnf("failed to load saved player state: %v", err)
			saved = nil
		} else {
			ctl.SetVolume(saved.Volume)
			ctl.SetMuted(saved.Muted)
			ctl.SetRate(saved.Rate)
			ctl.SetAutoPlay(saved.AutoPlay)
			ctl.SetRepeat(saved.Repeat)
		}
	}

	if adapter, err := mpris.New(ctl); err != nil {
		log.Warnf("mpris unavailable: %v", err)
	} else {
		defer adapter.Close()
	}

	notifier, err := notify.New()
	if err != nil {
		log.Warnf("desktop notifications unavailable: %v", err)
		notifier = nil
	}

	sub := ctl.Subscribe()
	go watchEvents(sub, notifier)

	if err := loadPlaylist(ctl, mgr, saved, flag.Args()); err != nil {
		return err
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")

	if mgr != nil {
		persist(mgr, ctl)
	}
	return nil
}

// loadPlaylist seeds the controller with the files given on the
// command line, falling back to the previously saved playlist.
func loadPlaylist(ctl *playback.Controller, mgr *state.Manager, saved *state.PlayerState, args []string) error {
	if len(args) > 0 {
		if err := ctl.SetPlaylist(args); err != nil {
			return err
		}
		// Files on the command line mean "play now" even when
		// auto-play is off; with auto-play on, SetPlaylist has
		// already started the first entry.
		if !ctl.AutoPlay() {
			if cur := ctl.CurrentIndex(); cur >= 0 {
				if err := ctl.Open(ctl.Playlist()[cur]); err != nil {
					return err
				}
				return ctl.Play()
			}
		}
		return nil
	}

	if mgr == nil {
		return nil
	}
	entries, err := mgr.GetPlaylist()
	if err != nil {
		log.Warnf("failed to load saved playlist: %v", err)
		return nil
	}
	if len(entries) == 0 {
		return nil
	}
	if err := ctl.SetPlaylist(entries); err != nil {
		log.Warnf("failed to restore playlist: %v", err)
		return nil
	}
	if saved != nil && saved.CurrentIndex >= 0 {
		if err := ctl.SetCurrentIndex(saved.CurrentIndex); err != nil {
			log.Debugf("saved playlist index no longer valid: %v", err)
		}
	}
	return nil
}

// persist saves the playback settings and playlist for the next run.
func persist(mgr *state.Manager, ctl *playback.Controller) {
	err := mgr.SavePlayer(state.PlayerState{
		Volume:       ctl.Volume(),
		Muted:        ctl.IsMuted(),
		AutoPlay:     ctl.AutoPlay(),
		Repeat:       ctl.Repeat(),
		Rate:         ctl.Rate(),
		CurrentIndex: ctl.CurrentIndex(),
	})
	if err != nil {
		log.Errorf("failed to save player state: %v", err)
	}
	if err := mgr.SavePlaylist(ctl.Playlist()); err != nil {
		log.Errorf("failed to save playlist: %v", err)
	}
}

// watchEvents mirrors the controller's event stream into the log and
// raises a now-playing toast on track changes, until the subscription
// is closed.
func watchEvents(sub *playback.Subscription, notifier notify.Notifier) {
	var toastID uint32
	for {
		select {
		case ev := <-sub.StateChanged:
			log.Infof("state: %s -> %s", ev.Previous, ev.Current)
		case ev := <-sub.MediaChanged:
			log.Infof("now playing: %s (%s)", ev.Title, ev.Locator)
			if notifier != nil {
				id, err := notifier.Notify(notify.Notification{
					Title:      "Now Playing",
					Body:       ev.Title,
					Icon:       notify.ArtworkPath(ev.Locator),
					Timeout:    5000,
					ReplacesID: toastID,
				})
				if err != nil {
					log.Debugf("notification failed: %v", err)
				} else if id != 0 {
					toastID = id
				}
			}
		case ev := <-sub.VolumeChanged:
			log.Debugf("volume: %d%% muted=%v", ev.Volume, ev.Muted)
		case ev := <-sub.RateChanged:
			log.Debugf("rate: %.2fx", ev.Rate)
		case ev := <-sub.Error:
			log.Errorf("playback error (%s): %s", ev.Op, ev.Message)
		case <-sub.Done:
			return
		}
	}
}
