package main

import (
	"context"
	"os"
	"time"

	"github.com/jtn0123/ESP32-Temp-Sensor-sub003/refresh"
	"github.com/jtn0123/ESP32-Temp-Sensor-sub003/retention"
	"github.com/jtn0123/ESP32-Temp-Sensor-sub003/services/config"
	"github.com/jtn0123/ESP32-Temp-Sensor-sub003/services/display"
	"github.com/jtn0123/ESP32-Temp-Sensor-sub003/services/report"
	"github.com/jtn0123/ESP32-Temp-Sensor-sub003/services/sense"
	"github.com/jtn0123/ESP32-Temp-Sensor-sub003/x/strconvx"
	"github.com/jtn0123/ESP32-Temp-Sensor-sub003/x/timex"
)

// The node spends its life asleep. One iteration of the loop below is a
// wake episode: resume retention, sense, decide what the panel needs,
// checkpoint, sleep. On target the sleep is a deep sleep with almost
// everything powered off; on host it is a plain timer and the retention
// domain lives in a file.

func main() {
	device := os.Getenv("NODE_DEVICE")
	if device == "" {
		device = "default"
	}
	cfg, err := config.Load(device)
	if err != nil {
		println("Warn: config:", err.Error(), "- using defaults")
		cfg = config.Node{Device: device, WakeIntervalS: 150, MaxPartialUpdates: 10}
	}

	backing := newBacking()

	for {
		runWakeEpisode(backing, cfg)
		time.Sleep(time.Duration(cfg.WakeIntervalS) * time.Second)
	}
}

func runWakeEpisode(backing retention.Backing, cfg config.Node) {
	start := time.Now()

	dom, err := retention.Open(backing)
	if err != nil {
		println("Error: retention open:", err.Error())
		return
	}
	st, ring := dom.State, dom.Log

	st.IncrementWakeCount()
	now := timex.Now32()
	ring.Log(now, retention.LevelInfo, retention.ModMain,
		"wake "+strconvx.FormatUint(uint64(st.WakeCount()), 10))
	if dom.FreshBoot() {
		ring.Log(now, retention.LevelNotice, retention.ModStore, "fresh retention domain")
	}
	if n := st.CorruptionCount(); n > 0 {
		ring.Log(now, retention.LevelWarn, retention.ModStore,
			"state corruption resets: "+strconvx.FormatUint(uint64(n), 10))
	}

	// Diagnostic pump runs alongside the main task for the whole episode.
	pump := &report.Service{Ring: ring, Sink: report.DefaultSink()}
	pctx, stopPump := context.WithCancel(context.Background())
	pumpDone := make(chan struct{})
	go func() {
		pump.Run(pctx)
		close(pumpDone)
	}()

	// Sense phase.
	sensors := &sense.Service{Adaptors: adaptors(cfg, st.WakeCount()), Ring: ring}
	sample := sensors.Run(pctx)
	sense.Commit(st, sample)

	// Render phase: plan only; pixel work belongs to the panel driver.
	planner := display.NewPlanner(st, refresh.NewPolicy(cfg.MaxPartialUpdates))
	planner.Observe(timex.Now32())
	dec := planner.Plan()
	if dec.Full {
		ring.Log(timex.Now32(), retention.LevelInfo, retention.ModDisplay, "full refresh")
	} else if dec.Mask != 0 {
		ring.Log(timex.Now32(), retention.LevelInfo, retention.ModDisplay,
			"partial refresh mask=0x"+strconvx.FormatUint(uint64(dec.Mask), 16))
	} else {
		ring.Log(timex.Now32(), retention.LevelDebug, retention.ModDisplay, "no redraw needed")
	}
	planner.Commit(dec)

	// Sleep-entry: stop the pump, stamp the episode, checkpoint.
	st.SetWakeTimeMs(timex.SinceMs32(start))
	stopPump()
	<-pumpDone
	if err := dom.Checkpoint(); err != nil {
		println("Error: checkpoint:", err.Error())
	}
}
