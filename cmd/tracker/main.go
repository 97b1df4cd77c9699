// Command tracker runs one tracking pass in batch mode: it propagates a
// satellite over the configured ground station, drives the antenna through
// every tick of the pass, and prints the lock statistics at the end.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/signalsfoundry/groundstation-emulator/core"
	"github.com/signalsfoundry/groundstation-emulator/internal/eventlog"
	"github.com/signalsfoundry/groundstation-emulator/internal/logging"
)

func main() {
	configPath := flag.String("config", "configs/sim_config.yaml", "path to the simulation config (empty for built-in defaults)")
	tlePath := flag.String("tle", "configs/iss.tle", "path to a TLE file for the tracked satellite")
	startRaw := flag.String("start", "", "pass start time, RFC3339 (default: now)")
	duration := flag.Duration("duration", 0, "pass duration override (default: config duration_sec)")
	step := flag.Duration("step", 0, "tick interval override (default: config time_step_sec)")
	eventsPath := flag.String("events", "receiver_log.csv", "CSV event log path (empty to disable)")
	seed := flag.Uint64("seed", 42, "seed for the pointing-noise generator")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx := context.Background()

	cfg := core.DefaultSimConfig()
	if *configPath != "" {
		loaded, err := core.LoadSimConfigFile(*configPath)
		if err != nil {
			log.Error(ctx, "failed to load config", logging.String("path", *configPath), logging.String("error", err.Error()))
			os.Exit(1)
		}
		cfg = loaded
	}

	if *duration <= 0 {
		*duration = time.Duration(cfg.Simulation.DurationSec) * time.Second
	}
	if *step <= 0 {
		*step = time.Duration(cfg.Simulation.TimeStepSec) * time.Second
	}

	start := time.Now().UTC()
	if *startRaw != "" {
		parsed, err := time.Parse(time.RFC3339, *startRaw)
		if err != nil {
			log.Error(ctx, "invalid -start", logging.String("value", *startRaw), logging.String("error", err.Error()))
			os.Exit(1)
		}
		start = parsed.UTC()
	}

	name, line1, line2, err := core.LoadTLE(*tlePath)
	if err != nil {
		log.Error(ctx, "failed to load TLE", logging.String("path", *tlePath), logging.String("error", err.Error()))
		os.Exit(1)
	}

	var events *eventlog.Writer
	if *eventsPath != "" {
		events, err = eventlog.Open(*eventsPath)
		if err != nil {
			log.Error(ctx, "failed to open event log", logging.String("path", *eventsPath), logging.String("error", err.Error()))
			os.Exit(1)
		}
		defer events.Close()
	}

	antenna, err := core.NewAntennaController(cfg.AntennaParams(), *seed, log, events)
	if err != nil {
		log.Error(ctx, "failed to build antenna controller", logging.String("error", err.Error()))
		os.Exit(1)
	}
	lock := core.NewLockStateMachine(cfg.AntennaParams(), log, events)
	session, err := core.NewTrackingSession(antenna, lock, (*step).Seconds(), log, events)
	if err != nil {
		log.Error(ctx, "failed to build tracking session", logging.String("error", err.Error()))
		os.Exit(1)
	}

	flyby := core.NewFlybyModel(line1, line2, cfg.GroundStationModel())
	points := flyby.Series(start, *duration, *step)
	samples := core.SignalSeries(cfg.SignalParams(), points)
	inputs := core.PairSeries(points, samples)

	fmt.Printf("Tracking %s from (%.4f, %.4f): %s pass, %s ticks\n",
		name, cfg.GroundStation.LatitudeDeg, cfg.GroundStation.LongitudeDeg, *duration, *step)

	summary, err := session.Run(ctx, inputs)
	if err != nil {
		log.Error(ctx, "tracking pass aborted", logging.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Printf("Pass complete: %d ticks, %d locked (%.1f%%)\n",
		summary.TotalTicks, summary.LockedTicks, summary.LockPercentage)
	fmt.Printf("Pointing error: mean %.2f deg, max %.2f deg\n",
		summary.MeanErrorDeg, summary.MaxErrorDeg)
	if *eventsPath != "" {
		fmt.Printf("Event log written to %s\n", *eventsPath)
	}
}
