// Command station runs the emulator in streaming mode: a paced producer
// pushes antenna targets and signal samples through the mock hardware
// boundary while the receiver loop tracks and decides lock, and an HTTP
// surface exposes /status, /status/detail, and Prometheus /metrics.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/signalsfoundry/groundstation-emulator/core"
	"github.com/signalsfoundry/groundstation-emulator/internal/eventlog"
	"github.com/signalsfoundry/groundstation-emulator/internal/logging"
	"github.com/signalsfoundry/groundstation-emulator/internal/observability"
	"github.com/signalsfoundry/groundstation-emulator/timectrl"
	"github.com/signalsfoundry/groundstation-emulator/xlapi"
)

func main() {
	httpAddr := flag.String("http-addr", ":8080", "HTTP address for /status and /metrics")
	configPath := flag.String("config", "configs/sim_config.yaml", "path to the simulation config (empty for built-in defaults)")
	tlePath := flag.String("tle", "configs/iss.tle", "path to a TLE file for the tracked satellite")
	duration := flag.Duration("duration", 0, "pass duration override (default: config duration_sec)")
	accelerated := flag.Bool("accelerated", false, "run the producer in accelerated mode (vs real-time)")
	eventsPath := flag.String("events", "receiver_log.csv", "CSV event log path (empty to disable)")
	seed := flag.Uint64("seed", 42, "seed for the pointing-noise generator")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "failed to initialise tracing", logging.String("error", err.Error()))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	collector, err := observability.NewStationCollector(nil)
	if err != nil {
		log.Error(ctx, "failed to initialise metrics collector", logging.String("error", err.Error()))
		os.Exit(1)
	}

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
	tick := time.Duration(cfg.Simulation.TimeStepSec) * time.Second

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
	session, err := core.NewTrackingSession(antenna, lock, tick.Seconds(), log, events)
	if err != nil {
		log.Error(ctx, "failed to build tracking session", logging.String("error", err.Error()))
		os.Exit(1)
	}
	session.SetMetrics(collector)

	api := xlapi.New(xlapi.DefaultCapacity, log, events)
	api.SetMetrics(collector)
	receiver := core.NewStreamReceiver(api, session, core.StreamConfig{}, log, events)
	receiver.SetMetrics(collector)

	httpSrv := serveHTTP(*httpAddr, api, antenna, collector, log)

	// Producer: the time controller paces the pass; each tick propagates
	// the satellite and pushes one target plus one signal sample through
	// the boundary. Below-horizon geometry submits nothing, so the
	// receiver sees exactly the read-timeout path the hardware would
	// produce between passes.
	flyby := core.NewFlybyModel(line1, line2, cfg.GroundStationModel())
	sig := cfg.SignalParams()
	mode := timectrl.RealTime
	if *accelerated {
		mode = timectrl.Accelerated
	}
	tc := timectrl.NewTimeController(time.Now().UTC(), tick, mode)
	var prevRangeKm float64
	var havePrev bool
	tc.AddListener(func(simTime time.Time) {
		point := flyby.At(simTime)
		// Range rate by finite difference between consecutive ticks.
		if havePrev {
			point.RangeRateKmS = (point.RangeKm - prevRangeKm) / tick.Seconds()
		}
		prevRangeKm, havePrev = point.RangeKm, true
		if point.BelowHorizon {
			return
		}
		api.SubmitAntennaTargetAt(point.Time, point.AzimuthDeg, point.ElevationDeg)
		api.SubmitSignalSample(point.Time,
			core.DopplerShiftHz(point.RangeRateKmS, sig.FrequencyHz),
			core.EstimateSNRdB(sig, point))
	})

	log.Info(ctx, "station started",
		logging.String("satellite", name),
		logging.String("http_addr", *httpAddr),
		logging.String("duration", duration.String()),
		logging.String("tick", tick.String()),
		logging.Bool("accelerated", *accelerated))

	recvCtx, cancelRecv := context.WithCancel(ctx)
	recvDone := make(chan struct{})
	go func() {
		defer close(recvDone)
		if err := receiver.Run(recvCtx); err != nil {
			log.Error(ctx, "receiver exited", logging.String("error", err.Error()))
		}
	}()

	select {
	case <-tc.Start(ctx, *duration):
	case <-ctx.Done():
	}

	// Let the receiver drain what the producer already submitted, then
	// stop it and the HTTP surface.
	drainDeadline := time.Now().Add(core.DefaultReadTimeout)
	for api.Targets.Len() > 0 && time.Now().Before(drainDeadline) {
		time.Sleep(10 * time.Millisecond)
	}
	cancelRecv()
	<-recvDone

	summary := session.Summary()
	log.Info(ctx, "pass complete",
		logging.Int("ticks", summary.TotalTicks),
		logging.Int("locked_ticks", summary.LockedTicks),
		logging.Float("lock_pct", summary.LockPercentage),
		logging.Float("mean_err_deg", summary.MeanErrorDeg),
		logging.Float("max_err_deg", summary.MaxErrorDeg))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(shutdownCtx)
}

func serveHTTP(addr string, api *xlapi.API, antenna *core.AntennaController, collector *observability.StationCollector, log logging.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"status": api.Status()})
	})
	mux.HandleFunc("/status/detail", func(w http.ResponseWriter, r *http.Request) {
		status := api.StatusDetail()
		pose := antenna.Pose()
		writeJSON(w, map[string]any{
			"status":           status.State.String(),
			"pointing_err_deg": status.PointingErrDeg,
			"snr_db":           status.SNRdB,
			"snr_valid":        status.SNRValid,
			"time":             status.Time,
			"azimuth_deg":      pose.AzimuthDeg,
			"elevation_deg":    pose.ElevationDeg,
		})
	})
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn(context.Background(), "http server exited", logging.String("error", err.Error()))
		}
	}()

	log.Info(context.Background(), "serving status and metrics", logging.String("addr", addr))
	return srv
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
