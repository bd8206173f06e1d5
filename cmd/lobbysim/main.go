// lobbysim runs the discovery stack against the in-memory simulated
// platform: one host and a handful of friended guests share a world, the
// host opens a session and the guests discover and auto-join it.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lobbylink/lobbylink/pkg/config"
	"github.com/lobbylink/lobbylink/pkg/coordinator"
	"github.com/lobbylink/lobbylink/pkg/logging"
	"github.com/lobbylink/lobbylink/pkg/session"
	"github.com/lobbylink/lobbylink/pkg/sim"
)

func main() {
	configPath := flag.String("config", "", "Path to config YAML file (overrides defaults)")
	guests := flag.Int("guests", 2, "Number of friended guest players")
	tick := flag.Duration("tick", 500*time.Millisecond, "Coordinator tick interval")
	duration := flag.Duration("duration", 15*time.Second, "How long to run (0 = until interrupted)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.LoadFromFile(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		for _, err := range errs {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
		}
		os.Exit(1)
	}

	logger, err := logging.NewColoredLogger(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Colors)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	runID := uuid.NewString()
	logger.ComponentInfo(logging.ComponentGeneral, "lobbysim starting",
		zap.String("run", runID),
		zap.Int("guests", *guests))

	world := sim.NewWorld(logger)
	hostMod := world.AddAccount("host")
	host := coordinator.New(hostMod, cfg, nil, logger)

	guestCoords := make([]*coordinator.Coordinator, 0, *guests)
	for i := 0; i < *guests; i++ {
		mod := world.AddAccount(fmt.Sprintf("guest-%d", i+1))
		world.Befriend(hostMod.SelfID(), mod.SelfID())
		guestCoords = append(guestCoords, coordinator.New(mod, cfg, nil, logger))
	}

	host.OnMemberJoined(func(peerID uint64, groupToken string) {
		logger.ComponentInfo(logging.ComponentGeneral, "player joined the session",
			zap.Uint64("peer", peerID),
			zap.String("group", groupToken))
	})

	if err := host.RequestHost(); err != nil {
		logger.ComponentError(logging.ComponentGeneral, "failed to start hosting", zap.Error(err))
		os.Exit(1)
	}
	logger.ComponentInfo(logging.ComponentGeneral, "hosting session",
		zap.Uint64("host", host.LocalID()),
		zap.String("group", host.GroupToken()))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(*tick)
	defer ticker.Stop()

	var deadline <-chan time.Time
	if *duration > 0 {
		deadline = time.After(*duration)
	}

	for running := true; running; {
		select {
		case <-ticker.C:
			host.Tick()
			for _, guest := range guestCoords {
				guest.Tick()
				if guest.State() == session.StateIdle {
					if err := guest.RequestAutoJoin(); err != nil {
						logger.ComponentDebug(logging.ComponentGeneral, "auto-join not possible yet",
							zap.Uint64("guest", guest.LocalID()),
							zap.Error(err))
					}
				}
			}
		case <-sigCh:
			logger.ComponentInfo(logging.ComponentGeneral, "interrupted, shutting down")
			running = false
		case <-deadline:
			running = false
		}
	}

	joined := 0
	for _, guest := range guestCoords {
		if guest.State() == session.StateActive {
			joined++
		}
		if err := guest.RequestStop(); err != nil {
			logger.ComponentWarn(logging.ComponentGeneral, "guest stop failed", zap.Error(err))
		}
	}
	if err := host.RequestStop(); err != nil {
		logger.ComponentWarn(logging.ComponentGeneral, "host stop failed", zap.Error(err))
	}

	logger.ComponentInfo(logging.ComponentGeneral, "lobbysim finished",
		zap.String("run", runID),
		zap.Int("joined", joined),
		zap.Int("guests", *guests))
}
