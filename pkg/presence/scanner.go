// Package presence promotes friends observed running the target game into
// joinable host entries by periodically sweeping the friends list and
// reading their published presence attributes.
package presence

import (
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/lobbylink/lobbylink/pkg/logging"
	"github.com/lobbylink/lobbylink/pkg/platform"
	"github.com/lobbylink/lobbylink/pkg/registry"
)

// DefaultScanInterval is the minimum time between two friend sweeps. The
// floor bounds the cost of friend-list enumeration and per-friend presence
// reads when the caller ticks every frame.
const DefaultScanInterval = 3 * time.Second

// Platform is the slice of the platform facade the scanner consumes.
type Platform interface {
	Friends() ([]platform.Friend, error)
	FriendPresence(friend uint64, key string) (string, error)
}

// Scanner sweeps the friends list and upserts hosting friends into the
// registry. It never marks entries inactive; only TTL expiry retires them.
type Scanner struct {
	api      Platform
	identity registry.Identity
	registry *registry.Registry
	clock    clock.Clock
	interval time.Duration
	lastScan time.Time
	log      *logging.ColoredLogger
}

// New creates a scanner with the given rate floor.
func New(api Platform, identity registry.Identity, reg *registry.Registry, interval time.Duration, clk clock.Clock, log *logging.ColoredLogger) *Scanner {
	if interval <= 0 {
		interval = DefaultScanInterval
	}
	if clk == nil {
		clk = clock.New()
	}
	return &Scanner{
		api:      api,
		identity: identity,
		registry: reg,
		clock:    clk,
		interval: interval,
		log:      log,
	}
}

// Scan performs one sweep, or nothing if called again before the rate floor
// elapsed. Friends currently online in the target game are classified as
// hosting when their status marker says so outright, or when they publish
// both a version marker and a connect-token (older hosts set connect
// metadata without the explicit status).
func (s *Scanner) Scan() {
	now := s.clock.Now()
	if !s.lastScan.IsZero() && now.Sub(s.lastScan) < s.interval {
		return
	}
	s.lastScan = now

	friends, err := s.api.Friends()
	if err != nil {
		s.log.ComponentDebug(logging.ComponentPresence, "friend enumeration failed", zap.Error(err))
		return
	}

	local := s.identity.LocalID()
	hosting := 0
	for _, friend := range friends {
		if friend.ID == 0 || friend.ID == local {
			continue
		}
		if !friend.Online || !friend.InGame {
			continue
		}
		if !s.isHosting(friend.ID) {
			continue
		}
		s.registry.Upsert(friend.ID, sessionName(friend), 1)
		hosting++
	}
	if hosting > 0 {
		s.log.ComponentDebug(logging.ComponentPresence, "scan complete",
			zap.Int("friends", len(friends)),
			zap.Int("hosting", hosting))
	}
}

// isHosting applies both classification paths independently.
func (s *Scanner) isHosting(friend uint64) bool {
	status, err := s.api.FriendPresence(friend, platform.PresenceKeyStatus)
	if err != nil {
		return false
	}
	if status == platform.StatusHosting {
		return true
	}

	version, err := s.api.FriendPresence(friend, platform.PresenceKeyVersion)
	if err != nil || version == "" {
		return false
	}
	connect, err := s.api.FriendPresence(friend, platform.PresenceKeyConnect)
	if err != nil {
		return false
	}
	return connect != ""
}

// sessionName synthesizes a registry display name from the friend's persona.
func sessionName(friend platform.Friend) string {
	if friend.DisplayName != "" {
		return fmt.Sprintf("%s's session", friend.DisplayName)
	}
	return fmt.Sprintf("Session %d", friend.ID)
}
