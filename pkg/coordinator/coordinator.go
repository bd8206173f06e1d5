// Package coordinator owns the discovery registry, presence scanner,
// session lifecycle and membership tracker, and exposes the surface the
// surrounding application (overlay, invite handlers, tick driver) calls.
package coordinator

import (
	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/lobbylink/lobbylink/pkg/config"
	"github.com/lobbylink/lobbylink/pkg/errors"
	"github.com/lobbylink/lobbylink/pkg/logging"
	"github.com/lobbylink/lobbylink/pkg/membership"
	"github.com/lobbylink/lobbylink/pkg/platform"
	"github.com/lobbylink/lobbylink/pkg/presence"
	"github.com/lobbylink/lobbylink/pkg/registry"
	"github.com/lobbylink/lobbylink/pkg/session"
)

// Coordinator wires all discovery components over one native platform
// module. All state is owned here; nothing is process-global.
type Coordinator struct {
	cfg *config.Config
	log *logging.ColoredLogger

	api       *platform.API
	identity  *platform.IdentityCache
	registry  *registry.Registry
	scanner   *presence.Scanner
	lifecycle *session.Lifecycle
	tracker   *membership.Tracker
}

// New builds a coordinator over the loaded native module. A nil clock uses
// wall time; tests pass a mock.
func New(native interface{}, cfg *config.Config, clk clock.Clock, log *logging.ColoredLogger) *Coordinator {
	if cfg == nil {
		cfg = config.Default()
	}
	if clk == nil {
		clk = clock.New()
	}

	api := platform.NewAPI(native, log)
	identity := platform.NewIdentityCache(api, log)
	reg := registry.New(identity, cfg.Discovery.HostTTL, clk, log)
	lifecycle := session.New(api, identity, reg, cfg.Session, log)

	return &Coordinator{
		cfg:       cfg,
		log:       log,
		api:       api,
		identity:  identity,
		registry:  reg,
		scanner:   presence.New(api, identity, reg, cfg.Discovery.ScanInterval, clk, log),
		lifecycle: lifecycle,
		tracker:   membership.New(api, identity, lifecycle, log),
	}
}

// OnInviteReceived records a platform invite. The invite wins the next
// auto-join outright.
func (c *Coordinator) OnInviteReceived(inviterID uint64, lobbyToken string) {
	c.registry.SetInvite(inviterID, lobbyToken)
}

// RequestHost starts hosting a session.
func (c *Coordinator) RequestHost() error {
	return c.lifecycle.StartHosting()
}

// RequestStop tears the current session down, whatever its state.
func (c *Coordinator) RequestStop() error {
	return c.lifecycle.StopSession()
}

// RequestAutoJoin selects the best available host and joins its session
// group. A consumed invite is cleared before the join is attempted, so a
// stale invite can never be replayed by a later join.
func (c *Coordinator) RequestAutoJoin() error {
	best := c.registry.BestAvailableHost()
	if best.PeerID == 0 {
		return errors.NewNotReadyError("no joinable host discovered")
	}

	var group uint64
	if invite, ok := c.registry.CurrentInvite(); ok && invite.InviterID == best.PeerID {
		c.registry.ClearInvite()
		id, err := platform.NormalizeIdentifier(invite.LobbyToken)
		if err != nil {
			c.log.ComponentWarn(logging.ComponentCoordinator, "invite carried malformed lobby token",
				zap.Uint64("inviter", invite.InviterID),
				zap.Error(err))
		} else {
			group = id
		}
	}

	if group == 0 {
		connect, err := c.api.FriendPresence(best.PeerID, platform.PresenceKeyConnect)
		if err != nil {
			return errors.NewOperationError(platform.OpFriendPresence, err)
		}
		if connect != "" {
			id, err := platform.NormalizeIdentifier(connect)
			if err != nil {
				return err
			}
			group = id
		}
	}
	if group == 0 {
		return errors.NewNotReadyError("selected host has no connect token")
	}

	c.log.ComponentInfo(logging.ComponentCoordinator, "auto-joining",
		zap.Uint64("host", best.PeerID),
		zap.Uint64("group", group))
	return c.lifecycle.StartJoining(group)
}

// OnMemberJoined registers the observer for session-group join events.
func (c *Coordinator) OnMemberJoined(handler membership.JoinHandler) {
	c.tracker.OnMemberJoined(handler)
}

// Tick drives one cooperative step: presence scan, membership poll and,
// while hosting, the availability heartbeat. Callers invoke it from their
// frame loop or timer; all rate limiting happens inside.
func (c *Coordinator) Tick() {
	c.scanner.Scan()
	c.tracker.Poll()
	if c.lifecycle.State() == session.StateHosting {
		c.lifecycle.BroadcastAvailability()
	}
}

// ActiveHosts lists the currently discovered hosts for UI display.
func (c *Coordinator) ActiveHosts() []registry.HostInfo {
	return c.registry.ActiveHosts()
}

// State returns the session lifecycle state.
func (c *Coordinator) State() session.State {
	return c.lifecycle.State()
}

// LocalID returns the local platform identifier, zero while unresolved.
func (c *Coordinator) LocalID() uint64 {
	return c.identity.LocalID()
}

// GroupToken returns the active session-group token, empty while none.
func (c *Coordinator) GroupToken() string {
	return c.lifecycle.GroupToken()
}
