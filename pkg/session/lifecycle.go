// Package session drives the lobby lifecycle state machine: idle, hosting,
// joining, active. Transitions are total: an operation either succeeds and
// moves the state or fails and leaves it untouched.
package session

import (
	"sync"

	"go.uber.org/zap"

	"github.com/lobbylink/lobbylink/pkg/config"
	"github.com/lobbylink/lobbylink/pkg/errors"
	"github.com/lobbylink/lobbylink/pkg/logging"
	"github.com/lobbylink/lobbylink/pkg/platform"
	"github.com/lobbylink/lobbylink/pkg/registry"
)

// State is the lobby lifecycle state.
type State int

const (
	StateIdle State = iota
	StateHosting
	StateJoining
	StateActive
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateHosting:
		return "hosting"
	case StateJoining:
		return "joining"
	case StateActive:
		return "active"
	default:
		return "unknown"
	}
}

// Platform is the slice of the platform facade the lifecycle consumes.
type Platform interface {
	SetPresenceAttribute(key, value string) error
	ClearPresence() error
	CreateSessionGroup(visibility string, maxMembers int) (uint64, error)
	JoinSessionGroup(group uint64) error
	LeaveSessionGroup(group uint64) error
	SetGroupJoinable(group uint64, joinable bool) error
	SetGroupMetadata(group uint64, key, value string) error
}

// Lifecycle owns the process-wide session state.
type Lifecycle struct {
	mu       sync.Mutex
	api      Platform
	identity registry.Identity
	registry *registry.Registry
	cfg      config.SessionConfig
	log      *logging.ColoredLogger

	state      State
	groupID    uint64 // zero while no session-group exists
	groupOwner bool
}

// New creates an idle lifecycle.
func New(api Platform, identity registry.Identity, reg *registry.Registry, cfg config.SessionConfig, log *logging.ColoredLogger) *Lifecycle {
	return &Lifecycle{
		api:      api,
		identity: identity,
		registry: reg,
		cfg:      cfg,
		log:      log,
		state:    StateIdle,
	}
}

// State returns the current lifecycle state.
func (l *Lifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// GroupID returns the active session-group identifier, or zero.
func (l *Lifecycle) GroupID() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.groupID
}

// GroupToken returns the session-group identifier in the decimal token form
// published through presence and invites. Empty while no group exists.
func (l *Lifecycle) GroupToken() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.groupID == 0 {
		return ""
	}
	return platform.FormatIdentifier(l.groupID)
}

// GroupOwner reports whether the local player owns the session-group.
func (l *Lifecycle) GroupOwner() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.groupOwner
}

// StartHosting transitions Idle -> Hosting. The hosting presence markers go
// up and the self host entry is registered; session-group creation is
// attempted but a group-less host is still a valid degraded host, retried
// by the next BroadcastAvailability.
func (l *Lifecycle) StartHosting() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateIdle {
		return errors.NewStateError(l.state.String(), "start hosting")
	}
	if l.identity.LocalID() == 0 {
		return errors.NewNotReadyError("local identity")
	}

	if err := l.api.SetPresenceAttribute(platform.PresenceKeyStatus, platform.StatusHosting); err != nil {
		return errors.NewOperationError(platform.OpSetPresenceAttribute, err)
	}
	// Best effort: the version marker feeds the scanner's compatibility path.
	if err := l.api.SetPresenceAttribute(platform.PresenceKeyVersion, l.cfg.Version); err != nil {
		l.log.ComponentWarn(logging.ComponentSession, "failed to publish version marker", zap.Error(err))
	}

	l.registry.RegisterSelfAsHost("")
	l.state = StateHosting
	l.groupOwner = true
	l.log.ComponentInfo(logging.ComponentSession, "hosting started",
		zap.Uint64("self", l.identity.LocalID()))

	l.ensureGroupLocked()
	return nil
}

// ensureGroupLocked creates and publishes the session-group. Failure leaves
// the host in the degraded "hosting, ungrouped" condition.
func (l *Lifecycle) ensureGroupLocked() {
	if l.groupID != 0 {
		return
	}

	group, err := l.api.CreateSessionGroup(l.cfg.Visibility, l.cfg.MaxMembers)
	if err != nil {
		l.log.ComponentWarn(logging.ComponentSession, "hosting without session group",
			zap.Error(err))
		return
	}
	l.groupID = group

	if err := l.api.SetGroupJoinable(group, true); err != nil {
		l.log.ComponentWarn(logging.ComponentSession, "failed to mark group joinable", zap.Error(err))
	}
	if err := l.api.SetGroupMetadata(group, platform.PresenceKeyVersion, l.cfg.Version); err != nil {
		l.log.ComponentWarn(logging.ComponentSession, "failed to write group metadata", zap.Error(err))
	}
	token := platform.FormatIdentifier(group)
	if err := l.api.SetPresenceAttribute(platform.PresenceKeyConnect, token); err != nil {
		l.log.ComponentWarn(logging.ComponentSession, "failed to publish connect token", zap.Error(err))
	}
	l.log.ComponentInfo(logging.ComponentSession, "session group created",
		zap.Uint64("group", group))
}

// StartJoining transitions Idle -> Joining -> Active by joining the given
// session-group. Failure returns the lifecycle to Idle.
func (l *Lifecycle) StartJoining(group uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateIdle {
		return errors.NewStateError(l.state.String(), "start joining")
	}
	if group == 0 {
		return errors.NewNotReadyError("session-group identifier")
	}

	if err := l.api.SetPresenceAttribute(platform.PresenceKeyStatus, platform.StatusJoining); err != nil {
		return errors.NewOperationError(platform.OpSetPresenceAttribute, err)
	}
	l.state = StateJoining

	if err := l.api.JoinSessionGroup(group); err != nil {
		l.state = StateIdle
		if perr := l.api.ClearPresence(); perr != nil {
			l.log.ComponentDebug(logging.ComponentSession, "failed to clear presence after join failure", zap.Error(perr))
		}
		l.log.ComponentWarn(logging.ComponentSession, "join failed",
			zap.Uint64("group", group),
			zap.Error(err))
		return err
	}

	l.groupID = group
	l.groupOwner = false
	l.state = StateActive
	if err := l.api.SetPresenceAttribute(platform.PresenceKeyStatus, platform.StatusInGame); err != nil {
		l.log.ComponentDebug(logging.ComponentSession, "failed to update presence after join", zap.Error(err))
	}
	l.log.ComponentInfo(logging.ComponentSession, "joined session group",
		zap.Uint64("group", group))
	return nil
}

// StopSession returns to Idle from any state, releasing the session-group
// and the self host entry. Stopping while already Idle is a no-op.
func (l *Lifecycle) StopSession() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state == StateIdle {
		return nil
	}

	if err := l.api.ClearPresence(); err != nil {
		l.log.ComponentDebug(logging.ComponentSession, "failed to clear presence on stop", zap.Error(err))
	}
	if l.groupID != 0 {
		if err := l.api.LeaveSessionGroup(l.groupID); err != nil {
			l.log.ComponentDebug(logging.ComponentSession, "failed to leave session group", zap.Error(err))
		}
	}
	l.registry.UnregisterSelfAsHost()

	l.log.ComponentInfo(logging.ComponentSession, "session stopped",
		zap.String("from", l.state.String()))
	l.state = StateIdle
	l.groupID = 0
	l.groupOwner = false
	return nil
}

// BroadcastAvailability is the hosting heartbeat: it refreshes the self
// host entry and retries session-group creation if hosting started
// degraded. A no-op outside Hosting.
func (l *Lifecycle) BroadcastAvailability() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateHosting {
		return
	}
	l.ensureGroupLocked()
	l.registry.RefreshSelf()
}
