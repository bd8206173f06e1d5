// Package registry maintains the self-expiring table of candidate hosts
// discovered through presence scanning and invites, and implements the
// deterministic best-host selection used by auto-join.
package registry

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/lobbylink/lobbylink/pkg/logging"
)

// Identity resolves the local player's identifier; zero means unknown.
// Satisfied by platform.IdentityCache.
type Identity interface {
	LocalID() uint64
}

// DefaultHostTTL is the staleness threshold after which a host entry is
// purged. A host that stops heartbeating its presence disappears from
// discovery within this window.
const DefaultHostTTL = 30 * time.Second

// HostInfo describes one candidate host. Values are always returned by
// copy; the registry owns the backing storage exclusively.
type HostInfo struct {
	PeerID      uint64
	SessionName string
	PlayerCount int
	LastSeen    time.Time
	Active      bool
}

// Invite is the single live invite record. A new invite overwrites the
// previous one; consumption clears it.
type Invite struct {
	InviterID  uint64
	LobbyToken string
}

// Registry is the host table. All operations are total: absence is an empty
// result, never an error.
type Registry struct {
	mu       sync.Mutex
	clock    clock.Clock
	ttl      time.Duration
	identity Identity
	log      *logging.ColoredLogger

	hosts    map[uint64]HostInfo
	invite   *Invite
	selfHost uint64 // nonzero while the local player is registered as a host
}

// New creates a registry with the given staleness threshold. The identity
// cache filters the local player out of every read.
func New(identity Identity, ttl time.Duration, clk clock.Clock, log *logging.ColoredLogger) *Registry {
	if ttl <= 0 {
		ttl = DefaultHostTTL
	}
	if clk == nil {
		clk = clock.New()
	}
	return &Registry{
		clock:    clk,
		ttl:      ttl,
		identity: identity,
		log:      log,
		hosts:    make(map[uint64]HostInfo),
	}
}

// Upsert inserts or refreshes a host entry. LastSeen only moves forward,
// regardless of call order.
func (r *Registry) Upsert(peerID uint64, sessionName string, playerCount int) {
	if peerID == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upsertLocked(peerID, sessionName, playerCount)
}

func (r *Registry) upsertLocked(peerID uint64, sessionName string, playerCount int) {
	now := r.clock.Now()
	entry, exists := r.hosts[peerID]
	if !exists {
		r.log.ComponentDebug(logging.ComponentRegistry, "host discovered",
			zap.Uint64("peer", peerID),
			zap.String("session", sessionName))
	}
	entry.PeerID = peerID
	entry.SessionName = sessionName
	entry.PlayerCount = playerCount
	entry.Active = true
	if now.After(entry.LastSeen) {
		entry.LastSeen = now
	}
	r.hosts[peerID] = entry
}

// SetInvite records an invite and seeds a host entry for the inviter if one
// is not already known, so the invite is joinable even before the scanner
// has observed the inviter.
func (r *Registry) SetInvite(inviterID uint64, lobbyToken string) {
	if inviterID == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.invite = &Invite{InviterID: inviterID, LobbyToken: lobbyToken}
	if _, exists := r.hosts[inviterID]; !exists {
		r.upsertLocked(inviterID, "", 1)
	}
	r.log.ComponentInfo(logging.ComponentRegistry, "invite recorded",
		zap.Uint64("inviter", inviterID))
}

// ClearInvite discards the live invite record. Clearing twice is the same
// as clearing once.
func (r *Registry) ClearInvite() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invite = nil
}

// CurrentInvite returns a copy of the live invite record, if any.
func (r *Registry) CurrentInvite() (Invite, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.invite == nil {
		return Invite{}, false
	}
	return *r.invite, true
}

// BestAvailableHost selects the host an auto-join should target. A live
// invite from anyone other than ourselves takes absolute priority;
// otherwise the most recently seen active entry wins, with ties broken by
// lowest identifier. The zero HostInfo means no host qualifies.
func (r *Registry) BestAvailableHost() HostInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.purgeLocked()

	local := r.identity.LocalID()

	if r.invite != nil && r.invite.InviterID != local && r.invite.InviterID != r.selfHost {
		if entry, ok := r.hosts[r.invite.InviterID]; ok {
			return entry
		}
		return HostInfo{PeerID: r.invite.InviterID, PlayerCount: 1, Active: true}
	}

	var best HostInfo
	for id, entry := range r.hosts {
		if !entry.Active || id == local || id == r.selfHost {
			continue
		}
		if best.PeerID == 0 ||
			entry.LastSeen.After(best.LastSeen) ||
			(entry.LastSeen.Equal(best.LastSeen) && id < best.PeerID) {
			best = entry
		}
	}
	return best
}

// ActiveHosts returns all live entries excluding the local player, in no
// particular order.
func (r *Registry) ActiveHosts() []HostInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.purgeLocked()

	local := r.identity.LocalID()
	hosts := make([]HostInfo, 0, len(r.hosts))
	for id, entry := range r.hosts {
		if !entry.Active || id == local {
			continue
		}
		hosts = append(hosts, entry)
	}
	return hosts
}

// RegisterSelfAsHost adds the local player's own host entry. A no-op while
// the local identity is unresolved.
func (r *Registry) RegisterSelfAsHost(sessionName string) {
	local := r.identity.LocalID()
	if local == 0 {
		r.log.ComponentWarn(logging.ComponentRegistry, "cannot register self as host, identity unresolved")
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selfHost = local
	r.upsertLocked(local, sessionName, 1)
	r.log.ComponentInfo(logging.ComponentRegistry, "registered self as host",
		zap.Uint64("peer", local))
}

// UnregisterSelfAsHost removes the local player's host entry.
func (r *Registry) UnregisterSelfAsHost() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.selfHost == 0 {
		return
	}
	delete(r.hosts, r.selfHost)
	r.selfHost = 0
}

// RefreshSelf is the hosting heartbeat: it bumps the self entry's LastSeen,
// re-creating the entry if it expired. A no-op when not registered.
func (r *Registry) RefreshSelf() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.selfHost == 0 {
		return
	}
	entry := r.hosts[r.selfHost] // zero value if expired; re-created below
	if entry.PlayerCount == 0 {
		entry.PlayerCount = 1
	}
	r.upsertLocked(r.selfHost, entry.SessionName, entry.PlayerCount)
}

// SelfHostID returns the identifier under which the local player is
// registered as a host, or zero.
func (r *Registry) SelfHostID() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.selfHost
}

// purgeLocked drops entries whose LastSeen is older than the TTL. Called
// before every read so expired hosts are never observable.
func (r *Registry) purgeLocked() {
	now := r.clock.Now()
	for id, entry := range r.hosts {
		if now.Sub(entry.LastSeen) > r.ttl {
			delete(r.hosts, id)
			r.log.ComponentDebug(logging.ComponentRegistry, "host expired",
				zap.Uint64("peer", id),
				zap.Duration("age", now.Sub(entry.LastSeen)))
		}
	}
}
