// Package membership detects joins in the active session-group by diffing
// successive member-list snapshots. The platform delivers no push event and
// no ordering guarantee, so a per-poll set difference is the whole protocol.
package membership

import (
	"go.uber.org/zap"

	"github.com/lobbylink/lobbylink/pkg/logging"
	"github.com/lobbylink/lobbylink/pkg/registry"
	"github.com/lobbylink/lobbylink/pkg/session"
)

// JoinHandler receives one notification per newly observed member.
type JoinHandler func(peerID uint64, groupToken string)

// Platform is the slice of the platform facade the tracker consumes.
type Platform interface {
	GroupMemberCount(group uint64) (int, error)
	GroupMemberAt(group uint64, index int) (uint64, error)
}

// Tracker polls the hosted session-group's member list.
type Tracker struct {
	api      Platform
	identity registry.Identity
	session  *session.Lifecycle
	log      *logging.ColoredLogger

	prev    map[uint64]struct{}
	handler JoinHandler
}

// New creates a tracker with an empty member snapshot.
func New(api Platform, identity registry.Identity, lifecycle *session.Lifecycle, log *logging.ColoredLogger) *Tracker {
	return &Tracker{
		api:      api,
		identity: identity,
		session:  lifecycle,
		log:      log,
		prev:     make(map[uint64]struct{}),
	}
}

// OnMemberJoined registers the join observer. A nil handler silences join
// notifications without stopping the snapshot diffing.
func (t *Tracker) OnMemberJoined(handler JoinHandler) {
	t.handler = handler
}

// Poll takes one member-list snapshot and raises a join event per
// identifier present now but absent from the previous snapshot. Members
// whose index fails to enumerate or normalize are skipped for this poll,
// not retried; the snapshot is replaced unconditionally so a transient gap
// never replays old joins.
func (t *Tracker) Poll() {
	if t.session.State() != session.StateHosting || !t.session.GroupOwner() {
		return
	}
	group := t.session.GroupID()
	if group == 0 {
		return
	}

	count, err := t.api.GroupMemberCount(group)
	if err != nil {
		t.log.ComponentDebug(logging.ComponentMembers, "member count query failed",
			zap.Uint64("group", group),
			zap.Error(err))
		return
	}

	current := make(map[uint64]struct{}, count)
	for i := 0; i < count; i++ {
		id, err := t.api.GroupMemberAt(group, i)
		if err != nil {
			t.log.ComponentDebug(logging.ComponentMembers, "skipping unreadable member",
				zap.Uint64("group", group),
				zap.Int("index", i),
				zap.Error(err))
			continue
		}
		current[id] = struct{}{}
	}

	token := t.session.GroupToken()
	local := t.identity.LocalID()
	for id := range current {
		if _, seen := t.prev[id]; seen {
			continue
		}
		if id == local {
			continue
		}
		t.log.ComponentInfo(logging.ComponentMembers, "member joined",
			zap.Uint64("peer", id),
			zap.Uint64("group", group))
		if t.handler != nil {
			t.handler(id, token)
		}
	}

	t.prev = current
}
