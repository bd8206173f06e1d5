// Package sim provides an in-memory stand-in for the social platform's
// native networking module. It exposes the legacy "lobby" flavored method
// shapes, so it doubles as a probe target for the capability binder: the
// binder must fall through its first-choice candidates to bind against it.
package sim

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lobbylink/lobbylink/pkg/logging"
)

// AccountHandle is the wrapped identifier representation this module build
// returns. Consumers normalize it through the identifier layer.
type AccountHandle struct {
	Value uint64
}

// FriendEntry is one friends-list row in this build's native shape.
type FriendEntry struct {
	Id        uint64
	Persona   string
	IsOnline  bool
	IsPlaying bool
}

type account struct {
	id       uint64
	name     string
	online   bool
	playing  bool
	presence map[string]string
	friends  map[uint64]struct{}
}

type lobby struct {
	id         uint64
	owner      uint64
	joinable   bool
	maxMembers int
	visibility string
	metadata   map[string]string
	members    []uint64
}

// World holds the shared state behind every simulated module handle:
// accounts, friend edges, presence and lobbies.
type World struct {
	mu          sync.Mutex
	accounts    map[uint64]*account
	lobbies     map[uint64]*lobby
	nextAccount uint64
	nextLobby   uint64
	log         *logging.ColoredLogger
}

// NewWorld creates an empty simulated platform.
func NewWorld(log *logging.ColoredLogger) *World {
	return &World{
		accounts:    make(map[uint64]*account),
		lobbies:     make(map[uint64]*lobby),
		nextAccount: 9000,
		nextLobby:   5000,
		log:         log,
	}
}

// AddAccount creates an online, in-game account and returns its native
// module handle.
func (w *World) AddAccount(name string) *Module {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.nextAccount++
	id := w.nextAccount
	w.accounts[id] = &account{
		id:       id,
		name:     name,
		online:   true,
		playing:  true,
		presence: make(map[string]string),
		friends:  make(map[uint64]struct{}),
	}
	w.log.ComponentDebug(logging.ComponentSim, "account created",
		zap.Uint64("id", id),
		zap.String("name", name))
	return &Module{world: w, self: id}
}

// Befriend links two accounts both ways.
func (w *World) Befriend(a, b uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.accounts[a] == nil || w.accounts[b] == nil || a == b {
		return
	}
	w.accounts[a].friends[b] = struct{}{}
	w.accounts[b].friends[a] = struct{}{}
}

// SetOnline toggles an account's online flag.
func (w *World) SetOnline(id uint64, online bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if acct := w.accounts[id]; acct != nil {
		acct.online = online
	}
}

// SetPlaying toggles whether an account is running the target game.
func (w *World) SetPlaying(id uint64, playing bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if acct := w.accounts[id]; acct != nil {
		acct.playing = playing
	}
}

// Module is one account's handle onto the native platform API. Its method
// set matches the legacy lobby binding shapes.
type Module struct {
	world *World
	self  uint64
}

// SelfID is a test/demo convenience, not part of the probed surface.
func (m *Module) SelfID() uint64 { return m.self }

func (m *Module) GetAccountID() AccountHandle {
	return AccountHandle{Value: m.self}
}

func (m *Module) SetRichPresence(key, value string) bool {
	w := m.world
	w.mu.Lock()
	defer w.mu.Unlock()
	acct := w.accounts[m.self]
	if acct == nil {
		return false
	}
	acct.presence[key] = value
	return true
}

func (m *Module) ClearRichPresence() {
	w := m.world
	w.mu.Lock()
	defer w.mu.Unlock()
	if acct := w.accounts[m.self]; acct != nil {
		acct.presence = make(map[string]string)
	}
}

// CreateLobby creates a lobby owned by this account, with the owner as the
// first member. Note the legacy argument order: member cap first.
func (m *Module) CreateLobby(maxMembers int, visibility string) uint64 {
	w := m.world
	w.mu.Lock()
	defer w.mu.Unlock()
	w.nextLobby++
	id := w.nextLobby
	w.lobbies[id] = &lobby{
		id:         id,
		owner:      m.self,
		maxMembers: maxMembers,
		visibility: visibility,
		metadata:   map[string]string{"session_id": uuid.NewString()},
		members:    []uint64{m.self},
	}
	w.log.ComponentDebug(logging.ComponentSim, "lobby created",
		zap.Uint64("lobby", id),
		zap.Uint64("owner", m.self))
	return id
}

func (m *Module) JoinLobby(id uint64) bool {
	w := m.world
	w.mu.Lock()
	defer w.mu.Unlock()
	lb := w.lobbies[id]
	if lb == nil || !lb.joinable {
		return false
	}
	for _, member := range lb.members {
		if member == m.self {
			return true
		}
	}
	if lb.maxMembers > 0 && len(lb.members) >= lb.maxMembers {
		return false
	}
	lb.members = append(lb.members, m.self)
	w.log.ComponentDebug(logging.ComponentSim, "lobby joined",
		zap.Uint64("lobby", id),
		zap.Uint64("member", m.self))
	return true
}

func (m *Module) LeaveLobby(id uint64) {
	w := m.world
	w.mu.Lock()
	defer w.mu.Unlock()
	lb := w.lobbies[id]
	if lb == nil {
		return
	}
	members := lb.members[:0]
	for _, member := range lb.members {
		if member != m.self {
			members = append(members, member)
		}
	}
	lb.members = members
	if len(lb.members) == 0 {
		delete(w.lobbies, id)
	}
}

func (m *Module) SetLobbyJoinable(id uint64, joinable bool) bool {
	w := m.world
	w.mu.Lock()
	defer w.mu.Unlock()
	lb := w.lobbies[id]
	if lb == nil || lb.owner != m.self {
		return false
	}
	lb.joinable = joinable
	return true
}

func (m *Module) SetLobbyData(id uint64, key, value string) bool {
	w := m.world
	w.mu.Lock()
	defer w.mu.Unlock()
	lb := w.lobbies[id]
	if lb == nil || lb.owner != m.self {
		return false
	}
	lb.metadata[key] = value
	return true
}

func (m *Module) GetNumLobbyMembers(id uint64) int {
	w := m.world
	w.mu.Lock()
	defer w.mu.Unlock()
	lb := w.lobbies[id]
	if lb == nil {
		return 0
	}
	return len(lb.members)
}

func (m *Module) GetLobbyMemberByIndex(id uint64, index int) AccountHandle {
	w := m.world
	w.mu.Lock()
	defer w.mu.Unlock()
	lb := w.lobbies[id]
	if lb == nil || index < 0 || index >= len(lb.members) {
		return AccountHandle{}
	}
	return AccountHandle{Value: lb.members[index]}
}

func (m *Module) GetFriends() []FriendEntry {
	w := m.world
	w.mu.Lock()
	defer w.mu.Unlock()
	acct := w.accounts[m.self]
	if acct == nil {
		return nil
	}
	entries := make([]FriendEntry, 0, len(acct.friends))
	for id := range acct.friends {
		friend := w.accounts[id]
		if friend == nil {
			continue
		}
		entries = append(entries, FriendEntry{
			Id:        friend.id,
			Persona:   friend.name,
			IsOnline:  friend.online,
			IsPlaying: friend.playing,
		})
	}
	return entries
}

func (m *Module) GetFriendRichPresence(id uint64, key string) string {
	w := m.world
	w.mu.Lock()
	defer w.mu.Unlock()
	acct := w.accounts[m.self]
	friend := w.accounts[id]
	if acct == nil || friend == nil {
		return ""
	}
	if _, ok := acct.friends[id]; !ok {
		return ""
	}
	return friend.presence[key]
}

func (m *Module) SendP2PPacket(peer uint64, data []byte) bool {
	w := m.world
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.accounts[peer]
	return ok && len(data) > 0
}
