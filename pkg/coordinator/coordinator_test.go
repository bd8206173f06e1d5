package coordinator

import (
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/lobbylink/lobbylink/pkg/config"
	"github.com/lobbylink/lobbylink/pkg/errors"
	"github.com/lobbylink/lobbylink/pkg/logging"
	"github.com/lobbylink/lobbylink/pkg/session"
	"github.com/lobbylink/lobbylink/pkg/sim"
)

// harness runs several coordinators over one simulated platform world,
// sharing a mock clock.
type harness struct {
	world *sim.World
	clock *clock.Mock
	log   *logging.ColoredLogger
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	log, err := logging.NewColoredLogger(zapcore.ErrorLevel, false)
	require.NoError(t, err)
	return &harness{
		world: sim.NewWorld(log),
		clock: clock.NewMock(),
		log:   log,
	}
}

func (h *harness) addPlayer(name string) (*sim.Module, *Coordinator) {
	mod := h.world.AddAccount(name)
	return mod, New(mod, config.Default(), h.clock, h.log)
}

func TestRequestHostPublishesDiscoverableSession(t *testing.T) {
	h := newHarness(t)
	hostMod, host := h.addPlayer("host")
	guestMod, guest := h.addPlayer("guest")
	h.world.Befriend(hostMod.SelfID(), guestMod.SelfID())

	require.NoError(t, host.RequestHost())
	assert.Equal(t, session.StateHosting, host.State())
	assert.NotEmpty(t, host.GroupToken())

	// The guest's scan picks the host up from friend presence.
	guest.Tick()
	hosts := guest.ActiveHosts()
	require.Len(t, hosts, 1)
	assert.Equal(t, host.LocalID(), hosts[0].PeerID)
}

func TestAutoJoinThroughPresence(t *testing.T) {
	h := newHarness(t)
	hostMod, host := h.addPlayer("host")
	guestMod, guest := h.addPlayer("guest")
	h.world.Befriend(hostMod.SelfID(), guestMod.SelfID())

	require.NoError(t, host.RequestHost())
	guest.Tick()

	require.NoError(t, guest.RequestAutoJoin())
	assert.Equal(t, session.StateActive, guest.State())
	assert.Equal(t, host.GroupToken(), guest.GroupToken())
}

func TestAutoJoinConsumesInvite(t *testing.T) {
	h := newHarness(t)
	_, host := h.addPlayer("host")
	_, stranger := h.addPlayer("stranger")

	require.NoError(t, host.RequestHost())

	// No friendship, so presence is invisible; the invite alone carries
	// the lobby token.
	stranger.OnInviteReceived(host.LocalID(), host.GroupToken())
	require.NoError(t, stranger.RequestAutoJoin())
	assert.Equal(t, session.StateActive, stranger.State())

	// The invite was consumed: a second join attempt has only the stale
	// registry entry, whose connect presence the stranger cannot read.
	require.NoError(t, stranger.RequestStop())
	err := stranger.RequestAutoJoin()
	require.Error(t, err)
	assert.True(t, errors.IsNotReady(err))
}

func TestAutoJoinMalformedInviteFallsBackToPresence(t *testing.T) {
	h := newHarness(t)
	hostMod, host := h.addPlayer("host")
	guestMod, guest := h.addPlayer("guest")
	h.world.Befriend(hostMod.SelfID(), guestMod.SelfID())

	require.NoError(t, host.RequestHost())
	guest.Tick()

	guest.OnInviteReceived(host.LocalID(), "not-a-lobby-token")
	require.NoError(t, guest.RequestAutoJoin())
	assert.Equal(t, session.StateActive, guest.State())
	assert.Equal(t, host.GroupToken(), guest.GroupToken())
}

func TestHostSeesMemberJoin(t *testing.T) {
	h := newHarness(t)
	hostMod, host := h.addPlayer("host")
	guestMod, guest := h.addPlayer("guest")
	h.world.Befriend(hostMod.SelfID(), guestMod.SelfID())

	require.NoError(t, host.RequestHost())

	var joined []uint64
	host.OnMemberJoined(func(peerID uint64, groupToken string) {
		joined = append(joined, peerID)
		assert.Equal(t, host.GroupToken(), groupToken)
	})

	// Baseline poll before the guest arrives.
	host.Tick()
	require.Empty(t, joined)

	guest.Tick()
	require.NoError(t, guest.RequestAutoJoin())

	h.clock.Add(config.Default().Discovery.ScanInterval)
	host.Tick()
	assert.Equal(t, []uint64{guest.LocalID()}, joined)

	// Repeated polls stay quiet for an unchanged member list.
	h.clock.Add(config.Default().Discovery.ScanInterval)
	host.Tick()
	assert.Len(t, joined, 1)
}

func TestAutoJoinWithoutHosts(t *testing.T) {
	h := newHarness(t)
	_, lone := h.addPlayer("lone")

	err := lone.RequestAutoJoin()
	require.Error(t, err)
	assert.True(t, errors.IsNotReady(err))
	assert.Equal(t, session.StateIdle, lone.State())
}

func TestStopFromAnyState(t *testing.T) {
	h := newHarness(t)
	_, host := h.addPlayer("host")

	require.NoError(t, host.RequestStop(), "stopping while idle is a no-op")

	require.NoError(t, host.RequestHost())
	require.NoError(t, host.RequestStop())
	assert.Equal(t, session.StateIdle, host.State())
	assert.Empty(t, host.GroupToken())

	// The lifecycle is reusable after a stop.
	require.NoError(t, host.RequestHost())
	assert.Equal(t, session.StateHosting, host.State())
}
