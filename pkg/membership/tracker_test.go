package membership

import (
	"fmt"
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/lobbylink/lobbylink/pkg/config"
	"github.com/lobbylink/lobbylink/pkg/logging"
	"github.com/lobbylink/lobbylink/pkg/registry"
	"github.com/lobbylink/lobbylink/pkg/session"
)

type fakeIdentity uint64

func (f fakeIdentity) LocalID() uint64 { return uint64(f) }

// fakeGroupPlatform backs both the lifecycle and the tracker: a single
// session-group whose member list the test mutates between polls.
type fakeGroupPlatform struct {
	members    []uint64
	badIndexes map[int]bool
	countErr   error
}

func (f *fakeGroupPlatform) SetPresenceAttribute(key, value string) error { return nil }

func (f *fakeGroupPlatform) ClearPresence() error { return nil }

func (f *fakeGroupPlatform) CreateSessionGroup(visibility string, maxMembers int) (uint64, error) {
	return 5001, nil
}

func (f *fakeGroupPlatform) JoinSessionGroup(group uint64) error { return nil }

func (f *fakeGroupPlatform) LeaveSessionGroup(group uint64) error { return nil }

func (f *fakeGroupPlatform) SetGroupJoinable(group uint64, joinable bool) error { return nil }

func (f *fakeGroupPlatform) SetGroupMetadata(group uint64, key, value string) error { return nil }

func (f *fakeGroupPlatform) GroupMemberCount(group uint64) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return len(f.members), nil
}

func (f *fakeGroupPlatform) GroupMemberAt(group uint64, index int) (uint64, error) {
	if f.badIndexes[index] {
		return 0, fmt.Errorf("member %d unreadable", index)
	}
	return f.members[index], nil
}

func newHostingTracker(t *testing.T, api *fakeGroupPlatform, local uint64) (*Tracker, *session.Lifecycle) {
	t.Helper()
	log, err := logging.NewColoredLogger(zapcore.ErrorLevel, false)
	require.NoError(t, err)
	reg := registry.New(fakeIdentity(local), registry.DefaultHostTTL, clock.NewMock(), log)
	lifecycle := session.New(api, fakeIdentity(local), reg, config.Default().Session, log)
	require.NoError(t, lifecycle.StartHosting())
	return New(api, fakeIdentity(local), lifecycle, log), lifecycle
}

type joinRecorder struct {
	joins []uint64
	token string
}

func (r *joinRecorder) handle(peerID uint64, groupToken string) {
	r.joins = append(r.joins, peerID)
	r.token = groupToken
}

func TestPollDiffEmitsOnlyNewMembers(t *testing.T) {
	api := &fakeGroupPlatform{members: []uint64{7, 100, 200}}
	tracker, _ := newHostingTracker(t, api, 7)

	rec := &joinRecorder{}
	tracker.OnMemberJoined(rec.handle)

	tracker.Poll()
	assert.ElementsMatch(t, []uint64{100, 200}, rec.joins, "host itself must not be announced")
	assert.Equal(t, "5001", rec.token)

	// {A,B} -> {A,C}: one event for C, none for A, B dropped silently.
	api.members = []uint64{7, 100, 300}
	rec.joins = nil
	tracker.Poll()
	assert.Equal(t, []uint64{300}, rec.joins)

	// Nothing new: no events.
	rec.joins = nil
	tracker.Poll()
	assert.Empty(t, rec.joins)
}

func TestPollReaddedMemberFiresAgain(t *testing.T) {
	api := &fakeGroupPlatform{members: []uint64{100}}
	tracker, _ := newHostingTracker(t, api, 7)

	rec := &joinRecorder{}
	tracker.OnMemberJoined(rec.handle)

	tracker.Poll()
	api.members = nil
	tracker.Poll()
	api.members = []uint64{100}
	tracker.Poll()

	assert.Equal(t, []uint64{100, 100}, rec.joins, "a member who left and rejoined is a new join")
}

func TestPollSkipsUnreadableIndexes(t *testing.T) {
	api := &fakeGroupPlatform{
		members:    []uint64{100, 200, 300},
		badIndexes: map[int]bool{1: true},
	}
	tracker, _ := newHostingTracker(t, api, 7)

	rec := &joinRecorder{}
	tracker.OnMemberJoined(rec.handle)

	tracker.Poll()
	assert.ElementsMatch(t, []uint64{100, 300}, rec.joins)

	// The snapshot was replaced despite the partial failure, so the once
	// unreadable member shows up as a join when it becomes readable.
	api.badIndexes = nil
	rec.joins = nil
	tracker.Poll()
	assert.Equal(t, []uint64{200}, rec.joins)
}

func TestPollCountFailurePreservesSnapshot(t *testing.T) {
	api := &fakeGroupPlatform{members: []uint64{100}}
	tracker, _ := newHostingTracker(t, api, 7)

	rec := &joinRecorder{}
	tracker.OnMemberJoined(rec.handle)
	tracker.Poll()
	require.Equal(t, []uint64{100}, rec.joins)

	api.countErr = fmt.Errorf("group query unavailable")
	rec.joins = nil
	tracker.Poll()
	assert.Empty(t, rec.joins)

	// After recovery, the old snapshot still applies: no replayed join.
	api.countErr = nil
	tracker.Poll()
	assert.Empty(t, rec.joins)
}

func TestPollNoOpWhenNotHosting(t *testing.T) {
	api := &fakeGroupPlatform{members: []uint64{100}}
	tracker, lifecycle := newHostingTracker(t, api, 7)
	require.NoError(t, lifecycle.StopSession())

	rec := &joinRecorder{}
	tracker.OnMemberJoined(rec.handle)
	tracker.Poll()
	assert.Empty(t, rec.joins)
}
