package platform

import (
	"fmt"
	"reflect"

	"github.com/lobbylink/lobbylink/pkg/errors"
	"github.com/lobbylink/lobbylink/pkg/logging"
)

// API is the typed facade over the capability binder. Each method invokes
// one logical operation and normalizes whatever representation the bound
// native method returned: identifiers become canonical uint64 values and
// "ok" results are accepted as bool, integer or absent.
type API struct {
	binder *Binder
}

// NewAPI creates the facade over a native module using the default shape
// tables.
func NewAPI(native interface{}, log *logging.ColoredLogger) *API {
	return &API{binder: NewBinder(native, DefaultShapes(), log)}
}

// NewAPIWithShapes creates the facade with a caller-supplied shape table.
func NewAPIWithShapes(native interface{}, shapes map[string][]Shape, log *logging.ColoredLogger) *API {
	return &API{binder: NewBinder(native, shapes, log)}
}

// Binder exposes the underlying binder, mainly for resolution inspection.
func (a *API) Binder() *Binder {
	return a.binder
}

// LocalIdentifier resolves the local participant's identifier.
func (a *API) LocalIdentifier() (uint64, error) {
	res, err := a.binder.Invoke(OpGetLocalIdentifier)
	if err != nil {
		return 0, err
	}
	return NormalizeIdentifier(res)
}

// SendData sends a raw gameplay payload to a peer. The payload format is the
// caller's concern.
func (a *API) SendData(peer uint64, data []byte) error {
	res, err := a.binder.Invoke(OpSendData, peer, data)
	if err != nil {
		return err
	}
	if !asOK(res) {
		return errors.NewOperationError(OpSendData, nil)
	}
	return nil
}

// SetPresenceAttribute publishes one rich-presence key/value pair.
func (a *API) SetPresenceAttribute(key, value string) error {
	res, err := a.binder.Invoke(OpSetPresenceAttribute, key, value)
	if err != nil {
		return err
	}
	if !asOK(res) {
		return errors.NewOperationError(OpSetPresenceAttribute, nil)
	}
	return nil
}

// ClearPresence removes all published presence attributes.
func (a *API) ClearPresence() error {
	_, err := a.binder.Invoke(OpClearPresence)
	return err
}

// CreateSessionGroup creates a matchmaking group and returns its canonical
// identifier.
func (a *API) CreateSessionGroup(visibility string, maxMembers int) (uint64, error) {
	res, err := a.binder.Invoke(OpCreateSessionGroup, visibility, maxMembers)
	if err != nil {
		return 0, err
	}
	id, err := NormalizeIdentifier(res)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, errors.NewOperationError(OpCreateSessionGroup, nil)
	}
	return id, nil
}

// JoinSessionGroup joins an existing group.
func (a *API) JoinSessionGroup(group uint64) error {
	res, err := a.binder.Invoke(OpJoinSessionGroup, group)
	if err != nil {
		return err
	}
	if !asOK(res) {
		return errors.NewOperationError(OpJoinSessionGroup, fmt.Errorf("group %d rejected join", group))
	}
	return nil
}

// LeaveSessionGroup leaves a group. Leaving a group that is already gone is
// not an error worth surfacing; callers treat this as best-effort cleanup.
func (a *API) LeaveSessionGroup(group uint64) error {
	_, err := a.binder.Invoke(OpLeaveSessionGroup, group)
	return err
}

// SetGroupJoinable toggles whether new members may join the group.
func (a *API) SetGroupJoinable(group uint64, joinable bool) error {
	res, err := a.binder.Invoke(OpSetGroupJoinable, group, joinable)
	if err != nil {
		return err
	}
	if !asOK(res) {
		return errors.NewOperationError(OpSetGroupJoinable, nil)
	}
	return nil
}

// SetGroupMetadata writes one key/value pair on the group, readable by
// prospective joiners.
func (a *API) SetGroupMetadata(group uint64, key, value string) error {
	res, err := a.binder.Invoke(OpSetGroupMetadata, group, key, value)
	if err != nil {
		return err
	}
	if !asOK(res) {
		return errors.NewOperationError(OpSetGroupMetadata, nil)
	}
	return nil
}

// GroupMemberCount returns the group's current member count.
func (a *API) GroupMemberCount(group uint64) (int, error) {
	res, err := a.binder.Invoke(OpGroupMemberCount, group)
	if err != nil {
		return 0, err
	}
	n, err := NormalizeIdentifier(res)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// GroupMemberAt returns the canonical identifier of the group member at the
// given index.
func (a *API) GroupMemberAt(group uint64, index int) (uint64, error) {
	res, err := a.binder.Invoke(OpGroupMemberAt, group, index)
	if err != nil {
		return 0, err
	}
	return NormalizeIdentifier(res)
}

// Friends enumerates the local friends list in canonical form.
func (a *API) Friends() ([]Friend, error) {
	res, err := a.binder.Invoke(OpEnumerateFriends)
	if err != nil {
		return nil, err
	}
	return decodeFriends(res)
}

// FriendPresence reads one presence attribute published by a friend. An
// unset attribute reads as the empty string.
func (a *API) FriendPresence(friend uint64, key string) (string, error) {
	res, err := a.binder.Invoke(OpFriendPresence, friend, key)
	if err != nil {
		return "", err
	}
	if res == nil {
		return "", nil
	}
	s, ok := res.(string)
	if !ok {
		return "", errors.NewOperationError(OpFriendPresence, fmt.Errorf("presence value has type %T", res))
	}
	return s, nil
}

// asOK interprets a native call's result as success. Operations without a
// result succeeded if they did not error; bool and integer results carry the
// success flag directly.
func asOK(res interface{}) bool {
	switch v := res.(type) {
	case nil:
		return true
	case bool:
		return v
	case int:
		return v != 0
	case int32:
		return v != 0
	case int64:
		return v != 0
	case uint32:
		return v != 0
	case uint64:
		return v != 0
	}
	return true
}

// Field names under which friend-list entries carry each attribute, across
// the known module builds.
var (
	friendNameFields   = []string{"DisplayName", "Name", "Persona"}
	friendOnlineFields = []string{"Online", "IsOnline"}
	friendInGameFields = []string{"InGame", "IsPlaying", "Playing"}
)

// decodeFriends canonicalizes whatever slice representation the bound
// enumerate-friends method returned. Entries that cannot be decoded are
// skipped rather than failing the whole enumeration.
func decodeFriends(res interface{}) ([]Friend, error) {
	if res == nil {
		return nil, nil
	}
	if friends, ok := res.([]Friend); ok {
		return friends, nil
	}

	rv := reflect.ValueOf(res)
	if rv.Kind() != reflect.Slice {
		return nil, errors.NewOperationError(OpEnumerateFriends, fmt.Errorf("friend list has type %T", res))
	}

	friends := make([]Friend, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		ev := rv.Index(i)
		for ev.Kind() == reflect.Ptr {
			if ev.IsNil() {
				break
			}
			ev = ev.Elem()
		}
		if ev.Kind() != reflect.Struct {
			continue
		}
		id, err := NormalizeIdentifier(ev.Interface())
		if err != nil {
			continue
		}
		friends = append(friends, Friend{
			ID:          id,
			DisplayName: structString(ev, friendNameFields),
			Online:      structBool(ev, friendOnlineFields),
			InGame:      structBool(ev, friendInGameFields),
		})
	}
	return friends, nil
}

func structString(v reflect.Value, names []string) string {
	for _, name := range names {
		f := v.FieldByName(name)
		if f.IsValid() && f.Kind() == reflect.String {
			return f.String()
		}
	}
	return ""
}

func structBool(v reflect.Value, names []string) bool {
	for _, name := range names {
		f := v.FieldByName(name)
		if f.IsValid() && f.Kind() == reflect.Bool {
			return f.Bool()
		}
	}
	return false
}
