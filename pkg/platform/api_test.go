package platform

import (
	"fmt"
	"testing"
)

// richModule mimics an older native binding: wrapped identifiers, bool "ok"
// returns and a friend list of foreign struct shape.
type richModule struct {
	identityCalls int
	presence      map[string]string
}

type nativeFriend struct {
	Id        uint64
	Persona   string
	IsOnline  bool
	IsPlaying bool
}

func (m *richModule) GetAccountID() accountHandle {
	m.identityCalls++
	return accountHandle{Value: 7001}
}

func (m *richModule) SetRichPresence(key, value string) bool {
	if m.presence == nil {
		m.presence = map[string]string{}
	}
	m.presence[key] = value
	return true
}

func (m *richModule) ClearRichPresence() {
	m.presence = nil
}

func (m *richModule) GetFriends() []nativeFriend {
	return []nativeFriend{
		{Id: 7002, Persona: "ayla", IsOnline: true, IsPlaying: true},
		{Id: 7003, Persona: "brock", IsOnline: true, IsPlaying: false},
		{Id: 7004, Persona: "cass", IsOnline: false, IsPlaying: true},
	}
}

func (m *richModule) JoinLobby(id uint64) bool {
	return id == 5000
}

func (m *richModule) GetNumLobbyMembers(id uint64) int { return 2 }

func (m *richModule) GetLobbyMemberByIndex(id uint64, index int) (accountHandle, error) {
	if index >= 2 {
		return accountHandle{}, fmt.Errorf("index out of range")
	}
	return accountHandle{Value: 7001 + uint64(index)}, nil
}

func TestAPILocalIdentifierNormalizesWrapper(t *testing.T) {
	api := NewAPI(&richModule{}, testLogger(t))

	id, err := api.LocalIdentifier()
	if err != nil {
		t.Fatalf("LocalIdentifier failed: %v", err)
	}
	if id != 7001 {
		t.Errorf("unexpected identifier: %d", id)
	}
}

func TestAPIFriendsDecodesForeignStructs(t *testing.T) {
	api := NewAPI(&richModule{}, testLogger(t))

	friends, err := api.Friends()
	if err != nil {
		t.Fatalf("Friends failed: %v", err)
	}
	if len(friends) != 3 {
		t.Fatalf("expected 3 friends, got %d", len(friends))
	}
	want := Friend{ID: 7002, DisplayName: "ayla", Online: true, InGame: true}
	if friends[0] != want {
		t.Errorf("friend decode mismatch: got %+v, want %+v", friends[0], want)
	}
	if friends[1].InGame {
		t.Error("brock is not playing")
	}
	if friends[2].Online {
		t.Error("cass is offline")
	}
}

func TestAPIJoinInterpretsBoolResult(t *testing.T) {
	api := NewAPI(&richModule{}, testLogger(t))

	if err := api.JoinSessionGroup(5000); err != nil {
		t.Fatalf("expected join to succeed: %v", err)
	}
	if err := api.JoinSessionGroup(5001); err == nil {
		t.Fatal("expected join of unknown group to fail")
	}
}

func TestAPIMemberEnumerationNormalizes(t *testing.T) {
	api := NewAPI(&richModule{}, testLogger(t))

	n, err := api.GroupMemberCount(5000)
	if err != nil {
		t.Fatalf("GroupMemberCount failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("unexpected member count: %d", n)
	}

	id, err := api.GroupMemberAt(5000, 1)
	if err != nil {
		t.Fatalf("GroupMemberAt failed: %v", err)
	}
	if id != 7002 {
		t.Errorf("unexpected member id: %d", id)
	}

	if _, err := api.GroupMemberAt(5000, 9); err == nil {
		t.Error("expected out-of-range index to error")
	}
}

func TestAPIPresenceRoundTrip(t *testing.T) {
	mod := &richModule{}
	api := NewAPI(mod, testLogger(t))

	if err := api.SetPresenceAttribute(PresenceKeyStatus, StatusHosting); err != nil {
		t.Fatalf("SetPresenceAttribute failed: %v", err)
	}
	if mod.presence[PresenceKeyStatus] != StatusHosting {
		t.Errorf("presence not written: %+v", mod.presence)
	}
	if err := api.ClearPresence(); err != nil {
		t.Fatalf("ClearPresence failed: %v", err)
	}
	if mod.presence != nil {
		t.Error("presence not cleared")
	}
}

func TestAsOK(t *testing.T) {
	tests := []struct {
		res  interface{}
		want bool
	}{
		{nil, true},
		{true, true},
		{false, false},
		{int(1), true},
		{int(0), false},
		{uint64(9), true},
		{"whatever", true},
	}
	for _, tt := range tests {
		if got := asOK(tt.res); got != tt.want {
			t.Errorf("asOK(%v) = %v, want %v", tt.res, got, tt.want)
		}
	}
}
