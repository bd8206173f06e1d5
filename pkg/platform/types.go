// Package platform bridges the coordination layer to the social-gaming
// platform's native networking module. The exact method names, argument
// orders and return representations of that module vary by build, so every
// operation goes through a capability binder that probes a list of candidate
// call shapes at runtime and memoizes the first one that works.
package platform

// Logical operation names resolved by the capability binder. Call sites use
// these names; the binder maps each onto whatever concrete method the loaded
// native module actually exposes.
const (
	OpGetLocalIdentifier   = "get-local-identifier"
	OpSendData             = "send-data"
	OpSetPresenceAttribute = "set-presence-attribute"
	OpClearPresence        = "clear-presence"
	OpCreateSessionGroup   = "create-session-group"
	OpJoinSessionGroup     = "join-session-group"
	OpLeaveSessionGroup    = "leave-session-group"
	OpSetGroupJoinable     = "set-group-joinable"
	OpSetGroupMetadata     = "set-group-metadata"
	OpGroupMemberCount     = "group-member-count"
	OpGroupMemberAt        = "group-member-at"
	OpEnumerateFriends     = "enumerate-friends"
	OpFriendPresence       = "friend-presence"
)

// Presence attribute keys shared by the scanner and the session lifecycle.
// These are the small key/value pairs broadcast to friends through the
// platform's rich-presence channel.
const (
	PresenceKeyStatus  = "status"
	PresenceKeyConnect = "connect"
	PresenceKeyVersion = "version"
)

// Presence status marker values.
const (
	StatusHosting = "hosting"
	StatusJoining = "joining"
	StatusInGame  = "ingame"
)

// Friend is the canonical view of one entry in the local friends list.
type Friend struct {
	ID          uint64
	DisplayName string
	Online      bool
	InGame      bool // currently playing the target game
}
