package platform

// DefaultShapes returns the candidate call shapes for every operation,
// covering the native module variants observed across platform builds.
// Candidates are probed in order; earlier entries are the newer bindings.
//
// Logical argument order per operation:
//
//	get-local-identifier   ()
//	send-data              (peer, data)
//	set-presence-attribute (key, value)
//	clear-presence         ()
//	create-session-group   (visibility, maxMembers)
//	join-session-group     (group)
//	leave-session-group    (group)
//	set-group-joinable     (group, joinable)
//	set-group-metadata     (group, key, value)
//	group-member-count     (group)
//	group-member-at        (group, index)
//	enumerate-friends      ()
//	friend-presence        (friend, key)
func DefaultShapes() map[string][]Shape {
	return map[string][]Shape{
		OpGetLocalIdentifier: {
			{Method: "GetLocalIdentifier"},
			{Method: "GetAccountID"},
			{Method: "GetSelfID"},
		},
		OpSendData: {
			{Method: "SendData", Args: []int{0, 1}},
			{Method: "SendP2PPacket", Args: []int{0, 1}},
		},
		OpSetPresenceAttribute: {
			{Method: "SetPresenceAttribute", Args: []int{0, 1}},
			{Method: "SetRichPresence", Args: []int{0, 1}},
		},
		OpClearPresence: {
			{Method: "ClearPresence"},
			{Method: "ClearRichPresence"},
		},
		OpCreateSessionGroup: {
			{Method: "CreateSessionGroup", Args: []int{0, 1}},
			// Older lobby binding takes (maxMembers, visibility).
			{Method: "CreateLobby", Args: []int{1, 0}},
			// Oldest binding takes only a member cap.
			{Method: "CreateLobby", Args: []int{1}},
		},
		OpJoinSessionGroup: {
			{Method: "JoinSessionGroup", Args: []int{0}},
			{Method: "JoinLobby", Args: []int{0}},
		},
		OpLeaveSessionGroup: {
			{Method: "LeaveSessionGroup", Args: []int{0}},
			{Method: "LeaveLobby", Args: []int{0}},
		},
		OpSetGroupJoinable: {
			{Method: "SetGroupJoinable", Args: []int{0, 1}},
			{Method: "SetLobbyJoinable", Args: []int{0, 1}},
		},
		OpSetGroupMetadata: {
			{Method: "SetGroupMetadata", Args: []int{0, 1, 2}},
			{Method: "SetLobbyData", Args: []int{0, 1, 2}},
		},
		OpGroupMemberCount: {
			{Method: "GetGroupMemberCount", Args: []int{0}},
			{Method: "GetNumLobbyMembers", Args: []int{0}},
		},
		OpGroupMemberAt: {
			{Method: "GetGroupMemberAt", Args: []int{0, 1}},
			{Method: "GetLobbyMemberByIndex", Args: []int{0, 1}},
		},
		OpEnumerateFriends: {
			{Method: "EnumerateFriends"},
			{Method: "GetFriends"},
			{Method: "ListFriends"},
		},
		OpFriendPresence: {
			{Method: "GetFriendPresenceAttribute", Args: []int{0, 1}},
			{Method: "GetFriendRichPresence", Args: []int{0, 1}},
		},
	}
}
