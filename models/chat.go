package models

// Chat is the conversation metadata record archived alongside messages.
type Chat struct {
	ID              string `json:"id"`
	Name            string `json:"name,omitempty"`
	IsGroup         bool   `json:"isGroup"`
	LastMessageTime int64  `json:"conversationTimestamp,omitempty"`
	UnreadCount     uint32 `json:"unreadCount,omitempty"`
}
