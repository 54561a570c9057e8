package models

// SyncPolicy controls which messages the exporter keeps and whether media is
// downloaded. It is built once at startup and passed by value to every
// component that needs it; there is no ambient configuration state.
//
// Empty MessageTypes or Contacts means allow all. Contacts holds phone
// numbers without the two-digit area code prefix. MaxMessages caps how many
// messages are archived per history batch; zero means unlimited.
type SyncPolicy struct {
	IncludeMedia  bool
	IncludeGroups bool
	MessageTypes  []string
	Contacts      []string
	MaxMessages   int
}
