package session

// State is the position of a session in its lifecycle.
//
//	EncryptionNotSetUp ──Setup──▶ VaultUnlocked
//	VaultLocked ──Unlock──▶ VaultUnlocked ──Lock──▶ VaultLocked
type State int

const (
	EncryptionNotSetUp State = iota
	VaultLocked
	VaultUnlocked
)

func (s State) String() string {
	switch s {
	case EncryptionNotSetUp:
		return "encryption-not-set-up"
	case VaultLocked:
		return "vault-locked"
	case VaultUnlocked:
		return "vault-unlocked"
	default:
		return "unknown"
	}
}
