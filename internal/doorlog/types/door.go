package types

type DoorState string

const (
	DoorLocked   DoorState = "LOCKED"
	DoorUnlocked DoorState = "UNLOCKED"
)

func (s DoorState) Valid() bool {
	return s == DoorLocked || s == DoorUnlocked
}

type DoorStatus struct {
	State DoorState `json:"state"`
}

type DoorCommandResult struct {
	Message string    `json:"message"`
	State   DoorState `json:"state"`
}
