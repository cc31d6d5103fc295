package types

// AccessEventInput is the caller-supplied part of an access event.
type AccessEventInput struct {
	Date       string `json:"date"`
	Time       string `json:"time"`
	AccessType string `json:"accessType"`
}

// AccessEvent is one recorded access occurrence. ID is assigned by the store.
type AccessEvent struct {
	ID         int64  `json:"id"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	AccessType string `json:"accessType"`
}

type BatchResult struct {
	Message string        `json:"message"`
	Events  []AccessEvent `json:"events"`
}
