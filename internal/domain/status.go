package domain

type EventStatus string

const (
	StatusPending  EventStatus = "pending"
	StatusApproved EventStatus = "approved"
	StatusCanceled EventStatus = "canceled"
)

func (s EventStatus) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusCanceled
}
