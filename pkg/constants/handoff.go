package constants

type HandoffStatus string

const (
	HandoffNone     HandoffStatus = ""
	HandoffPending  HandoffStatus = "pending"
	HandoffAccepted HandoffStatus = "accepted"
	HandoffRejected HandoffStatus = "rejected"
)
