package constants

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// ParsePriority returns the default priority for an empty value.
func ParsePriority(raw string) (Priority, bool) {
	if raw == "" {
		return PriorityMedium, true
	}
	p := Priority(raw)
	return p, p.Valid()
}
