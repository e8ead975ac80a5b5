package model

// All lists every model migrated at start-up.
func All() []any {
	return []any{&User{}, &Team{}, &Column{}, &Task{}, &TeamStreak{}, &Handoff{}}
}
