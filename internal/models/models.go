package models

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&Account{},
		&Club{},
		&ClubMember{},
		&ClubAnnouncement{},
		&Event{},
		&Registration{},
		&Flag{},
		&ActivityLog{},
	}
}
