package des

// Priority is the priority class used to break ties between Events
// scheduled for the same virtual time. Lower numeric values fire first.
type Priority int

const (
	// Urgent events fire before Normal events scheduled at the same time.
	// Process bootstrap (the Initialize event) uses this class so a newly
	// constructed Process sees control before any Normal event scheduled
	// at the same instant.
	Urgent Priority = 0

	// Normal is the default priority class.
	Normal Priority = 1
)
