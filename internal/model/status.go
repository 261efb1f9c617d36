package model

// Status is the asset lifecycle state. The set is closed: transitions are
// validated by the service layer and nothing outside this enum is accepted.
type Status string

const (
	StatusAvailable          Status = "AVAILABLE"
	StatusReserved           Status = "RESERVED"
	StatusCheckedIn          Status = "CHECKED_IN"
	StatusCheckedOut         Status = "CHECKED_OUT"
	StatusInRepair           Status = "IN_REPAIR"
	StatusLost               Status = "LOST"
	StatusDisposed           Status = "DISPOSED"
	StatusAssignedToLocation Status = "ASSIGNED_TO_LOCATION"
	StatusDeleted            Status = "DELETED"
)

// Valid reports whether s is one of the closed enum values.
func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusReserved, StatusCheckedIn, StatusCheckedOut,
		StatusInRepair, StatusLost, StatusDisposed, StatusAssignedToLocation,
		StatusDeleted:
		return true
	}
	return false
}

func (s Status) String() string { return string(s) }
