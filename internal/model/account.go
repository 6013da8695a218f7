package model

// Account is the identity a run is executed for. It is supplied externally and
// never changes while a run is in progress.
type Account struct {
	// ID is the stable identifier of the account (used to group run history).
	ID string
	// Name is the display name used on logs and reports.
	Name string
	// Cookie is the session credential sent on every request.
	Cookie string
}
