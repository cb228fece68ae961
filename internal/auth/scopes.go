package auth

// OAuth scopes understood by the prescription API.
const (
	ScopePrescriptionsRead  = "prescriptions:read"
	ScopePrescriptionsWrite = "prescriptions:write"
	// ScopePrescriptionsAdmin lets a caller act on behalf of another user.
	ScopePrescriptionsAdmin = "prescriptions:admin"
)
