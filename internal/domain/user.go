package domain

// User is one WhatsApp conversation partner. The ID is the phone number
// in international format, which is also the WhatsApp recipient address.
type User struct {
	ID         UserID
	Name       string
	Mode       TrackingMode
	PlanType   PlanType
	AccountID  AccountID
	State      UserState
	Active     bool
	CreatedAt  Timestamp
	LastActive Timestamp
}

// FirstName returns the part of the name used in message copy. Names
// imported from spreadsheets sometimes carry a suffix after an underscore.
func (u *User) FirstName() string {
	for i, r := range u.Name {
		if r == '_' {
			return u.Name[:i]
		}
	}
	return u.Name
}
