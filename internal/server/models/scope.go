package models

// Scope restricts store queries to the rows a caller may see: their own,
// or every row when Admin is set.
type Scope struct {
	UserID int64
	Admin  bool
}

// Allows reports whether a row owned by ownerID is visible in this scope.
func (s Scope) Allows(ownerID int64) bool {
	return s.Admin || s.UserID == ownerID
}
