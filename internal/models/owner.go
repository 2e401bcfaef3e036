package models

// Owner scopes a repository call to the entries of one user.
// The zero value matches every user.
type Owner struct {
	userID int64
	scoped bool
}

// AnyOwner matches entries of every user.
func AnyOwner() Owner {
	return Owner{}
}

// OwnedBy matches only the entries of userID.
func OwnedBy(userID int64) Owner {
	return Owner{userID: userID, scoped: true}
}

// OwnerFrom scopes to *userID when it is non-nil.
func OwnerFrom(userID *int64) Owner {
	if userID == nil {
		return AnyOwner()
	}
	return OwnedBy(*userID)
}

// UserID returns the scoped user and whether a scope is set.
func (o Owner) UserID() (int64, bool) {
	return o.userID, o.scoped
}
