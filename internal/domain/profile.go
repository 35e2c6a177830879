package domain

import "time"

// FarmerProfile holds the farm details attached to FARMER accounts.
type FarmerProfile struct {
	ID       string
	UserID   string
	FarmName string
	Address  string
	City     string
}

// Profile is the role-aware view returned by the profile endpoint. The
// farmer profile is present only for FARMER accounts that have filled one in.
type Profile struct {
	ID            string
	Email         string
	FullName      string
	Role          Role
	CreatedAt     time.Time
	FarmerProfile *FarmerProfile
}
