package models

// DefaultRole is assigned to every user created through signup.
const DefaultRole = "user"

// Profile kinds a user can attach after signup.
const (
	ProfileBuyer  = "buyer"
	ProfileFarmer = "farmer"
)
