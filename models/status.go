package models

import (
	"database/sql/driver"
	"fmt"
)

// ListingStatus is the allocation state of a listing.
type ListingStatus string

const (
	ListingOpen    ListingStatus = "Open"
	ListingAwarded ListingStatus = "Awarded"
	// ListingClosed is only reachable through administrative removal.
	ListingClosed ListingStatus = "Closed"
)

func (s ListingStatus) Valid() bool {
	switch s {
	case ListingOpen, ListingAwarded, ListingClosed:
		return true
	}
	return false
}

func (s *ListingStatus) Scan(src any) error { return scanEnum(src, s, ListingStatus.Valid) }

func (s ListingStatus) Value() (driver.Value, error) { return enumValue(s, s.Valid()) }

// ItemStatus is the allocation state of one listing item. Items never close.
type ItemStatus string

const (
	ItemOpen    ItemStatus = "Open"
	ItemAwarded ItemStatus = "Awarded"
)

func (s ItemStatus) Valid() bool {
	switch s {
	case ItemOpen, ItemAwarded:
		return true
	}
	return false
}

func (s *ItemStatus) Scan(src any) error { return scanEnum(src, s, ItemStatus.Valid) }

func (s ItemStatus) Value() (driver.Value, error) { return enumValue(s, s.Valid()) }

// BidStatus is the decision state of a bid.
type BidStatus string

const (
	BidPending  BidStatus = "Pending"
	BidAccepted BidStatus = "Accepted"
	// BidRejected is part of the stored vocabulary; no operation sets it yet.
	BidRejected BidStatus = "Rejected"
)

func (s BidStatus) Valid() bool {
	switch s {
	case BidPending, BidAccepted, BidRejected:
		return true
	}
	return false
}

func (s *BidStatus) Scan(src any) error { return scanEnum(src, s, BidStatus.Valid) }

func (s BidStatus) Value() (driver.Value, error) { return enumValue(s, s.Valid()) }

// Visibility controls whether a listing can be discovered. It is independent
// of ListingStatus.
type Visibility string

const (
	VisibilityActive  Visibility = "Active"
	VisibilityPassive Visibility = "Passive"
	VisibilityDeleted Visibility = "Deleted"
)

func (v Visibility) Valid() bool {
	switch v {
	case VisibilityActive, VisibilityPassive, VisibilityDeleted:
		return true
	}
	return false
}

func (v *Visibility) Scan(src any) error { return scanEnum(src, v, Visibility.Valid) }

func (v Visibility) Value() (driver.Value, error) { return enumValue(v, v.Valid()) }

// Role is the account type of a user.
type Role string

const (
	RoleUser   Role = "User"
	RoleVendor Role = "Vendor"
	RoleAdmin  Role = "Admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleVendor, RoleAdmin:
		return true
	}
	return false
}

func (r *Role) Scan(src any) error { return scanEnum(src, r, Role.Valid) }

func (r Role) Value() (driver.Value, error) { return enumValue(r, r.Valid()) }

func scanEnum[T ~string](src any, dst *T, valid func(T) bool) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan %T into %T", src, *dst)
	}
	val := T(raw)
	if !valid(val) {
		return fmt.Errorf("invalid %T %q", *dst, raw)
	}
	*dst = val
	return nil
}

func enumValue[T ~string](v T, ok bool) (driver.Value, error) {
	if !ok {
		return nil, fmt.Errorf("invalid %T %q", v, string(v))
	}
	return string(v), nil
}
