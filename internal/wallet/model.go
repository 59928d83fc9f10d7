package wallet

import "time"

// Category identifies one of the spend buckets a driver wallet can draw from.
type Category string

const (
	CategoryFuel    Category = "fuel"
	CategoryToll    Category = "toll"
	CategoryFood    Category = "food"
	CategoryLodging Category = "lodging"
	CategoryRepair  Category = "repair"
)

// Categories lists every recognized spend category.
func Categories() []Category {
	return []Category{CategoryFuel, CategoryToll, CategoryFood, CategoryLodging, CategoryRepair}
}

// Limits carries the per-category ceilings for a single expense, in paise.
type Limits struct {
	Fuel    int64 `json:"fuel_limit"`
	Toll    int64 `json:"toll_limit"`
	Food    int64 `json:"food_limit"`
	Lodging int64 `json:"lodging_limit"`
	Repair  int64 `json:"repair_limit"`
}

// For returns the ceiling for the given category. Unrecognized categories
// report a zero limit so they are always rejected rather than silently
// passed through.
func (l Limits) For(category Category) int64 {
	switch category {
	case CategoryFuel:
		return l.Fuel
	case CategoryToll:
		return l.Toll
	case CategoryFood:
		return l.Food
	case CategoryLodging:
		return l.Lodging
	case CategoryRepair:
		return l.Repair
	default:
		return 0
	}
}

// Wallet is a driver's prepaid expense account. Balance is in paise and is
// only mutated through conditional debits (expense posting) and credits
// (payment reconciliation).
type Wallet struct {
	ID        string    `json:"id"`
	DriverID  string    `json:"driver_id"`
	Balance   int64     `json:"balance"`
	Limits    Limits    `json:"limits"`
	CreatedAt time.Time `json:"created_at"`
}

// LimitsPatch updates only the category limits that are non-nil.
type LimitsPatch struct {
	Fuel    *int64
	Toll    *int64
	Food    *int64
	Lodging *int64
	Repair  *int64
}

// Empty reports whether the patch carries no changes.
func (p LimitsPatch) Empty() bool {
	return p.Fuel == nil && p.Toll == nil && p.Food == nil && p.Lodging == nil && p.Repair == nil
}
