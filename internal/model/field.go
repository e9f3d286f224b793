package model

// Field is one bookable futsal court.  The venue operates a small fixed
// set of fields; they are seeded in the fields table and rarely change.
type Field struct {
    ID      uint64 `json:"id"`      // fields.id
    Name    string `json:"name"`    // fields.name, e.g. "Field A"
    Surface string `json:"surface"` // fields.surface, e.g. "vinyl interlock"
}
