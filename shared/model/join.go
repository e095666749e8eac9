package model

// Join is an inner join of Table on Table.Column = <base table>.Ref.
type Join struct {
	Table  string
	Column string
	Ref    string
}

// Joined is implemented by row types that read columns of other tables.
type Joined interface {
	Joins() []Join
}
