// Package model defines the records handled by the travels store: Person,
// Place and VisitEvent, their partial update types and the filter sets of the
// two list/aggregate queries.
//
// Partial updates and filters use pointer fields so that "absent" and "zero"
// can be told apart. Gender only has the two wire values, an absent gender is a
// nil *Gender.
package model
