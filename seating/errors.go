package seating

import "errors"

// Status tag yang dikembalikan core ke transport layer
const (
	StatusUpdateSuccess    = "UPDATE_SUCCESS"
	StatusNotAuthenticated = "NOT_AUTHENTICATED"
	StatusRestaurantClosed = "RESTAURANT_CLOSED"
	StatusAlreadyInList    = "ALREADY_IN_LIST"
	StatusInternalError    = "INTERNAL_ERROR"
)

// Business-rule rejection. Bukan failure: hasil terminal yang valid,
// dibedakan dari sukses lewat status tag.
var (
	ErrNotAuthenticated = errors.New("request carries no authenticated user")
	ErrRestaurantClosed = errors.New("restaurant is currently closed")
	ErrAlreadyInList    = errors.New("user already holds a waiting list entry or reservation")
	ErrInvalidPartySize = errors.New("party size must be at least 1")
	ErrNoTableOffered   = errors.New("no table has been offered for this entry")
	ErrEntryTerminal    = errors.New("entry already reached a terminal status")
)

// StatusFor memetakan error ke status tag untuk response envelope.
func StatusFor(err error) string {
	switch {
	case err == nil:
		return StatusUpdateSuccess
	case errors.Is(err, ErrNotAuthenticated):
		return StatusNotAuthenticated
	case errors.Is(err, ErrRestaurantClosed):
		return StatusRestaurantClosed
	case errors.Is(err, ErrAlreadyInList):
		return StatusAlreadyInList
	default:
		return StatusInternalError
	}
}
