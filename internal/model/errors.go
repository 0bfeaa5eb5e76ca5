package model

// MaxNameLength bounds card and category names.
const MaxNameLength = 100

// ValidationError reports the first rule an entity failed. Message is meant for the user.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
