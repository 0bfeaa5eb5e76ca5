package engine

// Status is the render state of a fetched collection.
type Status int

const (
	// StatusLoading means a fetch is in flight.
	StatusLoading Status = iota
	// StatusError means the last fetch failed; Items is empty.
	StatusError
	// StatusEmpty means the last fetch succeeded with no items.
	StatusEmpty
	// StatusPopulated means the last fetch returned items.
	StatusPopulated
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	case StatusEmpty:
		return "empty"
	case StatusPopulated:
		return "populated"
	default:
		return "unknown"
	}
}

// Collection is a fetched list together with how it got there. It only changes through
// Reduce.
type Collection[T any] struct {
	Err    error
	Items  []T
	Status Status
}

// ActionKind identifies a collection transition.
type ActionKind int

const (
	// ActionFetchStarted begins a fetch.
	ActionFetchStarted ActionKind = iota
	// ActionFetchSucceeded delivers items.
	ActionFetchSucceeded
	// ActionFetchFailed delivers an error.
	ActionFetchFailed
)

// Action is an input to Reduce.
type Action[T any] struct {
	Err   error
	Items []T
	Kind  ActionKind
}

// FetchStarted returns the action for a fetch going out.
func FetchStarted[T any]() Action[T] {
	return Action[T]{Kind: ActionFetchStarted}
}

// FetchSucceeded returns the action for a completed fetch.
func FetchSucceeded[T any](items []T) Action[T] {
	return Action[T]{Kind: ActionFetchSucceeded, Items: items}
}

// FetchFailed returns the action for a failed fetch.
func FetchFailed[T any](err error) Action[T] {
	return Action[T]{Kind: ActionFetchFailed, Err: err}
}

// FetchResult picks FetchSucceeded or FetchFailed.
func FetchResult[T any](items []T, err error) Action[T] {
	if err != nil {
		return FetchFailed[T](err)
	}
	return FetchSucceeded(items)
}

// Reduce applies a to c. A started fetch keeps the previous items so a refetch does not
// blank the screen; a failed fetch degrades to an empty list carrying the error.
func Reduce[T any](c Collection[T], a Action[T]) Collection[T] {
	switch a.Kind {
	case ActionFetchStarted:
		return Collection[T]{Items: c.Items, Status: StatusLoading}
	case ActionFetchSucceeded:
		if len(a.Items) == 0 {
			return Collection[T]{Items: []T{}, Status: StatusEmpty}
		}
		return Collection[T]{Items: a.Items, Status: StatusPopulated}
	case ActionFetchFailed:
		return Collection[T]{Items: []T{}, Err: a.Err, Status: StatusError}
	default:
		return c
	}
}

// Loading returns a collection whose first fetch is in flight.
func Loading[T any]() Collection[T] {
	return Collection[T]{Status: StatusLoading}
}
