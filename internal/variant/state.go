package variant

// State is the lifecycle position of one product-edit session.
type State int

const (
	StateEmpty State = iota
	StateHydrating
	StateEditing
	StateValidating
	StateValid
	StateInvalid
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateHydrating:
		return "hydrating"
	case StateEditing:
		return "editing"
	case StateValidating:
		return "validating"
	case StateValid:
		return "valid"
	case StateInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
