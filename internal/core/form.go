package core

// Form identifies a traversal mode of the player token. Forms are small
// ordinals assigned by the ruleset registry; FormDefault is always zero and
// means no transformation has happened yet.
type Form uint8

const (
	FormDefault Form = 0

	// MaxForms bounds the number of forms a registry may hold, which lets
	// per-form move budgets live in fixed-size arrays.
	MaxForms = 8
)

// DefaultFormName is the configuration name of FormDefault.
const DefaultFormName = "default"

// Unlimited is the move-allotment sentinel for a form that never runs out.
const Unlimited = -1
