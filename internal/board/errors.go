package board

import "errors"

// Editing errors. Compare with errors.Is.
var (
	ErrUnknownTile            = errors.New("unknown tile")
	ErrSceneryTile            = errors.New("scenery tiles have no options")
	ErrUnknownOption          = errors.New("unknown option")
	ErrUnknownPolicy          = errors.New("unknown policy")
	ErrMagicModeDisabled      = errors.New("magic mode is disabled")
	ErrCustomPoliciesDisabled = errors.New("custom policies are disabled")
	ErrOutOfRange             = errors.New("value out of range")
	ErrInvalidLayout          = errors.New("invalid board layout")
	ErrInvalidScenario        = errors.New("invalid scenario document")
)
