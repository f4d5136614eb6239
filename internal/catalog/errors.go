package catalog

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Catalog validation errors. Compare with errors.Is.
var (
	// ErrUnsupportedVersion indicates the catalog schema version is outside the
	// range this build understands.
	ErrUnsupportedVersion = constError("unsupported catalog version")

	// ErrUnknownTileType indicates a tile type not declared in this package.
	ErrUnknownTileType = constError("unknown tile type")

	// ErrInvalidWeight indicates an option with no weight, both weights, or a
	// weight outside its valid domain.
	ErrInvalidWeight = constError("invalid option weight")

	// ErrInvalidPolicy indicates a malformed catalog policy.
	ErrInvalidPolicy = constError("invalid policy")

	// ErrDuplicatePolicy indicates two policies with the same key on one option.
	ErrDuplicatePolicy = constError("duplicate policy key")

	// ErrSceneryOptions indicates options were declared on a scenery tile.
	ErrSceneryOptions = constError("scenery tiles cannot carry options")
)
