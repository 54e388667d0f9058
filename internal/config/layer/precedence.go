package layer

// Standard priority levels for configuration layers.
// Higher values override lower values during merging.
const (
	// PriorityBuiltin is the lowest priority for built-in defaults.
	PriorityBuiltin = 0

	// PriorityGameSettings is for values discovered in the game's settings files.
	PriorityGameSettings = 100

	// PriorityUser is for the user's voxcmd configuration.
	PriorityUser = 200

	// PriorityArgs is for command-line argument overrides.
	PriorityArgs = 600
)

// DefaultPriority returns the default priority for a given source.
func DefaultPriority(source Source) int {
	switch source {
	case SourceBuiltin:
		return PriorityBuiltin
	case SourceGameSettings:
		return PriorityGameSettings
	case SourceUser:
		return PriorityUser
	case SourceArgs:
		return PriorityArgs
	default:
		return PriorityBuiltin
	}
}
