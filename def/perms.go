package def

const (
	// DefaultFilePerms is used for reports and baselines.
	DefaultFilePerms = 0o644

	// DefaultDirPerms is used for the coverage and report directories.
	DefaultDirPerms = 0o755
)
