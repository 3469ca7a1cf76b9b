package port

// XDGPaths provides the well-known directories exposed through the
// path:: commands.
type XDGPaths interface {
	HomeDir() (string, error)
	ConfigDir() (string, error)
	DataDir() (string, error)
	StateDir() (string, error)
	CacheDir() (string, error)
	TempDir() (string, error)
	ExecutablePath() (string, error)
}
