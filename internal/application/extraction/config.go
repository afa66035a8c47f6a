package extraction

import "time"

// Config is the Request Coordinator's enumerated configuration surface
// (§6.5: cache.*, filestore.default_folder_name).
type Config struct {
	CacheEnabled      bool
	LookupTimeout     time.Duration
	SaveTimeout       time.Duration
	DefaultFolderName string
}

func DefaultConfig() Config {
	return Config{
		CacheEnabled:      true,
		LookupTimeout:     500 * time.Millisecond,
		SaveTimeout:       2 * time.Second,
		DefaultFolderName: "cookbook",
	}
}
