// Package config loads the demo CLI's settings from an ini file, the
// same way the teacher's reference server loads its InnoDB-style
// buffer-pool sizing from a [bufferpool]-shaped section.
package config

import "gopkg.in/ini.v1"

// Config holds the settings the demo CLI needs to stand up a Manager.
type Config struct {
	PoolCapacity int    `ini:"pool_capacity"`
	PageSize     uint64 `ini:"page_size"`
	DataDir      string `ini:"data_dir"`
}

// Default returns the settings used when no config file is supplied.
func Default() Config {
	return Config{
		PoolCapacity: 64,
		PageSize:     4096,
		DataDir:      "./pagedb-data",
	}
}

// Load reads the [bufferpool] section of an ini file at path, falling
// back to Default() for any key the file omits.
func Load(path string) (Config, error) {
	cfg := Default()

	f, err := ini.Load(path)
	if err != nil {
		return Config{}, err
	}

	section := f.Section("bufferpool")
	if err := section.MapTo(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
