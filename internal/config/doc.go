// Package config persists the cleaner's remembered settings and loads the
// search-path list.
//
// Settings are stored as TOML through viper so the last used content root
// and rename choice can be offered again on the next run. Nothing here is
// global: callers construct a Store and load or save explicitly.
package config
