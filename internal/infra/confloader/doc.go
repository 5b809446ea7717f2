// Package confloader loads configuration with koanf and watches the
// configuration file with fsnotify.
//
// Priority (highest to lowest):
//
//  1. Environment variables (USERDIR_ prefix)
//  2. YAML configuration file
//  3. Values already present in the target struct
//
// LoadMap merges an arbitrary map on top, which tests and flag handling use.
package confloader
