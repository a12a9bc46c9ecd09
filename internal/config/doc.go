// Package config manages taskshell settings and state persistence.
//
// It handles:
//   - The user settings file (first run, keys file, cost limit, theme)
//   - The currently selected project
//   - Cost totals accrued per task
package config
