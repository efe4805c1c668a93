// Package detail is the gallery detail feature. A detail can present
// another detail (a related gallery), so State holds an optional *State
// child one level deeper; each level owns its child exclusively.
package detail
