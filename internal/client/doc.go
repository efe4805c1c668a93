// Package client defines the external collaborators feature reducers reach
// through effects: the gallery source, the local cache database and the
// clipboard and haptics side channels.
//
// Reducers never call these directly. A feature is constructed with an Env
// and its effect closures capture it.
package client
