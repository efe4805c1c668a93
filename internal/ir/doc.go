// Package ir provides the domain types shared by every panda package.
//
// This package contains type definitions and pure helpers only. All other
// internal packages import ir; ir imports nothing internal except paging.
//
// Key design constraints:
//   - NO float types anywhere - ratings are stored in half-star units
//   - All JSON tags use snake_case
//   - Domain values are plain values; slices held in state are replaced,
//     never written in place
package ir
