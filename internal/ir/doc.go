// Package ir defines the FieldML object model: handles, object kinds, the
// closed set of object variants and the plain document types used when a
// region is exported.
//
// This package contains type definitions and pure helpers only. All other
// internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Objects are referenced by Handle, never by pointer, across packages
//   - The zero Handle is InvalidHandle and means "no object"
//   - Document types carry no floats; literals stay as strings
//   - All JSON tags use snake_case
package ir
