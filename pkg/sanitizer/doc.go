// Package sanitizer normalizes user supplied text before validation and
// storage.
//
// All functions are idempotent. Invalid input yields an empty value rather
// than an error so that the validator, which runs afterwards, reports the
// problem in one place.
package sanitizer
