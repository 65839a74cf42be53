// Package devutil holds the error model shared by the devutil generators.
//
// The generators live in compiler/gen, the command line in cmd/devutil.
// Every failure a generator reports wraps one of the sentinels of this
// package, so callers can branch with errors.Is or the IsXxx helpers.
package devutil
