// Package middleware holds cmd.Middleware implementations shared by the
// built-in commands.
package middleware
