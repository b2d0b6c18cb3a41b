// Package orchestrator wires the signup pipeline together: load persisted
// values into a form container, project it, and render it through a named
// renderer.
package orchestrator
