// Package cli provides the interactive bucket-list command-line client.
//
// It wires configuration, the persisted session, the API services, the view
// controllers and the route guard into a REPL. Private commands (mine, add,
// edit, profile and friends) pass through the guard first; without a session
// they redirect to the login prompt. A credential rejected by the server
// drops the session and sends the user back to login as well.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
