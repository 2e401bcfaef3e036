// Package cli is the terminal front end of the journal: a cobra command
// tree whose root command runs an interactive shell.
//
// # Overview
//
// App wires the stores and the session manager over the two database files
// named by the configuration. The shell reads one command per line, prompts
// for the fields it needs and scopes every entry command to the user held by
// the session manager. The prompt follows the session through an observer.
//
// Passwords are read without echo when stdin is a terminal and as plain
// lines otherwise, so scripted input works.
package cli
