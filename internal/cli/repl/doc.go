// Package repl runs an interactive session against one authenticated
// authline connection.
//
// Lines typed at the prompt are sent to the server verbatim and the
// reply is printed. A few words are handled locally:
//
//	help     list known commands
//	history  show previous input
//	exit     leave (also quit, or end of input)
package repl
