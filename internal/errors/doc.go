// Package errors provides coded, actionable errors for the domsync
// command line and server.
//
// Every code ("D001", "D020", ...) maps to a category, a short message and
// a longer explanation. Callers attach the input position, the
// underlying cause and a hint:
//
//	err := errors.New("D002").
//	    WithLocation("domsync.json", 4, 12).
//	    WithSuggestion(`"namespace" must be a JavaScript identifier`).
//	    Wrap(cause)
//
//	errors.Print(os.Stderr, err)
//
// Codes are grouped by category:
//   - D001-D019 config: loading and validating domsync.json
//   - D020-D039 render: tree files and failed render passes
//   - D040-D059 protocol: frames received from clients
//   - D060-D079 snapshot: crawler snapshot stores
//   - D080-D099 cli: command line usage
package errors
