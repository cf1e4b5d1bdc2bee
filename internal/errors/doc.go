// Package errors provides structured, actionable errors for the abbrev
// tool: a code, a category, an optional file location and a hint.
//
// # Error Categories
//
//   - config: abbrev.json problems
//   - source: snippet files and object storage
//   - resolve: input documents and snippet expansion
//   - server: HTTP request problems
//   - cli: command-line input
//
// # Usage
//
//	err := errors.New("E142").
//	    WithLocationFromError(path, yamlErr).
//	    WithSource(data).
//	    WithSuggestion("Put snippet definitions under a top-level snippets key")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E142: Malformed snippets file
//	//
//	//   snippets.yaml:3
//	//
//	//        1 │ snippets:
//	//        2 │   img: |
//	//   →    3 │   name: img
//	//        4 │
//	//
//	//   Hint: Put snippet definitions under a top-level snippets key
package errors
