// Package resolve expands snippet references in an abbreviation tree.
//
// Every node whose name resolves to a snippet in the registry is replaced,
// in place, by the tree produced from that snippet. Snippet sub-trees are
// resolved recursively before they are spliced in, and the authored node's
// attributes, classes, text value, self-closing flag, repeat descriptor and
// children are carried over to the deepest node of the expansion.
//
// # Cycles
//
// A snippet is never expanded twice on the same resolution chain. A
// snippet whose body mentions its own name (img expanding to img[src alt])
// therefore terminates and leaves the inner node as parsed. The guard set
// is created per top-level call.
//
// # Usage
//
//	reg := snippet.NewStatic()
//	reg.Define("img", tmplImg)
//
//	r := resolve.New(reg, treeyaml.Parse,
//	    resolve.WithLogger(logger),
//	    resolve.WithMetrics(resolve.NewMetrics()),
//	)
//	if err := r.Resolve(ctx, tree); err != nil {
//	    return err
//	}
package resolve
