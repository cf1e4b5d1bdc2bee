// Package source loads snippet definitions for the abbrev tool.
//
// A snippets file is YAML with a top-level snippets mapping. Keys are
// snippet names, with aliases separated by "|". Values are templates in
// the treeyaml notation, written either as a block string or inline:
//
//	snippets:
//	  "a|link":
//	    name: a
//	    attributes:
//	      href: ~
//	  nav: |
//	    name: nav
//	    children:
//	      - name: a
//
// Files are read from local paths or from S3 (s3://bucket/key). The
// built-in HTML snippets are embedded in the binary.
package source
