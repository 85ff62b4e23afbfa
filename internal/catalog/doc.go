// Package catalog classifies the entries of an extracted asset tree.
//
// Assets are identified purely by relative path and extension: textures are
// PNG files (restricted to the primary content subtree when one exists),
// sounds are Ogg containers, and model definitions are JSON files under a
// models path segment. Scans are pure directory traversals recomputed on
// demand; nothing in this package mutates the tree.
package catalog
