package ast

// AnnotateOrigins assigns the provided source path to every node reachable from root.
// The table map may be nil; when provided it is populated with node -> path entries.
// Nodes that already have an origin keep it.
func AnnotateOrigins(root Node, path string, table map[Node]string) map[Node]string {
	if table == nil {
		table = make(map[Node]string)
	}
	if root == nil || path == "" {
		return table
	}
	Walk(root, func(node Node) bool {
		if _, ok := table[node]; !ok {
			table[node] = path
		}
		return true
	})
	return table
}
