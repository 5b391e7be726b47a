package workspace

// BuildHierarchy arranges a flat record list into a forest.
// Every record appears exactly once: under its parent when the parent is in the
// list, otherwise as a root. Records caught in a parent cycle become roots.
func BuildHierarchy(files []FileRecord) []*Node {
	nodes := make([]*Node, len(files))
	byID := make(map[string]*Node, len(files))
	parentOf := make(map[string]string, len(files))
	for i, f := range files {
		nodes[i] = &Node{FileRecord: f}
		if _, exists := byID[f.ID]; !exists {
			byID[f.ID] = nodes[i]
			parentOf[f.ID] = f.ParentID
		}
	}

	roots := make([]*Node, 0, len(files))
	for _, n := range nodes {
		parent, ok := byID[n.ParentID]
		if n.ParentID == "" || !ok || parent == n || reachesSelf(parentOf, n.ID, len(files)) {
			roots = append(roots, n)
			continue
		}
		parent.Children = append(parent.Children, n)
	}
	return roots
}

// reachesSelf walks the ancestors of id and reports whether it loops back.
func reachesSelf(parentOf map[string]string, id string, limit int) bool {
	cur := parentOf[id]
	for i := 0; i < limit && cur != ""; i++ {
		if cur == id {
			return true
		}
		next, ok := parentOf[cur]
		if !ok {
			return false
		}
		cur = next
	}
	return false
}

// Walk visits nodes depth-first. Returning false from fn skips the subtree.
func Walk(nodes []*Node, fn func(n *Node, depth int) bool) {
	walk(nodes, 0, fn)
}

func walk(nodes []*Node, depth int, fn func(n *Node, depth int) bool) {
	for _, n := range nodes {
		if fn(n, depth) {
			walk(n.Children, depth+1, fn)
		}
	}
}

// FindNode returns the node with the given id.
func FindNode(nodes []*Node, id string) *Node {
	var found *Node
	Walk(nodes, func(n *Node, _ int) bool {
		if found != nil {
			return false
		}
		if n.ID == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// CountNodes returns file and folder counts below the given nodes.
func CountNodes(nodes []*Node) (files, folders int) {
	Walk(nodes, func(n *Node, _ int) bool {
		switch n.Kind {
		case KindFile:
			files++
		case KindFolder:
			folders++
		}
		return true
	})
	return files, folders
}

// IsUnder reports whether rec descends from ancestorID within files.
func IsUnder(files []FileRecord, rec FileRecord, ancestorID string) bool {
	if rec.ProjectID == ancestorID && rec.ID != ancestorID {
		return true
	}
	parentOf := make(map[string]string, len(files))
	for _, f := range files {
		parentOf[f.ID] = f.ParentID
	}
	cur := rec.ParentID
	for i := 0; i <= len(files) && cur != ""; i++ {
		if cur == ancestorID {
			return true
		}
		cur = parentOf[cur]
	}
	return false
}

// FindFileUnder returns the first file named name that descends from ancestorID.
func FindFileUnder(files []FileRecord, ancestorID, name string) (FileRecord, bool) {
	for _, f := range files {
		if f.IsFile() && f.Name == name && IsUnder(files, f, ancestorID) {
			return f, true
		}
	}
	return FileRecord{}, false
}

// Contains reports whether id is present in files.
func Contains(files []FileRecord, id string) bool {
	for _, f := range files {
		if f.ID == id {
			return true
		}
	}
	return false
}
