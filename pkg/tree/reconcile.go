package tree

// Pass is one render pass as the binder sees it.
type Pass struct {
	// Inserted are roots of newly inserted subtrees.
	Inserted []*Node

	// Changed are nodes that kept their identity but whose props differ.
	Changed []*Node

	// Removed are roots of removed subtrees.
	Removed []*Node
}

// Empty reports whether the pass carries no work.
func (p Pass) Empty() bool {
	return len(p.Inserted) == 0 && len(p.Changed) == 0 && len(p.Removed) == 0
}

// Reconcile compares prev and next and returns the pass that turns the
// live prev tree into next. Matched next nodes adopt the identity of their
// prev counterpart, so next becomes the tree to reconcile against on the
// following render.
//
// Nodes match when they have the same tag and widget and either the same
// key (keyed children) or the same position (unkeyed children).
func Reconcile(prev, next *Node) Pass {
	var p Pass
	reconcile(prev, next, &p)
	return p
}

func reconcile(prev, next *Node, p *Pass) {
	switch {
	case prev == nil && next == nil:
		return
	case prev == nil:
		p.Inserted = append(p.Inserted, next)
		return
	case next == nil:
		p.Removed = append(p.Removed, prev)
		return
	}

	if !sameKind(prev, next) {
		p.Removed = append(p.Removed, prev)
		p.Inserted = append(p.Inserted, next)
		return
	}

	next.id = prev.id
	if len(DiffProps(prev.Props, next.Props)) > 0 {
		p.Changed = append(p.Changed, next)
	}

	if hasKeys(prev.Children) || hasKeys(next.Children) {
		reconcileKeyed(prev.Children, next.Children, p)
	} else {
		reconcileUnkeyed(prev.Children, next.Children, p)
	}
}

func sameKind(a, b *Node) bool {
	return a.Tag == b.Tag && a.WidgetName() == b.WidgetName()
}

func reconcileUnkeyed(prev, next []*Node, p *Pass) {
	maxLen := len(prev)
	if len(next) > maxLen {
		maxLen = len(next)
	}
	for i := 0; i < maxLen; i++ {
		var prevChild, nextChild *Node
		if i < len(prev) {
			prevChild = prev[i]
		}
		if i < len(next) {
			nextChild = next[i]
		}
		reconcile(prevChild, nextChild, p)
	}
}

func reconcileKeyed(prev, next []*Node, p *Pass) {
	prevByKey := make(map[string]*Node, len(prev))
	for _, c := range prev {
		if c.Key != "" {
			prevByKey[c.Key] = c
		}
	}

	matched := make(map[*Node]bool, len(prev))
	for _, nextChild := range next {
		prevChild, ok := prevByKey[nextChild.Key]
		if nextChild.Key == "" || !ok || matched[prevChild] {
			p.Inserted = append(p.Inserted, nextChild)
			continue
		}
		matched[prevChild] = true
		reconcile(prevChild, nextChild, p)
	}

	for _, prevChild := range prev {
		if !matched[prevChild] {
			p.Removed = append(p.Removed, prevChild)
		}
	}
}

func hasKeys(children []*Node) bool {
	for _, c := range children {
		if c.Key != "" {
			return true
		}
	}
	return false
}
