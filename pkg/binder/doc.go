// Package binder ties declarative component nodes to live host elements and
// the widget instances they wrap.
//
// Each node moves through Unattached → Attached → Detached. Attach creates
// the element, writes the node's properties, links it under its parent,
// instantiates its widget and runs its insert hook. UpdateProperty writes a
// single changed property, forwarding widget-owned keys to the widget.
// Detach runs the remove hook, disposes the widget, and only then releases
// the element. Attach is idempotent, Detach runs exactly once, and both are
// synchronous.
//
// The binder owns the mapping from node identity to live binding and from
// element to node; nothing is stored on the elements themselves.
//
// A Binder is not safe for concurrent use. Drive it from the goroutine that
// runs render passes.
//
// # Render passes
//
//	pass := tree.Reconcile(prev, next)
//	if err := b.Apply(ctx, pass); err != nil {
//	    return err
//	}
//
// Apply processes removals, then insertions, then property changes, so an
// element identity is always released before anything can reuse it.
package binder
