// Package hook binds client-side hooks and JavaScript islands as widgets.
//
// A client hook is a named behaviour the thin client attaches to an element
// (Sortable, Draggable, ...). Its configuration travels in a single v-hook
// attribute of the form "Name:{json}". An island is a mount point for a
// standalone JavaScript module that receives its props as JSON.
//
//	list := tree.El("ul", tree.WithWidget(hook.New("Sortable", "group", "animation")),
//	    tree.Prop("group", "tasks"))
package hook
