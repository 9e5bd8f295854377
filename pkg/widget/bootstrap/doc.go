// Package bootstrap wraps Bootstrap's Popover and Tooltip components.
//
// The Go side owns the widget's configuration and state; the element carries
// the data-bs-* attributes Bootstrap reads, and imperative calls (show, hide,
// toggle, enable, disable, dispose, setContent) are issued as host dispatches
// named "<kind>:<method>".
//
//	btn := tree.El("button", tree.Text("Info"),
//	    tree.WithWidget(bootstrap.PopoverFactory{}),
//	    tree.Prop("title", "T"), tree.Prop("content", "C"))
package bootstrap
