// Package widget defines how third-party UI libraries plug into the binder.
//
// A Factory instantiates its library against a live element with the node's
// current configuration and claims the property keys it understands; the
// binder forwards those keys to Instance.Update instead of writing them to
// the DOM. Instances are owned by exactly one binding and are disposed
// before their element is released.
//
// Usage:
//
//	reg := widget.NewRegistry(bootstrap.PopoverFactory{}, bootstrap.TooltipFactory{})
//	f, ok := reg.Lookup("popover")
package widget
