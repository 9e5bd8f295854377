// Package errors provides structured, coded errors for widgetkit.
//
// Every failure the binder surfaces to a render pass is a *WidgetError carrying
// a stable code (e.g. "W101"), a category, and, where known, the tag and
// property key that produced it. The underlying cause is kept for errors.Is/As.
//
// # Error Categories
//
//   - config: an invalid property value or widget option (not retried)
//   - widget: a wrapped library failed to instantiate, update or dispose
//   - dom: the host rejected an element operation
//   - lifecycle: an operation was issued against a node in the wrong state
//   - protocol: wire decoding errors on the remote host
//   - cli: command line usage errors
//
// # Usage
//
//	err := errors.New("W101").
//	    WithTag("div").
//	    WithKey("placement").
//	    WithSuggestion("Use one of auto, top, bottom, left, right")
//
//	fmt.Println(err.Format())
package errors
