// Package dom defines the host DOM contract the binder writes through.
//
// A Host creates elements by tag name, writes attributes and text, links
// elements into a tree and removes them. Imperative widget calls (show,
// hide, dispose) go through Dispatch.
//
// Three hosts ship with widgetkit:
//
//   - Memory: an in-process DOM used by tests and by the CLI renderer.
//   - Null: a non-DOM context (server rendering, unit tests without a
//     document). Available reports false and every call is a no-op.
//   - remote.Host: operations are batched and streamed to a thin client
//     over a websocket (see package remote).
//
// Elements are opaque handles. Hosts never reuse a handle within their
// lifetime, so a handle doubles as element identity.
package dom
