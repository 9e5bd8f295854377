// Package remote drives a browser DOM from the server.
//
// A Host implements dom.Host by recording every call as a protocol.Op.
// A Session owns one Host and one binder.Binder per websocket connection:
// after each render pass the recorded operations are flushed to the thin
// client as FrameOps frames, the last one carrying FlagFinal. Widget
// events travel the other way as FrameEvent frames.
//
// Server wires sessions into an HTTP handler:
//
//	srv := remote.NewServer(func(r *http.Request) (*tree.Node, error) {
//	    return tree.El("main", tree.El("h1", "Hello")), nil
//	}, remote.ServerConfig{Addr: ":8080"})
//	err := srv.ListenAndServe(ctx)
//
// GET / serves the server-rendered page, GET /ws upgrades to a session and
// GET /metrics exposes the binder collectors.
package remote
