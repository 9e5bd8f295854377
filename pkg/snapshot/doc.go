// Package snapshot stores rendered HTML snapshots of component trees.
//
// Three stores are provided: MemoryStore for tests, DiskStore for local
// export, and S3Store for publishing to an S3-compatible bucket.
//
//	client := snapshot.NewS3Client(snapshot.S3Config{Region: "us-east-1"})
//	store := snapshot.NewS3Store(client, "my-bucket", "snapshots/")
//	err := snapshot.Export(ctx, store, "home", renderer, root)
//
// Names must be non-empty and must not contain "..", a leading slash or a
// backslash. Stores add the ".html" suffix themselves.
package snapshot
