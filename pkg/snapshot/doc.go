// Package snapshot publishes the static markup crawlers receive.
//
// A crawler cannot run the client runtime, so the page it is served must
// already contain the whole tree. Publisher renders each Page for a
// crawler client and writes the document to a Store:
//
//	store, err := snapshot.OpenBolt("snapshots.db")
//	if err != nil {
//		return err
//	}
//	defer store.Close()
//
//	pub := &snapshot.Publisher{Renderer: renderer, Store: store, Concurrency: 4}
//	if err := pub.PublishAll(ctx, pages); err != nil {
//		return err
//	}
//
// Handler serves stored snapshots by URL path.
//
// # Stores
//
// BoltStore keeps snapshots in a local bbolt database. S3Store writes them
// to an S3 bucket, one object per page, laid out so the bucket can be
// served as a static site.
package snapshot
