// Package catalog implements the menu catalog: ingredient items
// (materials and vegetables) and stores, persisted in a relational
// repository with optional image attachments in external blob storage
// and change events published for downstream consumers.
//
// The three backing systems (repository, blob store, event publisher)
// have independent failure characteristics. The service coordinates
// mutations so that a failure partway through never leaves an orphaned
// blob and never reports success for an inconsistent row: any blob
// written during a failed call is deleted best-effort before the
// original error is returned.
//
// Basic usage:
//
//	svc, err := catalog.New(
//	    catalog.WithItemRepository(repo),
//	    catalog.WithBlobStore(blobs),
//	    catalog.WithPublisher(publisher),
//	)
package catalog
