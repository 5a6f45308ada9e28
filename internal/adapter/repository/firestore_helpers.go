package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"medconnect/pkg/errors"
)

// getAllBatch is the document count per GetAll round trip.
const getAllBatch = 30

// count runs a server-side count aggregation.
func count(ctx context.Context, query firestore.Query) (int64, error) {
	result, err := query.NewAggregationQuery().WithCount("all").Get(ctx)
	if err != nil {
		return 0, err
	}

	value, ok := result["all"]
	if !ok {
		return 0, fmt.Errorf("count aggregation returned no value")
	}

	switch v := value.(type) {
	case *firestorepb.Value:
		return v.GetIntegerValue(), nil
	case int64:
		return v, nil
	}
	return 0, fmt.Errorf("unexpected count type %T", value)
}

// exists reports whether the document is present. A missing document is not
// an error.
func exists(ctx context.Context, ref *firestore.DocumentRef) (bool, error) {
	doc, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, err
	}
	return doc.Exists(), nil
}

// startAfter positions the query after the cursor document of coll. The
// cursor is the id of the last document the caller has seen.
func startAfter(ctx context.Context, coll *firestore.CollectionRef, query firestore.Query, cursor string) (firestore.Query, error) {
	if cursor == "" {
		return query, nil
	}

	snap, err := coll.Doc(cursor).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return query, errors.BadRequest("Invalid cursor", err)
		}
		return query, err
	}
	return query.StartAfter(snap), nil
}

// collect decodes every document of the iterator into T.
func collect[T any](iter *firestore.DocumentIterator) ([]*T, error) {
	defer iter.Stop()

	var items []*T
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		var item T
		if err := doc.DataTo(&item); err != nil {
			return nil, err
		}
		items = append(items, &item)
	}
	return items, nil
}

// getAll fetches documents by id in batches, skipping missing ones. Result
// order follows ids.
func getAll[T any](ctx context.Context, client *firestore.Client, coll *firestore.CollectionRef, ids []string) ([]*T, error) {
	items := make([]*T, 0, len(ids))
	for i := 0; i < len(ids); i += getAllBatch {
		end := i + getAllBatch
		if end > len(ids) {
			end = len(ids)
		}

		refs := make([]*firestore.DocumentRef, 0, end-i)
		for _, id := range ids[i:end] {
			refs = append(refs, coll.Doc(id))
		}

		docs, err := client.GetAll(ctx, refs)
		if err != nil {
			return nil, err
		}

		for _, doc := range docs {
			if doc == nil || !doc.Exists() {
				continue
			}
			var item T
			if err := doc.DataTo(&item); err != nil {
				return nil, err
			}
			items = append(items, &item)
		}
	}
	return items, nil
}
