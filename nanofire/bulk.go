package nanofire

import (
	"context"
	"fmt"

	"github.com/arthur-debert/nanofire/nanofire/query"
	"github.com/arthur-debert/nanofire/nanofire/storage"
)

// MatchMode says how many documents a query-targeted mutation may touch
type MatchMode int

const (
	// AllMatches applies the mutation to every matching document.
	// Zero matches is not an error.
	AllMatches MatchMode = iota

	// ExpectOne requires exactly one match. No match fails with
	// ErrNotFound; several fail with ErrInvalidArgument and nothing changes.
	ExpectOne
)

// DeleteDocs deletes the documents q matches and returns how many were removed
func DeleteDocs(ctx context.Context, src Queryable, mode MatchMode) (int, error) {
	q := src.asQuery()
	col := q.ref.col

	count := 0
	err := col.db.locks.Execute(storage.WriteOperation, func() error {
		docs, err := matches(ctx, q, mode)
		if err != nil {
			return err
		}
		for _, doc := range docs {
			if _, err := col.delete(ctx, doc.ID()); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	return count, opError("delete", q.String(), err)
}

// UpdateDocs merges fields into the documents q matches and returns how
// many were updated
func UpdateDocs(ctx context.Context, src Queryable, fields Document, mode MatchMode) (int, error) {
	q := src.asQuery()
	col := q.ref.col

	count := 0
	err := col.db.locks.Execute(storage.WriteOperation, func() error {
		docs, err := matches(ctx, q, mode)
		if err != nil {
			return err
		}
		for _, doc := range docs {
			if err := col.update(ctx, doc.ID(), doc.Merge(fields)); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	return count, opError("update", q.String(), err)
}

// matches evaluates q with the lock already held and enforces mode
func matches(ctx context.Context, q *Query, mode MatchMode) ([]Document, error) {
	if err := query.Validate(q.stages); err != nil {
		return nil, err
	}
	all, err := q.ref.col.all(ctx)
	if err != nil {
		return nil, err
	}
	docs, err := query.Apply(all, q.stages)
	if err != nil {
		return nil, err
	}

	if mode == ExpectOne {
		switch len(docs) {
		case 0:
			return nil, fmt.Errorf("%w: no document matches", ErrNotFound)
		case 1:
		default:
			return nil, fmt.Errorf("%w: expected one match, found %d", ErrInvalidArgument, len(docs))
		}
	}
	return docs, nil
}
