// Package nanofire is an embedded document store with a Firestore-like
// programming model, layered over a flat key-value Adapter.
//
// Documents live in named collections. References identify a collection
// or a single document slot and may exist before any data is written.
// Queries are ordered pipelines of stages (Where, OrderBy, Skip, Limit)
// applied to a full scan of the collection. Reads return snapshots that
// evaluate once and then serve the cached result.
//
// Basic usage:
//
//	db := nanofire.New(storage.NewMemory())
//	defer db.Close()
//
//	people := db.Collection("people")
//	ref, err := nanofire.AddDoc(ctx, people, nanofire.Document{"name": "Mike", "age": 18})
//
//	q := nanofire.NewQuery(people,
//	    nanofire.Where("age", ">", 10),
//	    nanofire.OrderBy("name"),
//	    nanofire.Limit(10),
//	)
//	docs, err := nanofire.GetDocs(q).Data(ctx)
//
// Storage keys have the form "<collection>/<id>". The reserved key "meta"
// holds the ordered index of every live document key, shared by all
// collections of one DB.
//
// There are no transactions: each call is a single unit of work and a
// single writer per storage namespace is assumed.
package nanofire
