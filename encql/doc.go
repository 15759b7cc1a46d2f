// Package encql maps ORM-level comparison operators onto searchable
// encryption query terms and batches their derivation into single backend
// round-trips.
//
// Columns declare which indexes they carry (equality, order_and_range,
// free_text_search, searchable_json); operators like Eq, Between or ILike
// resolve the backing index and return either a plain squirrel condition
// (index not configured) or a pending node. And/Or collect every pending
// node in a tree and derive all terms in one batched call:
//
//	users := encql.NewTable("users")
//	email := users.Column("email", encql.IndexConfig{Equality: &encql.EqualityIndex{}})
//	age := users.Column("age", encql.IndexConfig{CastAs: encql.CastNumber, OrderAndRange: &encql.OreIndex{}})
//
//	q := encql.NewQuerier(client)
//	where, err := q.And(ctx,
//	    encql.Eq(email, "alice@example.com"),
//	    encql.Gte(age, 21),
//	) // one round-trip, two terms
//
// The encryption engine itself is out of scope; see the backend package for
// the interface this layer depends on.
package encql
