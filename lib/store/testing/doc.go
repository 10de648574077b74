// Package testing provides a conformance suite and benchmarks for store.IStore
// implementations. An implementation runs the suite from its own tests:
//
//	func Test(t *testing.T) {
//		storetesting.RunStoreTests(t, "LocalStore", func(ref int64) store.IStore {
//			return lstore.NewLocalStore(lstore.Options{ReferenceTime: ref})
//		})
//	}
//
// Every subtest gets a fresh store seeded with the same small fixture of people,
// places and visits, so expected query results can be written down by hand.
package testing
