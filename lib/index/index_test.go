package index

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendKeepsInsertionOrder(t *testing.T) {
	idx := New(0)
	idx.Append(1, 30)
	idx.Append(1, 10)
	idx.Append(1, 20)
	idx.Append(2, 40)

	bucket, ok := idx.Bucket(1)
	require.True(t, ok)
	assert.Equal(t, []uint32{30, 10, 20}, bucket)

	bucket, ok = idx.Bucket(2)
	require.True(t, ok)
	assert.Equal(t, []uint32{40}, bucket)

	_, ok = idx.Bucket(3)
	assert.False(t, ok)
	assert.Equal(t, 2, idx.Len())
}

func TestRelocate(t *testing.T) {
	tests := []struct {
		name      string
		setup     map[uint32][]uint32
		id        uint32
		oldKey    uint32
		newKey    uint32
		wantFound bool
		wantOld   []uint32
		wantNew   []uint32
	}{
		{
			name:      "moves to end of existing bucket",
			setup:     map[uint32][]uint32{1: {10, 11, 12}, 2: {20, 21}},
			id:        11,
			oldKey:    1,
			newKey:    2,
			wantFound: true,
			wantOld:   []uint32{10, 12},
			wantNew:   []uint32{20, 21, 11},
		},
		{
			name:      "creates missing bucket",
			setup:     map[uint32][]uint32{1: {10}},
			id:        10,
			oldKey:    1,
			newKey:    5,
			wantFound: true,
			wantOld:   []uint32{},
			wantNew:   []uint32{10},
		},
		{
			name:      "id missing from old bucket is still appended",
			setup:     map[uint32][]uint32{1: {10}},
			id:        99,
			oldKey:    1,
			newKey:    2,
			wantFound: false,
			wantOld:   []uint32{10},
			wantNew:   []uint32{99},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := New(0)
			for key, ids := range tt.setup {
				for _, id := range ids {
					idx.Append(key, id)
				}
			}

			found := idx.Relocate(tt.id, tt.oldKey, tt.newKey)
			assert.Equal(t, tt.wantFound, found)

			oldBucket, _ := idx.Bucket(tt.oldKey)
			require.Len(t, oldBucket, len(tt.wantOld))
			for i := range tt.wantOld {
				assert.Equal(t, tt.wantOld[i], oldBucket[i])
			}

			newBucket, ok := idx.Bucket(tt.newKey)
			require.True(t, ok)
			assert.Equal(t, tt.wantNew, newBucket)
		})
	}
}

func TestBucketReturnsCopy(t *testing.T) {
	idx := New(0)
	idx.Append(1, 10)
	idx.Append(1, 11)

	bucket, _ := idx.Bucket(1)
	bucket[0] = 999

	again, _ := idx.Bucket(1)
	assert.Equal(t, []uint32{10, 11}, again)
}

func TestRelocateDoesNotAffectHandedOutBucket(t *testing.T) {
	idx := New(0)
	idx.Append(1, 10)
	idx.Append(1, 11)
	idx.Append(1, 12)

	before, _ := idx.Bucket(1)
	idx.Relocate(10, 1, 2)

	assert.Equal(t, []uint32{10, 11, 12}, before)
	after, _ := idx.Bucket(1)
	assert.Equal(t, []uint32{11, 12}, after)
}

func TestRange(t *testing.T) {
	idx := New(0)
	idx.Append(1, 10)
	idx.Append(2, 20)
	idx.Append(2, 21)

	total := 0
	idx.Range(func(key uint32, ids []uint32) bool {
		total += len(ids)
		return true
	})
	assert.Equal(t, 3, total)

	calls := 0
	idx.Range(func(key uint32, ids []uint32) bool {
		calls++
		return false
	})
	assert.Equal(t, 1, calls)
}

func TestConcurrentRelocate(t *testing.T) {
	idx := New(0)
	const n = 200
	for id := uint32(0); id < n; id++ {
		idx.Append(0, id)
	}

	var wg sync.WaitGroup
	for id := uint32(0); id < n; id++ {
		wg.Add(2)
		go func(id uint32) {
			defer wg.Done()
			idx.Relocate(id, 0, 1+id%4)
		}(id)
		go func() {
			defer wg.Done()
			_, _ = idx.Bucket(0)
		}()
	}
	wg.Wait()

	seen := map[uint32]int{}
	idx.Range(func(key uint32, ids []uint32) bool {
		for _, id := range ids {
			seen[id]++
			assert.Equal(t, 1+id%4, key)
		}
		return true
	})
	assert.Len(t, seen, n)
	for id, count := range seen {
		assert.Equal(t, 1, count, "id %d", id)
	}
}
