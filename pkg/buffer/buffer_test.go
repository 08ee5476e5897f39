package buffer

import (
	"errors"
	"testing"

	cerrors "github.com/c360/limitedqueue/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drain pops until the buffer is empty and returns the items in pop order.
func drain[T any](t *testing.T, rb *RingBuffer[T]) []T {
	t.Helper()
	var out []T
	for !rb.Empty() {
		v, err := rb.PopFront()
		require.NoError(t, err)
		out = append(out, v)
	}
	return out
}

func TestRingBufferInterface(t *testing.T) {
	buf, err := NewRingBuffer[int](5)
	require.NoError(t, err, "Failed to create buffer")

	var q Queue[int] = buf
	if q.Size() != 0 {
		t.Errorf("Expected initial size 0, got %d", q.Size())
	}
	if q.Capacity() != 5 {
		t.Errorf("Expected capacity 5, got %d", q.Capacity())
	}
	if !q.Empty() {
		t.Error("Expected buffer to be empty initially")
	}
	if q.Full() {
		t.Error("Expected buffer not to be full initially")
	}
	assert.Equal(t, Reject, buf.Policy(), "Reject should be the default policy")
}

func TestRingBufferConstruction(t *testing.T) {
	t.Run("invalid capacity", func(t *testing.T) {
		for _, capacity := range []int{0, -1} {
			buf, err := NewRingBuffer[int](capacity)
			require.Error(t, err)
			assert.Nil(t, buf)
			assert.True(t, errors.Is(err, ErrInvalidCapacity))
			assert.True(t, cerrors.IsInvalid(err))
		}
	})

	t.Run("initializer within capacity", func(t *testing.T) {
		buf, err := NewRingBufferFrom(5, []int{1, 2, 3})
		require.NoError(t, err)
		assert.Equal(t, 3, buf.Size())
		assert.Equal(t, 0, buf.start)
		assert.Equal(t, 3, buf.end)
		assert.Equal(t, []int{1, 2, 3}, buf.Values())
	})

	t.Run("initializer exactly at capacity", func(t *testing.T) {
		buf, err := NewRingBufferFrom(3, []int{1, 2, 3})
		require.NoError(t, err)
		assert.True(t, buf.Full())
	})

	t.Run("empty initializer", func(t *testing.T) {
		buf, err := NewRingBufferFrom[int](3, nil)
		require.NoError(t, err)
		assert.True(t, buf.Empty())
	})

	t.Run("initializer exceeds capacity", func(t *testing.T) {
		buf, err := NewRingBufferFrom(3, []int{1, 2, 3, 4})
		require.Error(t, err)
		assert.Nil(t, buf, "no partially constructed buffer may be returned")
		assert.True(t, errors.Is(err, ErrInvalidInitializer))
		assert.True(t, cerrors.IsInvalid(err))
		assert.Contains(t, err.Error(), "RingBuffer.NewRingBufferFrom: validate initializer failed")
	})

	t.Run("initializer is copied", func(t *testing.T) {
		initial := []int{1, 2}
		buf, err := NewRingBufferFrom(2, initial)
		require.NoError(t, err)
		initial[0] = 99
		v, err := buf.Front()
		require.NoError(t, err)
		assert.Equal(t, 1, v)
	})
}

func TestRingBufferBasicOperations(t *testing.T) {
	buf, err := NewRingBuffer[string](3)
	require.NoError(t, err, "Failed to create buffer")

	for _, s := range []string{"first", "second", "third"} {
		_, evicted, err := buf.PushBack(s)
		require.NoError(t, err)
		assert.False(t, evicted)
	}

	if !buf.Full() {
		t.Error("Expected buffer to be full")
	}
	if buf.Empty() {
		t.Error("Expected buffer not to be empty")
	}

	value, err := buf.Front()
	require.NoError(t, err)
	assert.Equal(t, "first", value)
	assert.Equal(t, 3, buf.Size(), "Front should not change size")

	value, err = buf.PopFront()
	require.NoError(t, err)
	assert.Equal(t, "first", value)
	assert.Equal(t, 2, buf.Size())

	batch := buf.PopBatch(5)
	assert.Equal(t, []string{"second", "third"}, batch)
	assert.True(t, buf.Empty())
}

// Capacity 3 from [1,2,3]: peek, pop, peek, size, clear.
func TestRingBufferWalkthrough(t *testing.T) {
	buf, err := NewRingBufferFrom(3, []int{1, 2, 3})
	require.NoError(t, err)

	front, err := buf.Front()
	require.NoError(t, err)
	assert.Equal(t, 1, front)

	_, err = buf.PopFront()
	require.NoError(t, err)

	front, err = buf.Front()
	require.NoError(t, err)
	assert.Equal(t, 2, front)
	assert.Equal(t, 2, buf.Size())
	assert.False(t, buf.Empty())

	buf.Clear()
	assert.True(t, buf.Empty())
	assert.Equal(t, 0, buf.Size())
}

func TestRingBufferFIFOOrder(t *testing.T) {
	buf, err := NewRingBuffer[int](8)
	require.NoError(t, err)

	for i := 1; i <= 8; i++ {
		_, _, err := buf.PushBack(i)
		require.NoError(t, err)
		assert.Equal(t, i, buf.Size())
	}

	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, drain(t, buf))
}

func TestRingBufferOverflowPolicies(t *testing.T) {
	testCases := []struct {
		name        string
		policy      OverflowPolicy
		expected    []int
		wantEvicted []int
		wantErrs    int
	}{
		{
			name:        "Reject",
			policy:      Reject,
			expected:    []int{1, 2, 3}, // 4,5 refused
			wantEvicted: nil,
			wantErrs:    2,
		},
		{
			name:        "EvictOldest",
			policy:      EvictOldest,
			expected:    []int{3, 4, 5}, // 1,2 evicted
			wantEvicted: []int{1, 2},
			wantErrs:    0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf, err := NewRingBuffer[int](3, WithOverflowPolicy[int](tc.policy))
			require.NoError(t, err, "Failed to create buffer")

			var evictedItems []int
			errCount := 0
			for i := 1; i <= 5; i++ {
				old, evicted, err := buf.PushBack(i)
				if err != nil {
					errCount++
					assert.True(t, errors.Is(err, ErrOverflow))
					continue
				}
				if evicted {
					evictedItems = append(evictedItems, old)
				}
			}

			assert.Equal(t, tc.wantErrs, errCount)
			assert.Equal(t, tc.wantEvicted, evictedItems)
			assert.Equal(t, tc.expected, drain(t, buf))
		})
	}
}

func TestRingBufferRejectLeavesStateUnchanged(t *testing.T) {
	buf, err := NewRingBufferFrom(3, []int{1, 2, 3})
	require.NoError(t, err)

	start, end := buf.start, buf.end
	old, evicted, err := buf.PushBack(4)
	require.Error(t, err)

	assert.True(t, errors.Is(err, ErrOverflow))
	assert.True(t, cerrors.IsTransient(err), "overflow is recoverable once space is freed")
	assert.Equal(t, "RingBuffer.PushBack: insert failed: queue overflow", err.Error())
	assert.False(t, evicted)
	assert.Zero(t, old)
	assert.Equal(t, start, buf.start)
	assert.Equal(t, end, buf.end)
	assert.Equal(t, 3, buf.Size())
	assert.Equal(t, []int{1, 2, 3}, buf.Values())

	// Retry after popping succeeds
	_, err = buf.PopFront()
	require.NoError(t, err)
	_, _, err = buf.PushBack(4)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 4}, buf.Values())
}

func TestRingBufferEvictOldestReportsEvicted(t *testing.T) {
	buf, err := NewRingBufferFrom(3, []int{1, 2, 3}, WithOverflowPolicy[int](EvictOldest))
	require.NoError(t, err)

	old, evicted, err := buf.PushBack(4)
	require.NoError(t, err)
	assert.True(t, evicted)
	assert.Equal(t, 1, old)
	assert.True(t, buf.Full())
	assert.Equal(t, 3, buf.Size())

	assert.Equal(t, []int{2, 3, 4}, drain(t, buf))
}

func TestRingBufferUnderflow(t *testing.T) {
	buf, err := NewRingBuffer[int](2)
	require.NoError(t, err)

	// Move the cursors off zero first
	_, _, _ = buf.PushBack(1)
	_, _ = buf.PopFront()
	start, end := buf.start, buf.end

	_, err = buf.PopFront()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnderflow))
	assert.True(t, cerrors.IsTransient(err))

	_, err = buf.Front()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnderflow))

	ref, err := buf.FrontRef()
	require.Error(t, err)
	assert.Nil(t, ref)
	assert.True(t, errors.Is(err, ErrUnderflow))

	assert.Equal(t, start, buf.start, "underflow must not move cursors")
	assert.Equal(t, end, buf.end, "underflow must not move cursors")
	assert.Nil(t, buf.PopBatch(3))
}

func TestRingBufferClearThenOverflow(t *testing.T) {
	for _, policy := range []OverflowPolicy{Reject, EvictOldest} {
		t.Run(policy.String(), func(t *testing.T) {
			buf, err := NewRingBufferFrom(3, []int{7, 8}, WithOverflowPolicy[int](policy))
			require.NoError(t, err)

			buf.Clear()
			assert.True(t, buf.Empty())

			for i := 1; i <= 3; i++ {
				_, _, err := buf.PushBack(i)
				require.NoError(t, err)
			}

			old, evicted, err := buf.PushBack(4)
			switch policy {
			case Reject:
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrOverflow))
				assert.Equal(t, []int{1, 2, 3}, buf.Values())
			case EvictOldest:
				require.NoError(t, err)
				assert.True(t, evicted)
				assert.Equal(t, 1, old)
				assert.Equal(t, []int{2, 3, 4}, buf.Values())
			}
		})
	}
}

func TestRingBufferWraparound(t *testing.T) {
	const capacity = 3
	buf, err := NewRingBuffer[int](capacity)
	require.NoError(t, err)

	next := 0
	expected := 0
	for cycle := 0; cycle < 25; cycle++ {
		push := cycle%capacity + 1
		for i := 0; i < push; i++ {
			_, _, err := buf.PushBack(next)
			require.NoError(t, err)
			next++
		}
		assert.Equal(t, push, buf.Size())
		assert.LessOrEqual(t, buf.start, capacity)
		assert.LessOrEqual(t, buf.end, capacity)

		for i := 0; i < push; i++ {
			v, err := buf.PopFront()
			require.NoError(t, err)
			assert.Equal(t, expected, v, "FIFO order broken at cycle %d", cycle)
			expected++
		}
		assert.True(t, buf.Empty())
	}

	assert.Greater(t, next, 2*(capacity+1), "cursors must have wrapped several times")
}

func TestRingBufferSizeAcrossWrap(t *testing.T) {
	buf, err := NewRingBuffer[int](3)
	require.NoError(t, err)

	// Place start at the last slot and end past the wrap
	for i := 0; i < 3; i++ {
		_, _, _ = buf.PushBack(i)
	}
	for i := 0; i < 3; i++ {
		_, _ = buf.PopFront()
	}
	_, _, _ = buf.PushBack(10)
	_, _, _ = buf.PushBack(11)

	require.Equal(t, 3, buf.start)
	require.Equal(t, 1, buf.end)
	assert.Equal(t, 2, buf.Size())
	assert.Equal(t, []int{10, 11}, buf.Values())
}

func TestRingBufferCapacityOne(t *testing.T) {
	buf, err := NewRingBuffer[int](1, WithOverflowPolicy[int](EvictOldest))
	require.NoError(t, err)

	_, _, err = buf.PushBack(1)
	require.NoError(t, err)
	assert.True(t, buf.Full())

	old, evicted, err := buf.PushBack(2)
	require.NoError(t, err)
	assert.True(t, evicted)
	assert.Equal(t, 1, old)

	v, err := buf.PopFront()
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.True(t, buf.Empty())
}

func TestRingBufferReleasesRemovedItems(t *testing.T) {
	a, b, c := 1, 2, 3
	buf, err := NewRingBufferFrom(2, []*int{&a, &b}, WithOverflowPolicy[*int](EvictOldest))
	require.NoError(t, err)

	old, evicted, err := buf.PushBack(&c)
	require.NoError(t, err)
	require.True(t, evicted)
	assert.Same(t, &a, old)

	popped, err := buf.PopFront()
	require.NoError(t, err)
	assert.Same(t, &b, popped)

	buf.Clear()
	for i, slot := range buf.slots {
		assert.Nil(t, slot, "slot %d still references an item", i)
	}
}

func TestRingBufferClear(t *testing.T) {
	buf, err := NewRingBuffer[string](5)
	require.NoError(t, err)

	for _, s := range []string{"a", "b", "c"} {
		_, _, _ = buf.PushBack(s)
	}
	assert.Equal(t, 3, buf.Size())

	buf.Clear()
	assert.Equal(t, 0, buf.Size())
	assert.True(t, buf.Empty())
	assert.Equal(t, 0, buf.start)
	assert.Equal(t, 0, buf.end)

	// Idempotent
	buf.Clear()
	assert.True(t, buf.Empty())
	assert.Equal(t, int64(3), buf.Stats().Discarded())
}

func TestRingBufferDropCallback(t *testing.T) {
	type drop struct {
		item   int
		reason DropReason
	}
	var drops []drop

	buf, err := NewRingBuffer[int](2,
		WithOverflowPolicy[int](EvictOldest),
		WithDropCallback(func(item int, reason DropReason) {
			drops = append(drops, drop{item, reason})
		}),
	)
	require.NoError(t, err)

	_, _, _ = buf.PushBack(1)
	_, _, _ = buf.PushBack(2)
	_, _, _ = buf.PushBack(3) // evicts 1
	_, _, _ = buf.PushBack(4) // evicts 2
	buf.Clear()               // discards 3, 4

	assert.Equal(t, []drop{
		{1, DropEvicted},
		{2, DropEvicted},
		{3, DropCleared},
		{4, DropCleared},
	}, drops)
}

func TestRingBufferFrontRef(t *testing.T) {
	buf, err := NewRingBufferFrom(3, []int{1, 2})
	require.NoError(t, err)

	ref, err := buf.FrontRef()
	require.NoError(t, err)
	assert.True(t, ref.Valid())

	v, err := ref.Value()
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	require.NoError(t, ref.Set(10))
	require.NoError(t, ref.Update(func(item *int) { *item++ }))

	front, err := buf.Front()
	require.NoError(t, err)
	assert.Equal(t, 11, front, "Ref writes must land in the front slot")

	// Reads do not invalidate
	_ = buf.Size()
	_ = buf.Values()
	assert.True(t, ref.Valid())

	mutations := []struct {
		name string
		fn   func(rb *RingBuffer[int])
	}{
		{"PushBack", func(rb *RingBuffer[int]) { _, _, _ = rb.PushBack(3) }},
		{"PopFront", func(rb *RingBuffer[int]) { _, _ = rb.PopFront() }},
		{"PopBatch", func(rb *RingBuffer[int]) { _ = rb.PopBatch(1) }},
		{"Clear", func(rb *RingBuffer[int]) { rb.Clear() }},
	}

	for _, m := range mutations {
		t.Run(m.name, func(t *testing.T) {
			rb, err := NewRingBufferFrom(3, []int{1, 2})
			require.NoError(t, err)
			ref, err := rb.FrontRef()
			require.NoError(t, err)

			m.fn(rb)

			assert.False(t, ref.Valid())
			_, err = ref.Value()
			assert.True(t, errors.Is(err, ErrStaleReference))
			assert.True(t, cerrors.IsInvalid(err))
			assert.True(t, errors.Is(ref.Set(1), ErrStaleReference))
			assert.True(t, errors.Is(ref.Update(func(*int) {}), ErrStaleReference))
		})
	}
}

func TestRingBufferRejectedPushKeepsRefValid(t *testing.T) {
	buf, err := NewRingBufferFrom(2, []int{1, 2})
	require.NoError(t, err)

	ref, err := buf.FrontRef()
	require.NoError(t, err)

	_, _, err = buf.PushBack(3)
	require.Error(t, err)
	assert.True(t, ref.Valid(), "a rejected push does not mutate the buffer")
}

func TestRingBufferPopBatch(t *testing.T) {
	buf, err := NewRingBufferFrom(5, []int{1, 2, 3, 4, 5})
	require.NoError(t, err)

	assert.Nil(t, buf.PopBatch(0))
	assert.Nil(t, buf.PopBatch(-1))
	assert.Equal(t, []int{1, 2}, buf.PopBatch(2))
	assert.Equal(t, []int{3, 4, 5}, buf.PopBatch(10))
	assert.True(t, buf.Empty())
	assert.Equal(t, int64(5), buf.Stats().Pops())
}

func TestRingBufferGenericTypes(t *testing.T) {
	type TestStruct struct {
		ID   int
		Name string
	}

	structBuf, err := NewRingBuffer[TestStruct](2)
	require.NoError(t, err)

	_, _, _ = structBuf.PushBack(TestStruct{ID: 1, Name: "first"})
	_, _, _ = structBuf.PushBack(TestStruct{ID: 2, Name: "second"})

	result, err := structBuf.PopFront()
	require.NoError(t, err)
	if result.ID != 1 || result.Name != "first" {
		t.Errorf("Struct buffer failed: expected {1, 'first'}, got %+v", result)
	}
}

func TestOverflowPolicyText(t *testing.T) {
	tests := []struct {
		input    string
		expected OverflowPolicy
	}{
		{"reject", Reject},
		{"REJECT", Reject},
		{"evict_oldest", EvictOldest},
		{"evict-oldest", EvictOldest},
		{" EvictOldest ", EvictOldest},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			policy, err := ParseOverflowPolicy(test.input)
			require.NoError(t, err)
			assert.Equal(t, test.expected, policy)
		})
	}

	_, err := ParseOverflowPolicy("block")
	require.Error(t, err)
	assert.True(t, cerrors.IsInvalid(err))

	text, err := EvictOldest.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "evict_oldest", string(text))

	var p OverflowPolicy
	require.NoError(t, p.UnmarshalText([]byte("evict_oldest")))
	assert.Equal(t, EvictOldest, p)

	_, err = OverflowPolicy(9).MarshalText()
	assert.Error(t, err)
	assert.Equal(t, "Unknown", OverflowPolicy(9).String())
	assert.Equal(t, "evicted", DropEvicted.String())
	assert.Equal(t, "cleared", DropCleared.String())
}
