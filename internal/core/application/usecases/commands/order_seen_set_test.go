package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dispatch/internal/core/domain/model/kernel"
)

func TestOrderSeenSet_MarksOnce(t *testing.T) {
	set := newOrderSeenSet()
	id := kernel.NewUUID()

	assert.True(t, set.markIfUnseen(id), "first mark should report unseen")
	assert.False(t, set.markIfUnseen(id), "second mark should report seen")
}

func TestOrderSeenSet_ForgetRearms(t *testing.T) {
	set := newOrderSeenSet()
	id := kernel.NewUUID()

	set.markIfUnseen(id)
	set.forget(id)

	assert.True(t, set.markIfUnseen(id), "forgotten id should count as unseen again")
}

func TestOrderSeenSet_RetainOnlyDropsDepartedOrders(t *testing.T) {
	set := newOrderSeenSet()
	staying := kernel.NewUUID()
	leaving := kernel.NewUUID()

	set.markIfUnseen(staying)
	set.markIfUnseen(leaving)

	set.retainOnly([]kernel.UUID{staying})

	assert.False(t, set.markIfUnseen(staying), "retained id stays deduplicated")
	assert.True(t, set.markIfUnseen(leaving), "departed id is re-armed")
}

func TestOrderSeenSet_ClearsWhenLarge(t *testing.T) {
	set := newOrderSeenSet()
	for range seenSetClearThreshold + 1 {
		set.markIfUnseen(kernel.NewUUID())
	}

	set.retainOnly(nil)

	assert.Zero(t, set.size(), "oversized set should be cleared outright")
}
