package memory_test

import (
	"testing"

	"giftster/internal/storage"
	"giftster/internal/storage/memory"
	"giftster/internal/storage/storetest"
)

func TestMemoryStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) storage.Store {
		return memory.New()
	})
}
