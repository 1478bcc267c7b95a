package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLedgerKeys(t *testing.T) {
	assert.Equal(t, "raw_12", RawKey(12))
	assert.Equal(t, "finished_7", FinishedKey(7))
}

func TestParseLedgerID(t *testing.T) {
	id, ok := ParseLedgerID("raw_12", RawKeyPrefix)
	assert.True(t, ok)
	assert.Equal(t, 12, id)

	_, ok = ParseLedgerID("raw_12", FinishedKeyPrefix)
	assert.False(t, ok)

	_, ok = ParseLedgerID("raw_abc", RawKeyPrefix)
	assert.False(t, ok)

	id, ok = ParseLedgerID("finished_3", FinishedKeyPrefix)
	assert.True(t, ok)
	assert.Equal(t, 3, id)
}

func TestStockErrorMessage(t *testing.T) {
	err := &StockError{Key: "finished_3", Have: 120, Need: 150}
	assert.Equal(t, "insufficient stock for finished_3: have 120.00kg, need 150.00kg", err.Error())
}
