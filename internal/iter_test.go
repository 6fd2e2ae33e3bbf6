package internal

import (
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	first := map[string]int{"a": 1}
	second := map[string]int{"b": 2, "a": 3}

	var keys []string
	for key := range IterSeq2Concat(maps.All(first), maps.All(second)) {
		keys = append(keys, key)
	}
	assert.Equal(3, len(keys))
	assert.Equal("a", keys[0])

	merged := maps.Collect(IterSeq2Concat(maps.All(first), maps.All(second)))
	assert.Equal(map[string]int{"a": 3, "b": 2}, merged)

	count := 0
	for range IterSeq2Concat(maps.All(first), maps.All(second)) {
		count++
		break
	}
	assert.Equal(1, count)
}
