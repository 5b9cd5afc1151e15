package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPage(t *testing.T) {
	p, err := NewPage(0, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Offset())
	assert.Equal(t, 10, p.Limit())

	_, err = NewPage(-1, 10)
	assert.True(t, IsKind(err, KindValidation))

	_, err = NewPage(0, 0)
	assert.True(t, IsKind(err, KindValidation))
}

func TestPageOffset_SnapsToPageIndex(t *testing.T) {
	tests := []struct{ from, size, offset int }{
		{0, 10, 0},
		{10, 10, 10},
		{15, 10, 10},
		{9, 10, 0},
		{4, 2, 4},
		{5, 2, 4},
	}
	for _, tt := range tests {
		p := Page{From: tt.from, Size: tt.size}
		assert.Equal(t, tt.offset, p.Offset(), "from=%d size=%d", tt.from, tt.size)
	}
}

func TestKindOf(t *testing.T) {
	err := NewBadStateError("X")
	assert.Equal(t, KindBadState, KindOf(err))
	assert.Equal(t, ErrorKind(""), KindOf(assert.AnError))
}
