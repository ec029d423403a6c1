package priority

import (
	"testing"

	"github.com/favbox/priority/common/json"
	"github.com/stretchr/testify/assert"
)

func TestSnapshot(t *testing.T) {
	tree := newTestTree(t)
	assert.NoError(t, tree.InsertStream(1, WithWeight(32)))
	assert.NoError(t, tree.InsertStream(3, WithDependsOn(1)))
	assert.NoError(t, tree.Unblock(3))

	snap := tree.Snapshot()
	assert.Equal(t, uint32(0), snap.StreamID)
	assert.Len(t, snap.Children, 1)

	s1 := snap.Children[0]
	assert.Equal(t, uint32(1), s1.StreamID)
	assert.Equal(t, 32, s1.Weight)
	assert.True(t, s1.Blocked)
	assert.True(t, s1.Active) // 经由活跃的子流 3

	s3 := s1.Children[0]
	assert.Equal(t, uint32(3), s3.StreamID)
	assert.False(t, s3.Blocked)

	// 视图与树不共享结构。
	assert.NoError(t, tree.RemoveStream(3))
	assert.Len(t, s1.Children, 1)
}

func TestDumpJSON(t *testing.T) {
	tree := newTestTree(t)
	assert.NoError(t, tree.InsertStream(1))
	assert.NoError(t, tree.InsertStream(3, WithDependsOn(1), WithWeight(64)))

	data, err := tree.DumpJSON()
	assert.NoError(t, err)

	var snap StreamSnapshot
	assert.NoError(t, json.Unmarshal(data, &snap))
	assert.Equal(t, tree.Snapshot(), &snap)
}
