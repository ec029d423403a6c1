package priority

import "github.com/favbox/priority/common/json"

// StreamSnapshot 是某一时刻依赖森林中单个节点的只读视图。
// 子节点按兄弟顺序排列。根节点的 StreamID 为 0。
type StreamSnapshot struct {
	StreamID uint32            `json:"stream_id"`
	Weight   int               `json:"weight"`
	Blocked  bool              `json:"blocked"`
	Active   bool              `json:"active"`
	Children []*StreamSnapshot `json:"children,omitempty"`
}

// Snapshot 导出整棵依赖森林的只读视图，用于调试与断言。
// 视图与树不共享任何结构，导出后对树的变更不会反映在视图上。
func (t *PriorityTree) Snapshot() *StreamSnapshot {
	return snapshotStream(t.root)
}

// DumpJSON 将依赖森林编码为 JSON。仅用于调试观察，不是线上协议。
func (t *PriorityTree) DumpJSON() ([]byte, error) {
	return json.Marshal(t.Snapshot())
}

func snapshotStream(s *stream) *StreamSnapshot {
	snap := &StreamSnapshot{
		StreamID: s.id,
		Weight:   s.weight,
		Blocked:  s.blocked,
		Active:   s.active,
	}
	for _, c := range s.children {
		snap.Children = append(snap.Children, snapshotStream(c))
	}
	return snap
}
