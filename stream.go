package priority

// stream 表示优先级树中的一个流节点。这是调度所需的最小元数据，
// 流本身的传输状态（流控窗口、帧队列等）由调用方持有。
type stream struct {
	// immutable:
	id uint32

	// owned by the tree's mutation operations:
	weight   int
	parent   *stream   // 根节点为 nil
	children []*stream // 全部子节点，按兄弟顺序排列
	sched    childScheduler
	blocked  bool
	active   bool // 缓存值：!blocked || 存在活跃子节点

	// owned by the parent's childScheduler:
	virtualFinish uint64
	schedSeq      uint64
	schedIndex    int // 在父调度队列堆中的下标，不在队列中时为 -1
}

func newStream(id uint32, weight int) *stream {
	return &stream{
		id:         id,
		weight:     weight,
		blocked:    true, // 新流默认阻塞，等待调用方 Unblock
		schedIndex: -1,
	}
}

// recomputeActive 按定义重算活跃状态：自身未阻塞，或存在活跃子节点。
// 调度队列中恰好是全部活跃子节点，因此只需检查队列是否为空。
func (s *stream) recomputeActive() bool {
	return !s.blocked || !s.sched.empty()
}

// childIndex 返回子节点在兄弟序列中的位置，不存在时为 -1。
func (s *stream) childIndex(c *stream) int {
	for i, v := range s.children {
		if v == c {
			return i
		}
	}
	return -1
}

// removeChild 将子节点从兄弟序列中摘除，并视情况从调度队列剔除。
func (s *stream) removeChild(c *stream) {
	if i := s.childIndex(c); i >= 0 {
		s.children = append(s.children[:i], s.children[i+1:]...)
	}
	s.sched.remove(c)
	c.parent = nil
}

// isDescendantOf 报告 s 是否位于 ancestor 的子树中（不含 ancestor 自身）。
func (s *stream) isDescendantOf(ancestor *stream) bool {
	for p := s.parent; p != nil; p = p.parent {
		if p == ancestor {
			return true
		}
	}
	return false
}
