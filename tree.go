package priority

import (
	"github.com/favbox/priority/common/plog"
	"github.com/favbox/priority/config"
)

// 权重的取值边界。HTTP/2 的权重字段取值 0~255，语义上映射为 1~256。
const (
	MinWeight = 1
	MaxWeight = 256

	// DefaultWeight 是未显式指定权重时的默认值，与 RFC 7540 §5.3.5 一致。
	DefaultWeight = 16
)

// PriorityTree 是 RFC 7540 §5.3 定义的流优先级树。
//
// 树维护一片以 0 号伪流为根的依赖森林，并在每个节点上以加权公平
// 队列调度其活跃子流。调用方通过变更操作维护树形，通过 Next 逐个
// 取出下一个应获得服务的流 ID。
//
// 树不是并发安全的：所有操作须由同一调用方串行发起，跨协程共享时
// 由调用方自行同步。
type PriorityTree struct {
	root    *stream
	streams map[uint32]*stream

	streamCount    int // 用户流数量，不含根
	maximumStreams int

	path []*stream // Next 的下行路径缓冲，跨调用复用
}

// NewTree 创建一棵空的优先级树。
// 配置的流数量上限不是正整数时返回 BadTreeConfig 类错误。
func NewTree(opts ...config.Option) (*PriorityTree, error) {
	cfg := config.NewConfig(opts...)
	if cfg.MaximumStreams <= 0 {
		return nil, NewError(ErrBadTreeConfig, ErrorTypeBadTreeConfig, 0)
	}

	// 根节点永久阻塞，其活跃性完全由子树决定，也因此从不被产出。
	root := newStream(0, MinWeight)
	return &PriorityTree{
		root:           root,
		streams:        map[uint32]*stream{0: root},
		maximumStreams: cfg.MaximumStreams,
	}, nil
}

// StreamCount 返回树中当前的用户流数量。
func (t *PriorityTree) StreamCount() int {
	return t.streamCount
}

// InsertStream 将一个新流插入树中。
//
// 新流默认处于阻塞状态：权重与依赖可以先于流控就绪而声明，
// 调用方在流可以发送数据时再调用 Unblock。因此插入本身不会
// 改变任何节点的活跃状态（独占插入收编了活跃子流时除外）。
func (t *PriorityTree) InsertStream(streamID uint32, opts ...StreamOption) error {
	o := newStreamOptions(opts)

	// 校验先于一切变更，失败的操作不留下任何痕迹。
	if _, ok := t.streams[streamID]; ok {
		return NewError(ErrDuplicateStream, ErrorTypeDuplicateStream, streamID)
	}
	if o.dependsOn == streamID {
		return NewError(ErrPriorityLoop, ErrorTypePriorityLoop, streamID)
	}
	if o.weight < MinWeight || o.weight > MaxWeight {
		return NewError(ErrBadWeight, ErrorTypeBadWeight, streamID)
	}
	if t.streamCount >= t.maximumStreams {
		return NewError(ErrTooManyStreams, ErrorTypeTooManyStreams, streamID)
	}

	parent, ok := t.streams[o.dependsOn]
	if !ok {
		// RFC 7540 允许依赖处于 idle/closed 状态的流，此时视为依赖根流。
		plog.SystemLogger().Warnf("流 %d 依赖的流 %d 不存在，已回退为依赖根流", streamID, o.dependsOn)
		parent = t.root
	}

	s := newStream(streamID, o.weight)
	if o.exclusive {
		t.adoptChildren(s, parent)
	}
	t.attachChild(parent, s)

	t.streams[streamID] = s
	t.streamCount++
	return nil
}

// Reprioritize 调整一个已存在流的依赖与权重。
//
// 与插入不同，这里不适用宽容回退：流本身与所依赖的流都必须存在。
// 若新的父流位于该流自己的子树中，按 RFC 7540 §5.3.3 拆解环路：
// 先将该流的全部子流按原顺序接到其当前位置，再把它移到新父流之下。
func (t *PriorityTree) Reprioritize(streamID uint32, opts ...StreamOption) error {
	o := newStreamOptions(opts)

	s, perr := t.userStream(streamID)
	if perr != nil {
		return perr
	}
	if o.dependsOn == streamID {
		return NewError(ErrPriorityLoop, ErrorTypePriorityLoop, streamID)
	}
	if o.weight < MinWeight || o.weight > MaxWeight {
		return NewError(ErrBadWeight, ErrorTypeBadWeight, streamID)
	}
	newParent, ok := t.streams[o.dependsOn]
	if !ok {
		return NewError(ErrMissingStream, ErrorTypeMissingStream, o.dependsOn)
	}

	if newParent.isDescendantOf(s) {
		t.spliceChildren(s)
	}

	oldParent := s.parent
	oldParent.removeChild(s)
	t.propagateActive(oldParent)

	s.weight = o.weight
	if o.exclusive {
		t.adoptChildren(s, newParent)
	}
	t.attachChild(newParent, s)
	return nil
}

// RemoveStream 将一个流从树中移除并彻底释放。
//
// 被移除流的子流依序顶替它在兄弟序列中的位置，权重保持不变。
// 该操作不是幂等的：对同一流的第二次移除返回 MissingStream 类错误。
func (t *PriorityTree) RemoveStream(streamID uint32) error {
	s, perr := t.userStream(streamID)
	if perr != nil {
		return perr
	}

	parent := s.parent
	pos := parent.childIndex(s)
	parent.sched.remove(s)

	children := s.children
	siblings := make([]*stream, 0, len(parent.children)-1+len(children))
	siblings = append(siblings, parent.children[:pos]...)
	siblings = append(siblings, children...)
	siblings = append(siblings, parent.children[pos+1:]...)
	parent.children = siblings

	for _, c := range children {
		c.parent = parent
		if s.sched.has(c) {
			s.sched.remove(c)
			parent.sched.add(c)
		}
	}

	// 断开全部引用，节点可被回收。上限与彻底释放共同构成内存边界。
	s.parent = nil
	s.children = nil

	delete(t.streams, streamID)
	t.streamCount--
	t.propagateActive(parent)
	return nil
}

// Block 将流标记为阻塞（当前没有数据可发送）。幂等。
func (t *PriorityTree) Block(streamID uint32) error {
	s, perr := t.userStream(streamID)
	if perr != nil {
		return perr
	}
	if s.blocked {
		return nil
	}
	s.blocked = true
	t.propagateActive(s)
	return nil
}

// Unblock 解除流的阻塞标记（有数据可发送）。幂等：
// 重复调用不会触碰调度键，无法借此改变流在队列中的位置。
func (t *PriorityTree) Unblock(streamID uint32) error {
	s, perr := t.userStream(streamID)
	if perr != nil {
		return perr
	}
	if !s.blocked {
		return nil
	}
	s.blocked = false
	t.propagateActive(s)
	return nil
}

// userStream 查找一个允许被公开操作的流。0 号伪流不可操作。
func (t *PriorityTree) userStream(streamID uint32) (*stream, *Error) {
	if streamID == 0 {
		return nil, NewError(ErrPseudoStream, ErrorTypePseudoStream, 0)
	}
	s, ok := t.streams[streamID]
	if !ok {
		return nil, NewError(ErrMissingStream, ErrorTypeMissingStream, streamID)
	}
	return s, nil
}

// attachChild 将 s 挂到 parent 之下；s 活跃时注册进 parent 的调度队列，
// 并向上传播由此引起的活跃性变化。
func (t *PriorityTree) attachChild(parent, s *stream) {
	s.parent = parent
	parent.children = append(parent.children, s)
	if s.active {
		parent.sched.add(s)
		t.propagateActive(parent)
	}
}

// adoptChildren 独占依赖的收编：parent 现有的全部子流改挂到 s 之下，
// 各自的权重与活跃状态保持不变，活跃子流按原有顺序在 s 的调度队列
// 上重新定键。收编活跃子流可能使阻塞中的 s 变为活跃。
func (t *PriorityTree) adoptChildren(s, parent *stream) {
	adopted := parent.children
	parent.children = nil
	parent.sched.reset()

	for _, c := range adopted {
		c.parent = s
		s.children = append(s.children, c)
		if c.active {
			s.sched.add(c)
		}
	}
	s.active = s.recomputeActive()
}

// spliceChildren 将 s 的全部子流按原顺序接到 s 的父节点中 s 所在的
// 位置上。用于 Reprioritize 的环路拆解。
func (t *PriorityTree) spliceChildren(s *stream) {
	parent := s.parent
	pos := parent.childIndex(s)

	children := s.children
	s.children = nil

	siblings := make([]*stream, 0, len(parent.children)+len(children))
	siblings = append(siblings, parent.children[:pos]...)
	siblings = append(siblings, children...)
	siblings = append(siblings, parent.children[pos:]...)
	parent.children = siblings

	for _, c := range children {
		c.parent = parent
		if s.sched.has(c) {
			s.sched.remove(c)
			parent.sched.add(c)
		}
	}

	// s 失去了全部子流，可能因此失活。
	t.propagateActive(s)
}

// propagateActive 自 s 起向上重算活跃性。每一层的活跃状态发生翻转时，
// 同步该节点在父调度队列中的成员资格（加入时按父时钟重新定键），
// 直到某一层不再变化为止。增量维护使迭代的代价保持 O(深度)。
func (t *PriorityTree) propagateActive(s *stream) {
	for s != nil {
		now := s.recomputeActive()
		if now == s.active {
			return
		}
		s.active = now

		p := s.parent
		if p == nil {
			return
		}
		if now {
			p.sched.add(s)
		} else {
			p.sched.remove(s)
		}
		s = p
	}
}
