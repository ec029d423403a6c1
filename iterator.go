package priority

// Next 返回下一个应当获得服务的流 ID。
//
// 序列是惰性且无限的：每次调用都是对当前树状态的纯函数，树在两次
// 调用之间可以任意变更。没有任何活跃的用户流时返回 Deadlock 类
// 错误；这不是终态，解除某个流的阻塞后即可继续迭代。
//
// 每次调用从根节点沿各级调度队列下行：每层弹出完成时间最小的活跃
// 子流，遇到未阻塞的节点即产出其 ID；节点自身阻塞而子树活跃时继续
// 下行（资源穿过阻塞的父流流向最高优先级的活跃后代）。产出后，
// 下行路径上弹出的每个节点都按其父队列推进后的时钟重新入队，
// 由此在每一层形成加权轮转。
func (t *PriorityTree) Next() (uint32, error) {
	if t.root.sched.empty() {
		return 0, NewError(ErrDeadlock, ErrorTypeDeadlock, 0)
	}

	path := t.path[:0]
	node := t.root
	var next *stream
	for {
		c := node.sched.popNext()
		path = append(path, c)
		if !c.blocked {
			next = c
			break
		}
		// 不变式保证：在父队列中且自身阻塞的节点必有活跃子流。
		node = c
	}

	for i, c := range path {
		c.parent.sched.add(c)
		path[i] = nil // 缓冲不保留对节点的引用，流被移除后节点可回收
	}
	t.path = path[:0]

	return next.id, nil
}
