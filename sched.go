package priority

import "container/heap"

// childScheduler 是单个父节点下活跃子流的加权公平队列。
//
// 子流按虚拟完成时间 clock + 256/weight 排序，完成时间相同时按入队
// 先后排序。本地时钟在每次弹出后推进到被弹出子流的完成时间，因此
// 重新入队的子流总是以推进后的时钟重新定键，权重 w 的子流在长期内
// 获得与 w 成正比的服务份额。
type childScheduler struct {
	clock uint64 // 本地虚拟时钟，等于最近一次弹出的完成时间
	seq   uint64 // 入队序号，用于完成时间相同时保持 FIFO
	h     childHeap
}

// add 将子流按当前时钟定键后入队。
// 重新入队的子流不保留过期的完成时间，总是从当前时钟重新计算。
func (q *childScheduler) add(s *stream) {
	s.virtualFinish = q.clock + 256/uint64(s.weight)
	s.schedSeq = q.seq
	q.seq++
	heap.Push(&q.h, s)
}

// remove 将子流从队列中剔除。子流不在队列中时不做任何事。
func (q *childScheduler) remove(s *stream) {
	if !q.has(s) {
		return
	}
	heap.Remove(&q.h, s.schedIndex)
}

// has 报告子流当前是否在队列中。
func (q *childScheduler) has(s *stream) bool {
	return s.schedIndex >= 0 && s.schedIndex < len(q.h) && q.h[s.schedIndex] == s
}

func (q *childScheduler) empty() bool {
	return len(q.h) == 0
}

func (q *childScheduler) len() int {
	return len(q.h)
}

// popNext 弹出完成时间最小的子流，并将本地时钟推进到其完成时间。
// 不可在空队列上调用。
func (q *childScheduler) popNext() *stream {
	s := heap.Pop(&q.h).(*stream)
	q.clock = s.virtualFinish
	return s
}

// reset 清空队列并将时钟归零。被独占插入收编子流前使用。
func (q *childScheduler) reset() {
	for i, s := range q.h {
		s.schedIndex = -1
		q.h[i] = nil
	}
	q.h = q.h[:0]
	q.clock = 0
	q.seq = 0
}

// childHeap 按 (virtualFinish, schedSeq) 排序的最小堆。
// 堆内位置回写到 stream.schedIndex，使剔除操作保持 O(log k)。
type childHeap []*stream

func (h childHeap) Len() int { return len(h) }

func (h childHeap) Less(i, j int) bool {
	if h[i].virtualFinish != h[j].virtualFinish {
		return h[i].virtualFinish < h[j].virtualFinish
	}
	return h[i].schedSeq < h[j].schedSeq
}

func (h childHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].schedIndex = i
	h[j].schedIndex = j
}

func (h *childHeap) Push(v any) {
	s := v.(*stream)
	s.schedIndex = len(*h)
	*h = append(*h, s)
}

func (h *childHeap) Pop() any {
	old := *h
	n := len(old)
	s := old[n-1]
	old[n-1] = nil
	s.schedIndex = -1
	*h = old[:n-1]
	return s
}
