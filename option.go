package priority

// streamOptions 是 InsertStream 和 Reprioritize 的逐流参数。
type streamOptions struct {
	dependsOn uint32
	weight    int
	exclusive bool
}

// StreamOption 用于设置逐流参数的唯一结构体。
type StreamOption struct {
	F func(o *streamOptions)
}

func (o *streamOptions) Apply(opts []StreamOption) {
	for _, opt := range opts {
		opt.F(o)
	}
}

// WithDependsOn 指定所依赖的父流。缺省或指定 0 表示依赖根流。
// 插入时引用已不存在的流不会报错，而是回退为依赖根流
// （RFC 7540 允许依赖处于 idle/closed 状态的流）。
func WithDependsOn(streamID uint32) StreamOption {
	return StreamOption{F: func(o *streamOptions) {
		o.dependsOn = streamID
	}}
}

// WithWeight 指定流在同级兄弟中的相对权重，取值范围 [1,256]。默认 16。
func WithWeight(weight int) StreamOption {
	return StreamOption{F: func(o *streamOptions) {
		o.weight = weight
	}}
}

// WithExclusive 将流设为其父流的独占依赖：挂载前，父流现有的
// 全部子流改挂到该流之下，各自的权重和活跃状态保持不变。
func WithExclusive() StreamOption {
	return StreamOption{F: func(o *streamOptions) {
		o.exclusive = true
	}}
}

func newStreamOptions(opts []StreamOption) *streamOptions {
	o := &streamOptions{
		dependsOn: 0,
		weight:    DefaultWeight,
	}
	o.Apply(opts)
	return o
}
