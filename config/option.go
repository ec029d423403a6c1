package config

// DefaultMaximumStreams 是优先级树默认可容纳的用户流数量上限。
//
// 该上限是针对恶意对端的安全阈值（参见 CVE-2016-6580：不设上限的
// 优先级树会被对端无限撑大）。建议调用方按需调低。
const DefaultMaximumStreams = 1000

// Config 是优先级树的构造配置。
type Config struct {
	// MaximumStreams 指定树中可同时存在的用户流数量的硬上限。
	// 达到上限后继续插入将失败。必须为正整数。
	MaximumStreams int
}

// Option 用于设置优先级树 Config 的唯一结构体。
type Option struct {
	F func(o *Config)
}

func (o *Config) Apply(opts []Option) {
	for _, opt := range opts {
		opt.F(o)
	}
}

// WithMaximumStreams 设置树中用户流数量的硬上限。默认 DefaultMaximumStreams。
func WithMaximumStreams(n int) Option {
	return Option{F: func(o *Config) {
		o.MaximumStreams = n
	}}
}

func NewConfig(opts ...Option) *Config {
	c := &Config{
		MaximumStreams: DefaultMaximumStreams,
	}
	c.Apply(opts)
	return c
}
