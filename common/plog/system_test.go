package plog

import (
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

type byteSliceWriter struct {
	b []byte
}

func (w *byteSliceWriter) Write(p []byte) (int, error) {
	w.b = append(w.b, p...)
	return len(p), nil
}

func initTestSysLogger() {
	sysLogger = &systemLogger{
		logger: &defaultLogger{
			std:   log.New(os.Stderr, "", 0),
			depth: 4,
		},
		prefix: systemLogPrefix,
	}
}

func TestSystemLogger(t *testing.T) {
	initTestSysLogger()
	var w byteSliceWriter
	SetOutput(&w)

	sysLogger.Trace("跟踪调度")
	sysLogger.Debug("收到依赖变更")
	sysLogger.Info("开始调度")
	sysLogger.Notice("调度中出现一些状况")
	sysLogger.Warn("依赖回退")
	sysLogger.Error("调度失败")

	assert.Equal(t, "[Trace] PRIORITY: 跟踪调度\n"+
		"[Debug] PRIORITY: 收到依赖变更\n"+
		"[Info] PRIORITY: 开始调度\n"+
		"[Notice] PRIORITY: 调度中出现一些状况\n"+
		"[Warn] PRIORITY: 依赖回退\n"+
		"[Error] PRIORITY: 调度失败\n", string(w.b))
}

func TestSystemFormatLogger(t *testing.T) {
	initTestSysLogger()

	var w byteSliceWriter
	SetOutput(&w)

	item := "调度"
	sysLogger.Tracef("跟踪%s", item)
	sysLogger.Debugf("收到%s变更", item)
	sysLogger.Infof("开始%s", item)
	sysLogger.Noticef("%s中出现一些状况", item)
	sysLogger.Warnf("%s回退", item)
	sysLogger.Errorf("%s失败", item)

	assert.Equal(t, "[Trace] PRIORITY: 跟踪调度\n"+
		"[Debug] PRIORITY: 收到调度变更\n"+
		"[Info] PRIORITY: 开始调度\n"+
		"[Notice] PRIORITY: 调度中出现一些状况\n"+
		"[Warn] PRIORITY: 调度回退\n"+
		"[Error] PRIORITY: 调度失败\n", string(w.b))
}

// 静默模式下不输出系统警告。
func TestSilentMode(t *testing.T) {
	initTestSysLogger()

	var w byteSliceWriter
	SetOutput(&w)

	SetSilentMode(true)
	defer SetSilentMode(false)

	sysLogger.Warnf("依赖回退")
	assert.Equal(t, "", string(w.b))
}
