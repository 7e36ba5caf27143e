package notify

import "sync"

// Entry 一条已记录的提示
type Entry struct {
	Level   Level
	Message string
}

// Recorder 记录所有提示，测试中用来断言输出
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// NewRecorder 创建记录器
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Success(msg string) { r.add(LevelSuccess, msg) }
func (r *Recorder) Warn(msg string)    { r.add(LevelWarn, msg) }
func (r *Recorder) Error(msg string)   { r.add(LevelError, msg) }

func (r *Recorder) add(level Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Message: msg})
}

// Entries 返回已记录提示的拷贝
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Errors 返回所有错误级别的提示内容
func (r *Recorder) Errors() []string {
	return r.messages(LevelError)
}

// Successes 返回所有成功级别的提示内容
func (r *Recorder) Successes() []string {
	return r.messages(LevelSuccess)
}

func (r *Recorder) messages(level Level) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.entries {
		if e.Level == level {
			out = append(out, e.Message)
		}
	}
	return out
}

// Reset 清空记录
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
}
