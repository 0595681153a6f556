package common

import (
	"bytes"
	"sync"
)

// LineTail is an io.Writer which keeps the last lines written to it. Lines
// longer than the configured maximum are truncated.
type LineTail struct {
	// OnLine is called for every completed line.
	OnLine func(line []byte)

	maxLines      int
	maxLineLength int

	current []byte
	lines   [][]byte
	offset  int

	mutex sync.Mutex
}

func NewLineTail(maxLines, maxLineLength int) *LineTail {
	return &LineTail{
		maxLines:      maxLines,
		maxLineLength: maxLineLength,
		lines:         make([][]byte, 0, maxLines),
	}
}

func (this *LineTail) Write(p []byte) (n int, err error) {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	n = len(p)
	for len(p) > 0 {
		i := bytes.IndexByte(p, '\n')
		if i < 0 {
			this.appendCurrent(p)
			break
		}
		this.appendCurrent(p[:i])
		this.completeLine()
		p = p[i+1:]
	}
	return n, nil
}

// Flush completes a pending line which was not yet terminated by a newline.
func (this *LineTail) Flush() {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	if len(this.current) > 0 {
		this.completeLine()
	}
}

func (this *LineTail) appendCurrent(p []byte) {
	if rest := this.maxLineLength - len(this.current); rest < len(p) {
		p = p[:max(rest, 0)]
	}
	this.current = append(this.current, p...)
}

func (this *LineTail) completeLine() {
	line := bytes.TrimRight(this.current, "\r")
	this.current = nil
	if len(line) == 0 {
		return
	}
	if v := this.OnLine; v != nil {
		v(line)
	}
	if this.maxLines <= 0 {
		return
	}
	if len(this.lines) < this.maxLines {
		this.lines = append(this.lines, line)
		return
	}
	this.lines[this.offset] = line
	this.offset = (this.offset + 1) % this.maxLines
}

// Lines returns the kept lines, oldest first.
func (this *LineTail) Lines() []string {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	result := make([]string, 0, len(this.lines))
	for i := range this.lines {
		result = append(result, string(this.lines[(this.offset+i)%len(this.lines)]))
	}
	return result
}
