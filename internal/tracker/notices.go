package tracker

import (
	"sync"
	"time"
)

// noticeLifetime is how long an informational banner stays visible.
const noticeLifetime = 6 * time.Second

// NoticeBoard holds the one-line informational message shown under the table
// (mode downgrades, pruned categories, search hints). A new notice replaces
// the previous one; notices expire on read.
type NoticeBoard struct {
	mu    sync.Mutex
	text  string
	setAt time.Time
	now   func() time.Time
}

// NewNoticeBoard creates an empty board.
func NewNoticeBoard() *NoticeBoard {
	return &NoticeBoard{now: time.Now}
}

// Post replaces the current notice. An empty text clears the board.
func (b *NoticeBoard) Post(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.text = text
	b.setAt = b.now()
}

// Current returns the active notice, or "" once it has expired.
func (b *NoticeBoard) Current() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.text == "" {
		return ""
	}
	if b.now().Sub(b.setAt) > noticeLifetime {
		b.text = ""
		return ""
	}
	return b.text
}

// Clear drops the active notice.
func (b *NoticeBoard) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.text = ""
}
