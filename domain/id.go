package domain

import (
	"math/rand"
	"strconv"
	"sync/atomic"
	"time"
)

const idAlphabet = "abcdefghijklmnopqrstuvwxyz"

var lastMillis int64

// nextMillis returns the current unix millisecond timestamp, never going
// backwards within the process even if the wall clock does.
func nextMillis() int64 {
	for {
		now := time.Now().UnixMilli()
		last := atomic.LoadInt64(&lastMillis)
		if now < last {
			now = last
		}
		if atomic.CompareAndSwapInt64(&lastMillis, last, now) {
			return now
		}
	}
}

// NewTaskID mints a task id: the unix millisecond timestamp followed by
// three random lowercase letters. Two ids minted in the same millisecond
// can collide; the store surfaces that as a constraint violation on insert.
func NewTaskID() string {
	buf := make([]byte, 0, 16)
	buf = strconv.AppendInt(buf, nextMillis(), 10)
	for i := 0; i < 3; i++ {
		buf = append(buf, idAlphabet[rand.Intn(len(idAlphabet))])
	}
	return string(buf)
}
