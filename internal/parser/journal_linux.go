//go:build linux && cgo
// +build linux,cgo

package parser

import (
	"fmt"
	"strings"
	"time"

	"firewalld-traffic-miner/internal/model"

	"github.com/coreos/go-systemd/v22/sdjournal"
)

// JournalSource mines kernel log lines from the systemd journal so
// hosts without a kern.log file can still be inspected.
type JournalSource struct {
	journal *sdjournal.Journal

	// MaxAge limits mining to entries newer than now-MaxAge. Zero
	// means the whole journal.
	MaxAge time.Duration
}

func NewJournalSource(maxAge time.Duration) (*JournalSource, error) {
	journal, err := sdjournal.NewJournal()
	if err != nil {
		return nil, fmt.Errorf("failed to open systemd journal: %w", err)
	}
	if err := journal.AddMatch("_TRANSPORT=kernel"); err != nil {
		journal.Close()
		return nil, fmt.Errorf("failed to add kernel filter: %w", err)
	}
	return &JournalSource{journal: journal, MaxAge: maxAge}, nil
}

func (s *JournalSource) Close() error {
	return s.journal.Close()
}

// Lines reads the matching journal entries in order. The "kernel: "
// tag journald strips from MESSAGE is stitched back so the lines look
// like their syslog-file counterparts and qualify the same way.
func (s *JournalSource) Lines() ([]string, error) {
	if s.MaxAge > 0 {
		since := uint64(time.Now().Add(-s.MaxAge).UnixMicro())
		if err := s.journal.SeekRealtimeUsec(since); err != nil {
			return nil, fmt.Errorf("failed to seek journal: %w", err)
		}
	} else if err := s.journal.SeekHead(); err != nil {
		return nil, fmt.Errorf("failed to seek journal: %w", err)
	}

	var lines []string
	for {
		n, err := s.journal.Next()
		if err != nil {
			return nil, fmt.Errorf("failed to read journal entry: %w", err)
		}
		if n == 0 {
			break
		}
		msg, err := s.journal.GetData("MESSAGE")
		if err != nil {
			continue
		}
		msg = strings.TrimPrefix(msg, "MESSAGE=")
		lines = append(lines, "kernel: "+msg)
	}
	return lines, nil
}

// Records runs the collected journal lines through the kernel log
// parser.
func (s *JournalSource) Records() ([]model.ConnectionRecord, error) {
	lines, err := s.Lines()
	if err != nil {
		return nil, err
	}
	return ParseFirewallLogLines(lines)
}
