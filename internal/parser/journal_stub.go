//go:build !linux || !cgo
// +build !linux !cgo

package parser

import (
	"fmt"
	"time"

	"firewalld-traffic-miner/internal/model"
)

// JournalSource stub for non-Linux platforms.
type JournalSource struct {
	MaxAge time.Duration
}

func NewJournalSource(maxAge time.Duration) (*JournalSource, error) {
	return nil, fmt.Errorf("journal mining is only supported on Linux")
}

func (s *JournalSource) Close() error {
	return nil
}

func (s *JournalSource) Lines() ([]string, error) {
	return nil, fmt.Errorf("journal mining is only supported on Linux")
}

func (s *JournalSource) Records() ([]model.ConnectionRecord, error) {
	return nil, fmt.Errorf("journal mining is only supported on Linux")
}
