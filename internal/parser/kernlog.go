package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"firewalld-traffic-miner/internal/model"
)

// ErrNoTraffic is returned when a log source contains no well-formed
// firewall connection entries. Callers should treat it as an empty
// result with a user-facing diagnostic, not as a fatal error.
var ErrNoTraffic = errors.New("no firewall traffic found in log")

// Field keys a line must carry to qualify as a connection entry, plus
// the kernel-origin marker. A line missing any of these is excluded
// entirely, never partially parsed.
var requiredMarkers = []string{"IN=", "SRC=", "DST=", "PROTO=", "DPT="}

const kernelMarker = "kernel"

// Field is one KEY=VALUE pair extracted from a log line.
type Field struct {
	Key   string
	Value string
}

// Row is the ordered field list of one qualifying line.
type Row []Field

// Get returns the value for key, last occurrence winning when the key
// was repeated on the line.
func (r Row) Get(key string) (string, bool) {
	for i := len(r) - 1; i >= 0; i-- {
		if r[i].Key == key {
			return r[i].Value, true
		}
	}
	return "", false
}

func (r Row) keySet() map[string]bool {
	set := make(map[string]bool, len(r))
	for _, f := range r {
		set[f.Key] = true
	}
	return set
}

// KernelLogParser filters kernel log lines down to firewall connection
// entries and turns them into deduplicated ConnectionRecords.
type KernelLogParser struct {
	scanner *bufio.Scanner

	Rows      []Row
	Records   []model.ConnectionRecord
	Malformed int // qualifying lines skipped due to an inconsistent or unusable field set
}

func NewKernelLogParser(reader io.Reader) *KernelLogParser {
	return &KernelLogParser{
		scanner: bufio.NewScanner(reader),
	}
}

// Parse reads the whole log source. It returns ErrNoTraffic when no
// well-formed connection entries were found; scanner failures are
// returned as-is.
func (p *KernelLogParser) Parse() error {
	var schema map[string]bool
	for p.scanner.Scan() {
		line := p.scanner.Text()
		if !Qualifies(line) {
			continue
		}
		row := extractRow(line)
		if len(row) == 0 {
			p.Malformed++
			continue
		}
		// Rows are assumed to share one field set; lines that disagree
		// with the first row are dropped per line rather than failing
		// the whole file.
		if schema == nil {
			schema = row.keySet()
		} else if !sameKeySet(schema, row.keySet()) {
			p.Malformed++
			continue
		}
		p.Rows = append(p.Rows, row)
	}
	if err := p.scanner.Err(); err != nil {
		return fmt.Errorf("error reading log source: %w", err)
	}

	records, malformed := buildRecords(p.Rows)
	p.Records = records
	p.Malformed += malformed

	if len(p.Rows) == 0 {
		return ErrNoTraffic
	}
	return nil
}

// Qualifies reports whether a raw line looks like a kernel-logged
// firewall connection entry: kernel origin plus all required field
// markers present.
func Qualifies(line string) bool {
	if !strings.Contains(line, kernelMarker) {
		return false
	}
	for _, marker := range requiredMarkers {
		if markerIndex(line, marker) == -1 {
			return false
		}
	}
	return true
}

// markerIndex finds marker at a token boundary, so e.g. "MIN=" never
// satisfies "IN=".
func markerIndex(line, marker string) int {
	offset := 0
	for {
		i := strings.Index(line[offset:], marker)
		if i == -1 {
			return -1
		}
		i += offset
		if i == 0 || line[i-1] == ' ' || line[i-1] == '\t' {
			return i
		}
		offset = i + len(marker)
	}
}

// extractRow tokenizes the IN=...EOL portion of a qualifying line.
// Everything before IN= (timestamp, hostname, log prefix) is
// discarded. Only KEY=VALUE tokens are kept, LEN is dropped as a
// positional noise field, and a repeated key keeps its last value.
func extractRow(line string) Row {
	start := markerIndex(line, "IN=")
	if start == -1 {
		return nil
	}

	var row Row
	for _, token := range strings.Fields(line[start:]) {
		eq := strings.Index(token, "=")
		if eq <= 0 {
			continue
		}
		key := token[:eq]
		if key == "LEN" {
			continue
		}
		value := token[eq+1:]
		if i, ok := rowIndex(row, key); ok {
			row[i].Value = value
			continue
		}
		row = append(row, Field{Key: key, Value: value})
	}
	return row
}

func rowIndex(row Row, key string) (int, bool) {
	for i := range row {
		if row[i].Key == key {
			return i, true
		}
	}
	return 0, false
}

// buildRecords projects rows down to the five semantic fields,
// lower-cases the protocol, collapses exact duplicates in first-seen
// order, then drops records with a missing or unspecified source.
// Deduplication runs before the source filter on purpose: rows that
// differ only in an ignored field must still collapse to one.
func buildRecords(rows []Row) ([]model.ConnectionRecord, int) {
	var (
		projected []model.ConnectionRecord
		seen      = make(map[model.ConnectionRecord]bool)
		malformed int
	)
	for _, row := range rows {
		src, _ := row.Get("SRC")
		dst, _ := row.Get("DST")
		proto, _ := row.Get("PROTO")
		iface, _ := row.Get("IN")
		dptRaw, _ := row.Get("DPT")

		dpt, err := strconv.Atoi(dptRaw)
		if err != nil {
			malformed++
			continue
		}

		record := model.ConnectionRecord{
			Interface:       iface,
			Source:          src,
			Destination:     dst,
			Protocol:        strings.ToLower(proto),
			DestinationPort: dpt,
		}
		if seen[record] {
			continue
		}
		seen[record] = true
		projected = append(projected, record)
	}

	var records []model.ConnectionRecord
	for _, record := range projected {
		if record.Source == "" || record.Source == "0.0.0.0" {
			continue
		}
		records = append(records, record)
	}
	return records, malformed
}

func sameKeySet(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for key := range a {
		if !b[key] {
			return false
		}
	}
	return true
}

// ParseFirewallLog is the convenience wrapper used by the CLI: one
// reader in, the deduplicated record sequence out.
func ParseFirewallLog(reader io.Reader) ([]model.ConnectionRecord, error) {
	p := NewKernelLogParser(reader)
	if err := p.Parse(); err != nil {
		return nil, err
	}
	return p.Records, nil
}

// ParseFirewallLogLines parses an already-collected batch of lines,
// as produced by the journal and syslog database sources.
func ParseFirewallLogLines(lines []string) ([]model.ConnectionRecord, error) {
	return ParseFirewallLog(strings.NewReader(strings.Join(lines, "\n")))
}
