package parser

import (
	"database/sql"
	"fmt"

	"firewalld-traffic-miner/internal/model"

	_ "github.com/go-sql-driver/mysql"
)

// SyslogDBSource mines kernel log lines out of an rsyslog ommysql
// database (the stock SystemEvents table) instead of a flat file.
// The rows it returns go through the exact same qualification and
// extraction as file-based lines.
type SyslogDBSource struct {
	db *sql.DB

	// FromHost filters rows to one logging host when set.
	FromHost string
}

func NewSyslogDBSource(dsn, fromHost string) (*SyslogDBSource, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return &SyslogDBSource{db: db, FromHost: fromHost}, nil
}

func (s *SyslogDBSource) Close() {
	s.db.Close()
}

// Lines returns the stored kernel messages in insertion order. The
// SysLogTag filter keeps the result close to what a kern.log file
// would contain; full qualification still happens in the parser.
func (s *SyslogDBSource) Lines() ([]string, error) {
	query := "SELECT SysLogTag, Message FROM SystemEvents WHERE SysLogTag LIKE 'kernel%'"
	args := []any{}
	if s.FromHost != "" {
		query += " AND FromHost = ?"
		args = append(args, s.FromHost)
	}
	query += " ORDER BY ID ASC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query syslog table: %w", err)
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var tag, message string
		if err := rows.Scan(&tag, &message); err != nil {
			return nil, err
		}
		// ommysql strips the syslog tag from Message; stitch it back
		// so the kernel-origin qualification keeps working.
		lines = append(lines, tag+" "+message)
	}
	return lines, rows.Err()
}

// Records runs the mined lines through the kernel log parser.
func (s *SyslogDBSource) Records() ([]model.ConnectionRecord, error) {
	lines, err := s.Lines()
	if err != nil {
		return nil, err
	}
	return ParseFirewallLogLines(lines)
}
