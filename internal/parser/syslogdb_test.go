package parser

import (
	"database/sql"
	"fmt"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

var testDB *sql.DB
var dsn = "root:miner@tcp(127.0.0.1:3306)/syslog"

func TestMain(m *testing.M) {
	var err error
	testDB, err = sql.Open("mysql", dsn)
	if err != nil {
		fmt.Printf("failed to connect to MariaDB: %v\n", err)
		os.Exit(0) // Skip tests if DB is not available
	}

	if err := testDB.Ping(); err != nil {
		fmt.Printf("MariaDB not reachable: %v\n", err)
		os.Exit(0) // Skip tests if DB is not reachable
	}

	setupSchema()
	code := m.Run()
	os.Exit(code)
}

func setupSchema() {
	testDB.Exec("DROP TABLE IF EXISTS SystemEvents")
	testDB.Exec(`CREATE TABLE SystemEvents (
		ID BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
		ReceivedAt DATETIME NULL,
		FromHost VARCHAR(60) NULL,
		Message TEXT NULL,
		SysLogTag VARCHAR(60) NULL
	)`)

	insert := "INSERT INTO SystemEvents (FromHost, Message, SysLogTag) VALUES (?, ?, ?)"
	testDB.Exec(insert, "fw1", " IN=eth0 OUT= SRC=10.0.0.5 DST=10.0.0.1 LEN=60 PROTO=TCP SPT=51000 DPT=443", "kernel:")
	testDB.Exec(insert, "fw1", " IN=eth0 OUT= SRC=0.0.0.0 DST=10.0.0.1 LEN=60 PROTO=UDP SPT=68 DPT=67", "kernel:")
	testDB.Exec(insert, "fw2", " IN=eth1 OUT= SRC=172.16.0.4 DST=172.16.0.1 LEN=44 PROTO=UDP SPT=137 DPT=137", "kernel:")
	testDB.Exec(insert, "fw1", "Accepted publickey for admin", "sshd[100]:")
}

func TestSyslogDBSourceMinesKernelLines(t *testing.T) {
	source, err := NewSyslogDBSource(dsn, "")
	if err != nil {
		t.Fatalf("failed to open syslog DB source: %v", err)
	}
	defer source.Close()

	lines, err := source.Lines()
	if err != nil {
		t.Fatalf("expected lines query to succeed, got %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 kernel-tagged lines, got %d", len(lines))
	}
}

func TestSyslogDBSourceFiltersByHost(t *testing.T) {
	source, err := NewSyslogDBSource(dsn, "fw2")
	if err != nil {
		t.Fatalf("failed to open syslog DB source: %v", err)
	}
	defer source.Close()

	records, err := source.Records()
	if err != nil {
		t.Fatalf("expected records to parse, got %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record for fw2, got %d", len(records))
	}
	if records[0].Source != "172.16.0.4" {
		t.Errorf("expected source 172.16.0.4, got %s", records[0].Source)
	}
}

func TestSyslogDBSourceRecordsDropUnspecifiedSource(t *testing.T) {
	source, err := NewSyslogDBSource(dsn, "fw1")
	if err != nil {
		t.Fatalf("failed to open syslog DB source: %v", err)
	}
	defer source.Close()

	records, err := source.Records()
	if err != nil {
		t.Fatalf("expected records to parse, got %v", err)
	}
	for _, record := range records {
		if record.Source == "0.0.0.0" {
			t.Fatalf("expected unspecified source to be filtered, got %#v", record)
		}
	}
}

func TestNewSyslogDBSourceFailsOnBadDSN(t *testing.T) {
	if _, err := NewSyslogDBSource("root:wrong@tcp(127.0.0.1:1)/missing", ""); err == nil {
		t.Fatal("expected connection error for unreachable database")
	}
}
