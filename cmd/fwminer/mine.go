package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"firewalld-traffic-miner/internal/firewalld"
	"firewalld-traffic-miner/internal/model"
	"firewalld-traffic-miner/internal/parser"

	"github.com/spf13/cobra"
)

var (
	mineLogPath  string
	mineProvider string
	mineDB       string
	mineFromHost string
	mineSince    time.Duration
	mineOut      string
	mineApply    bool
	mineCIDR     int
)

func newMineCmd() *cobra.Command {
	mineCmd := &cobra.Command{
		Use:   "mine",
		Short: "Extract connection attempts from a kernel log source",
		Long: `mine filters a kernel log source down to firewall connection entries,
	deduplicates them and prints one connection record per attempt. With
	--apply each record is converted into a rich accept rule.`,
		RunE: runMine,
	}

	mineCmd.Flags().StringVar(&mineLogPath, "log", "", "Kernel log file to mine (default: from config)")
	mineCmd.Flags().StringVar(&mineProvider, "provider", "file", "Log source: 'file', 'journal' or 'mariadb'")
	mineCmd.Flags().StringVar(&mineDB, "db", "", "Database connection string (for 'mariadb' provider)")
	mineCmd.Flags().StringVar(&mineFromHost, "from-host", "", "Restrict mariadb mining to one logging host")
	mineCmd.Flags().DurationVar(&mineSince, "since", 0, "Restrict journal mining to entries newer than this age, e.g. 24h")
	mineCmd.Flags().StringVar(&mineOut, "out", "", "Write records to a CSV file instead of stdout")
	mineCmd.Flags().BoolVar(&mineApply, "apply", false, "Convert each mined record into an accept rule")
	mineCmd.Flags().IntVar(&mineCIDR, "cidr", 32, "CIDR suffix for rules built from mined records")

	return mineCmd
}

func runMine(cmd *cobra.Command, args []string) error {
	records, err := mineRecords()
	if err != nil {
		if errors.Is(err, parser.ErrNoTraffic) {
			// Diagnostic, not a failure: the log simply held nothing
			// to mine.
			fmt.Println("No firewall traffic found in log source.")
			return nil
		}
		slog.Error("Failed to mine log source", "provider", mineProvider, "error", err)
		return err
	}
	slog.Info("Mined connection records", "provider", mineProvider, "count", len(records))

	if mineOut != "" {
		if err := writeRecordsCSV(mineOut, records); err != nil {
			slog.Error("Failed to write CSV output", "path", mineOut, "error", err)
			return err
		}
	} else {
		printRecords(records)
	}

	if !mineApply {
		return nil
	}
	return applyRecords(records)
}

func mineRecords() ([]model.ConnectionRecord, error) {
	switch mineProvider {
	case "file":
		path := mineLogPath
		if path == "" {
			path = cfg.Mining.LogPath
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		return parser.ParseFirewallLog(f)
	case "journal":
		source, err := parser.NewJournalSource(mineSince)
		if err != nil {
			return nil, err
		}
		defer source.Close()
		return source.Records()
	case "mariadb":
		if mineDB == "" {
			return nil, fmt.Errorf("database connection string must be provided for mariadb provider")
		}
		source, err := parser.NewSyslogDBSource(mineDB, mineFromHost)
		if err != nil {
			return nil, err
		}
		defer source.Close()
		return source.Records()
	default:
		return nil, fmt.Errorf("unknown log provider: %s", mineProvider)
	}
}

func printRecords(records []model.ConnectionRecord) {
	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "INTERFACE\tSOURCE\tDESTINATION\tPROTOCOL\tPORT")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", r.Interface, r.Source, r.Destination, r.Protocol, r.DestinationPort)
	}
	w.Flush()
}

func writeRecordsCSV(path string, records []model.ConnectionRecord) error {
	outFile, err := os.Create(path)
	if err != nil {
		return err
	}
	defer outFile.Close()

	writer := csv.NewWriter(outFile)
	defer writer.Flush()

	writer.Write([]string{"interface", "source", "destination", "protocol", "destination_port"})
	for _, r := range records {
		writer.Write([]string{r.Interface, r.Source, r.Destination, r.Protocol, strconv.Itoa(r.DestinationPort)})
	}
	return writer.Error()
}

// applyRecords converts each mined record into an accept rule. Records
// are independent: a failure on one is reported but does not stop the
// rest.
func applyRecords(records []model.ConnectionRecord) error {
	client := firewalld.NewClient(cfg, nil)
	mode, err := resolveMode(client)
	if err != nil {
		slog.Error("Failed to determine firewalld mode", "error", err)
		return err
	}

	var errs []error
	for _, record := range records {
		spec := model.RuleSpec{
			Source:   record.Source,
			CIDR:     mineCIDR,
			Protocol: record.Protocol,
			Port:     record.DestinationPort,
		}
		if err := issueRule(client, mode, spec, model.ActionAdd); err != nil {
			slog.Error("Failed to apply rule for mined record", "source", spec.Source, "port", spec.Port, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
