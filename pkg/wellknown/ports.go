package wellknown

import (
	"bytes"
	"encoding/csv"
	"io"
	"log"
	"strconv"
	"strings"

	_ "embed"

	"firewalld-traffic-miner/internal/model"
)

//go:embed well_known_ports.csv
var wellKnownPortsData string

// ServiceEntry is one port/protocol pair a well-known service name
// resolves to.
type ServiceEntry struct {
	Protocol model.Protocol
	Port     int
}

var serviceRegistry map[string][]ServiceEntry

func init() {
	serviceRegistry = make(map[string][]ServiceEntry)
	reader := csv.NewReader(bytes.NewBufferString(wellKnownPortsData))
	reader.TrimLeadingSpace = true
	// Skip header
	if _, err := reader.Read(); err != nil {
		log.Fatalf("Failed to read header from embedded well_known_ports.csv: %v", err)
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatalf("Failed to parse embedded well_known_ports.csv: %v", err)
		}
		if len(record) < 3 {
			continue
		}

		port, err := strconv.Atoi(record[0])
		if err != nil {
			continue // Skip if port is not a valid number
		}

		tcpName := strings.TrimSpace(record[1])
		if tcpName != "" && tcpName != "N/A" {
			registerService(tcpName, ServiceEntry{Protocol: model.TCP, Port: port})
		}

		udpName := strings.TrimSpace(record[2])
		if udpName != "" && udpName != "N/A" {
			registerService(udpName, ServiceEntry{Protocol: model.UDP, Port: port})
		}
	}
}

func registerService(name string, entry ServiceEntry) {
	serviceRegistry[strings.ToUpper(name)] = append(serviceRegistry[strings.ToUpper(name)], entry)
	// Add common alias for DNS
	if name == "domain" {
		serviceRegistry["DNS"] = append(serviceRegistry["DNS"], entry)
	}
}

// GetService returns the port/protocol entries for a well-known
// service name.
func GetService(name string) ([]ServiceEntry, bool) {
	entry, ok := serviceRegistry[strings.ToUpper(name)]
	return entry, ok
}
