package wellknown

import (
	"testing"

	"firewalld-traffic-miner/internal/model"
)

func TestGetServiceReturnsDNSAliases(t *testing.T) {
	// This test ensures DNS aliases map to the expected port/protocol entries.
	entries, ok := GetService("dns")
	if !ok {
		t.Fatalf("expected dns to be present in well-known service registry")
	}
	if !containsPort(entries, 53, model.TCP) && !containsPort(entries, 53, model.UDP) {
		t.Fatalf("expected DNS to include port 53 over tcp or udp, got %#v", entries)
	}
}

func TestGetServiceIsCaseInsensitive(t *testing.T) {
	// This test confirms lookups normalize case before hitting the registry.
	lower, ok := GetService("https")
	if !ok {
		t.Fatalf("expected https to be present")
	}
	upper, ok := GetService("HTTPS")
	if !ok {
		t.Fatalf("expected HTTPS to be present")
	}
	if !containsPort(lower, 443, model.TCP) || !containsPort(upper, 443, model.TCP) {
		t.Fatalf("expected https to map to 443/tcp in both cases")
	}
}

func TestGetServiceCoversBothProtocols(t *testing.T) {
	// This test validates a dual-protocol service yields entries for each.
	entries, ok := GetService("nfs")
	if !ok {
		t.Fatalf("expected nfs to be present")
	}
	if !containsPort(entries, 2049, model.TCP) || !containsPort(entries, 2049, model.UDP) {
		t.Fatalf("expected nfs to include 2049 over tcp and udp, got %#v", entries)
	}
}

func TestGetServiceReturnsFalseForUnknown(t *testing.T) {
	// This test validates the registry returns false for unknown services.
	_, ok := GetService("definitely-not-a-service")
	if ok {
		t.Fatalf("expected unknown service to return ok=false")
	}
}

func containsPort(entries []ServiceEntry, port int, protocol model.Protocol) bool {
	// Helper keeps entry inspection readable for multiple service assertions.
	for _, entry := range entries {
		if entry.Port == port && entry.Protocol == protocol {
			return true
		}
	}
	return false
}
