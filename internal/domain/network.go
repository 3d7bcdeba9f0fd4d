package domain

import "strings"

// Network identifies one of the fixed-schema observation archives.
type Network string

const (
	NetworkBOM  Network = "BOM"
	NetworkDES  Network = "DES"
	NetworkOEH  Network = "OEH"
	NetworkEPAV Network = "EPAV"
)

// Networks lists every supported archive.
func Networks() []Network {
	return []Network{NetworkBOM, NetworkDES, NetworkOEH, NetworkEPAV}
}

// ParseNetwork maps a case-insensitive identifier onto a Network.
func ParseNetwork(s string) (Network, error) {
	n := Network(strings.ToUpper(strings.TrimSpace(s)))
	switch n {
	case NetworkBOM, NetworkDES, NetworkOEH, NetworkEPAV:
		return n, nil
	default:
		return "", &ConfigurationError{Option: "data source", Value: s, Valid: "one of BOM, DES, OEH, EPAV"}
	}
}
