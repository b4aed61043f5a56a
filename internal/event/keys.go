package event

// Scan codes (PC set 1) that applications match on. Key events carry set 1
// codes whatever the host keyboard reports.
const (
	ScanEscape    uint8 = 0x01
	ScanBackspace uint8 = 0x0e
	ScanTab       uint8 = 0x0f
	ScanEnter     uint8 = 0x1c
	ScanSpace     uint8 = 0x39
	ScanUp        uint8 = 0x48
	ScanLeft      uint8 = 0x4b
	ScanRight     uint8 = 0x4d
	ScanDown      uint8 = 0x50
)
