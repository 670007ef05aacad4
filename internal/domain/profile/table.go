package profile

// defaultTable is the position weight configuration. Rows sum to about 1.0;
// the engine renormalizes by the total active weight so exact sums are not
// required.
var defaultTable = map[string]map[string]float64{ //nolint:gochecknoglobals // configuration table
	DefaultKey: {
		"war": 0.30, "wrc_plus": 0.20, "ops": 0.15, "hr": 0.10, "def": 0.15, "bsr": 0.10,
	},
	"C": {
		"war": 0.30, "wrc_plus": 0.15, "ops": 0.10, "hr": 0.05, "def": 0.35, "bsr": 0.05,
	},
	"1B": {
		"war": 0.25, "wrc_plus": 0.25, "ops": 0.15, "hr": 0.15, "barrel_pct": 0.10, "def": 0.05, "k_pct": 0.05,
	},
	"2B": {
		"war": 0.30, "wrc_plus": 0.20, "ops": 0.10, "avg": 0.05, "def": 0.25, "bsr": 0.10,
	},
	"3B": {
		"war": 0.30, "wrc_plus": 0.20, "ops": 0.10, "hr": 0.10, "def": 0.20, "bsr": 0.05, "k_pct": 0.05,
	},
	"SS": {
		"war": 0.30, "wrc_plus": 0.15, "ops": 0.10, "avg": 0.05, "def": 0.30, "bsr": 0.10,
	},
	"LF": {
		"war": 0.25, "wrc_plus": 0.25, "ops": 0.15, "hr": 0.10, "barrel_pct": 0.05, "def": 0.10, "bsr": 0.10,
	},
	"CF": {
		"war": 0.30, "wrc_plus": 0.15, "ops": 0.10, "hr": 0.05, "def": 0.25, "bsr": 0.15,
	},
	"RF": {
		"war": 0.25, "wrc_plus": 0.25, "ops": 0.15, "hr": 0.10, "exit_velo": 0.05, "def": 0.10, "bsr": 0.10,
	},
	"OF": {
		"war": 0.25, "wrc_plus": 0.20, "ops": 0.15, "hr": 0.10, "def": 0.15, "bsr": 0.15,
	},
	"DH": {
		"war": 0.25, "wrc_plus": 0.30, "ops": 0.20, "hr": 0.10, "barrel_pct": 0.05, "exit_velo": 0.05, "k_pct": 0.05,
	},
	"SP": {
		"war": 0.25, "era": 0.15, "fip": 0.20, "whip": 0.10, "k_9": 0.10, "bb_9": 0.05, "ip": 0.15,
	},
	"RP": {
		"war": 0.15, "era": 0.20, "fip": 0.20, "whip": 0.15, "k_9": 0.15, "bb_9": 0.10, "velo": 0.05,
	},
}
