// Package resolve contains the reconciliation engine: the resolvers that map
// discovery-side names (vendors, models, modules, bays, interfaces, cable
// endpoints) onto registry records. Resolvers are pure transformations over
// lookup tables built once per run; they never perform network I/O.
package resolve

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/netgrid-labs/invsync/pkg/util"
)

// Category is a module classification bucket.
type Category string

const (
	CategorySFP        Category = "sfp"
	CategoryDisk       Category = "disk"
	CategoryFan        Category = "fan"
	CategoryNetwork    Category = "network"
	CategoryPower      Category = "power"
	CategorySupervisor Category = "supervisor"
	CategoryOther      Category = "other"
)

// bayFuzzyCutoffs are the per-category thresholds for the fuzzy bay-matching
// stage. Categories not listed use the configured module sensitivity.
var bayFuzzyCutoffs = map[Category]float64{
	CategorySFP:        0.90,
	CategoryPower:      0.80,
	CategoryFan:        0.80,
	CategorySupervisor: 0.85,
	CategoryNetwork:    0.80,
}

// BayCutoff returns the fuzzy bay-matching threshold for a category.
func BayCutoff(cat Category, defaultSensitivity float64) float64 {
	if c, ok := bayFuzzyCutoffs[cat]; ok {
		return c
	}
	return defaultSensitivity
}

// Transform is one regex replace rule applied to raw module names before
// candidate generation.
type Transform struct {
	Regex   string `yaml:"regex"`
	Replace string `yaml:"replace"`
}

// CategoryRule defines one classification category. Categories are an
// ordered list; classification precedence follows file order.
type CategoryRule struct {
	Name        string   `yaml:"name"`
	IPFPatterns []string `yaml:"ipf_patterns"`
	Keywords    []string `yaml:"keywords"`
	Synonyms    []string `yaml:"synonyms"`
}

// RulesFile is the on-disk shape of the module mapping rules.
type RulesFile struct {
	Globals struct {
		PrefixMap  map[string]string `yaml:"prefix_map"`
		Transforms []Transform       `yaml:"transforms"`
		PIDAliases map[string]string `yaml:"pid_aliases"`
		DscrToPID  map[string]string `yaml:"dscr_to_pid"`
	} `yaml:"globals"`
	Categories []CategoryRule `yaml:"categories"`
}

type compiledCategory struct {
	name     Category
	patterns []*regexp.Regexp
	keywords []string
	synonyms []string
}

// Rules is the compiled module mapping ruleset.
type Rules struct {
	prefixMap  map[string]string
	transforms []compiledTransform
	pidAliases map[string]string
	dscrToPID  map[string]string
	categories []compiledCategory
}

type compiledTransform struct {
	re      *regexp.Regexp
	replace string
}

// LoadRules reads and compiles a rules file. A missing file falls back to
// the built-in defaults.
func LoadRules(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			util.Debugf("Module rules file %s not found, using built-in defaults", path)
			return DefaultRules(), nil
		}
		return nil, fmt.Errorf("reading module rules: %w", err)
	}

	var rf RulesFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing module rules: %w", err)
	}
	return CompileRules(&rf)
}

// CompileRules validates a rules file and compiles its patterns.
func CompileRules(rf *RulesFile) (*Rules, error) {
	r := &Rules{
		prefixMap:  rf.Globals.PrefixMap,
		pidAliases: lowerKeys(rf.Globals.PIDAliases),
		dscrToPID:  rf.Globals.DscrToPID,
	}
	if r.prefixMap == nil {
		r.prefixMap = map[string]string{}
	}

	for _, t := range rf.Globals.Transforms {
		re, err := regexp.Compile("(?i)" + t.Regex)
		if err != nil {
			return nil, fmt.Errorf("%w: transform %q: %v", util.ErrInvalidConfig, t.Regex, err)
		}
		r.transforms = append(r.transforms, compiledTransform{re: re, replace: t.Replace})
	}

	for _, c := range rf.Categories {
		cc := compiledCategory{name: Category(c.Name), synonyms: c.Synonyms}
		for _, p := range c.IPFPatterns {
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				return nil, fmt.Errorf("%w: category %s pattern %q: %v", util.ErrInvalidConfig, c.Name, p, err)
			}
			cc.patterns = append(cc.patterns, re)
		}
		for _, k := range c.Keywords {
			cc.keywords = append(cc.keywords, strings.ToLower(k))
		}
		r.categories = append(r.categories, cc)
	}
	return r, nil
}

func lowerKeys(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[strings.ToLower(k)] = v
	}
	return out
}

// Categories returns the category names in precedence order, with "other"
// appended as the implicit fallback bucket.
func (r *Rules) Categories() []Category {
	out := make([]Category, 0, len(r.categories)+1)
	for _, c := range r.categories {
		out = append(out, c.name)
	}
	return append(out, CategoryOther)
}

func (r *Rules) category(name Category) *compiledCategory {
	for i := range r.categories {
		if r.categories[i].name == name {
			return &r.categories[i]
		}
	}
	return nil
}

// DefaultRules returns the built-in ruleset, mirroring the shipped mapping
// file. Kept in sync with configs/ModuleClassificationRules.yaml.
func DefaultRules() *Rules {
	rf := &RulesFile{}
	rf.Globals.PrefixMap = map[string]string{
		"Te":  "TenGigabitEthernet",
		"Gi":  "GigabitEthernet",
		"Twe": "TwentyFiveGigE",
		"Fo":  "FortyGigabitEthernet",
		"Hu":  "HundredGigE",
		"Eth": "Ethernet",
	}
	rf.Globals.Transforms = []Transform{
		{Regex: `^Transceiver\s+`, Replace: ""},
		{Regex: `\s+Container$`, Replace: ""},
		{Regex: `\s+Module$`, Replace: ""},
	}
	rf.Globals.DscrToPID = map[string]string{
		"1000BaseSX SFP":  "GLC-SX-MMD",
		"1000BaseLX SFP":  "GLC-LH-SMD",
		"10/100/1000BaseTX SFP": "GLC-TE",
	}
	rf.Categories = []CategoryRule{
		{
			Name: "sfp",
			IPFPatterns: []string{
				`^(?P<pfx>[A-Za-z]+)(?P<path>\d+(?:/\d+)+)$`,
				`^Transceiver\s+(?P<path>\d+(?:/\d+)+)`,
			},
			Keywords: []string{"sfp", "transceiver", "xcvr", "qsfp", "gbic"},
			Synonyms: []string{"{CANON_PREFIX}{PATH}"},
		},
		{
			Name:        "supervisor",
			IPFPatterns: []string{`^Supervisor\s*(?P<slot>\d+)?`},
			Keywords:    []string{"supervisor", "sup-"},
			Synonyms:    []string{"Supervisor {SLOT}", "Slot {SLOT}"},
		},
		{
			Name:        "power",
			IPFPatterns: []string{`^(?:Power Supply|PS|PSU)\s*-?\s*(?P<pos>\d+|[A-Za-z])$`},
			Keywords:    []string{"power supply", "power-supply", "psu", "pwr-", "ac input", "dc input"},
			Synonyms:    []string{"PSU{POS}", "PS-{POS}", "Power Supply {POS}", "PSU {POS}"},
		},
		{
			Name:        "fan",
			IPFPatterns: []string{`^Fan\s*(?:Tray)?\s*-?\s*(?P<pos>\d+)`},
			Keywords:    []string{"fan"},
			Synonyms:    []string{"Fan {POS}", "Fan Tray {POS}", "FAN{POS}"},
		},
		{
			Name:        "disk",
			Keywords:    []string{"disk", "ssd", "flash", "usb"},
		},
		{
			Name:        "network",
			IPFPatterns: []string{`^(?:module|linecard|slot)\s*-?\s*(?P<slot>\d+)$`},
			Keywords:    []string{"module", "linecard", "line card", "uplink", "nim-", "network"},
			Synonyms:    []string{"Slot {SLOT}", "Module {SLOT}", "Linecard {SLOT}"},
		},
	}
	r, err := CompileRules(rf)
	if err != nil {
		// Defaults are compiled from literals; a failure here is a programming error.
		panic(err)
	}
	return r
}
