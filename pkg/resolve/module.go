package resolve

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/netgrid-labs/invsync/pkg/util"
)

// Module is one raw hardware component row from the discovery inventory.
type Module struct {
	Hostname string
	Name     string
	Dscr     string
	PID      string
	SN       string
	DeviceSN string
	Model    string

	Category Category
	// VCMemberName is "{hostname}/{N}" when the module belongs to a stack
	// member other than the master, empty otherwise.
	VCMemberName string
}

// FilterModules drops rows that are not real installable modules: chassis
// entries misreported as modules (serial equals the device serial), self
// referential noise (pid equals the description or the device model), and
// fabric-extender or stack-cable artifacts.
func FilterModules(mods []Module) []Module {
	out := make([]Module, 0, len(mods))
	for _, m := range mods {
		switch {
		case m.SN == m.DeviceSN:
		case m.PID == m.Dscr:
		case m.PID == m.Model:
		case strings.Contains(m.Dscr, "Fabric Extender Module"):
		case strings.Contains(strings.ToLower(m.Dscr), "stack"):
		default:
			out = append(out, m)
		}
	}
	return out
}

var (
	vcSwitchRe     = regexp.MustCompile(`(?i)^Switch\s*-?\s*(\d+)\b`)
	vcMemberPortRe = regexp.MustCompile(`(?i)^(?:Te|Gi|Hu|Twe|Eth|Ethernet|TenGigabitEthernet|GigabitEthernet|HundredGigE|TwentyFiveGigE)(\d+)/`)
)

// VCMemberName derives the synthesized member hostname for a module whose
// name places it on a stack member other than the master: "Switch N ..." or
// an interface path with a leading index greater than 1. Returns empty when
// the module belongs to the master or carries no member hint.
func VCMemberName(moduleName, hostname string) string {
	var member string
	if m := vcSwitchRe.FindStringSubmatch(moduleName); m != nil {
		member = m[1]
	} else if m := vcMemberPortRe.FindStringSubmatch(moduleName); m != nil {
		member = m[1]
	}
	if member == "" {
		return ""
	}
	n, err := strconv.Atoi(member)
	if err != nil || n <= 1 {
		return ""
	}
	return hostname + "/" + member
}

// TagVCMembers fills VCMemberName on each module in place of a fresh copy.
func TagVCMembers(mods []Module) []Module {
	out := make([]Module, len(mods))
	for i, m := range mods {
		m.VCMemberName = VCMemberName(m.Name, m.Hostname)
		out[i] = m
	}
	return out
}

// Classify assigns a category: ordered regex patterns over the raw name
// first, then keyword substrings over name+pid+description, else other.
// Category order in the ruleset is the precedence order.
func (r *Rules) Classify(m Module) Category {
	for _, c := range r.categories {
		for _, re := range c.patterns {
			if re.MatchString(m.Name) {
				return c.name
			}
		}
	}
	combined := strings.ToLower(m.Name + " " + m.PID + " " + m.Dscr)
	for _, c := range r.categories {
		for _, kw := range c.keywords {
			if strings.Contains(combined, kw) {
				return c.name
			}
		}
	}
	return CategoryOther
}

// ClassifyAll buckets modules by category, preserving input order inside
// each bucket.
func (r *Rules) ClassifyAll(mods []Module) map[Category][]Module {
	buckets := make(map[Category][]Module, len(r.categories)+1)
	for _, m := range mods {
		cat := r.Classify(m)
		m.Category = cat
		buckets[cat] = append(buckets[cat], m)
	}
	return buckets
}

// normalized is the result of name normalization for one module.
type normalized struct {
	name        string
	groups      map[string]string
	canonPrefix string
}

var (
	sfpPathRe  = regexp.MustCompile(`^(?P<pfx>[A-Za-z]+)(?P<path>\d+(?:/\d+)+)$`)
	digitRunRe = regexp.MustCompile(`\d+`)
	anyDigitRe = regexp.MustCompile(`\d`)
	allAlphaRe = regexp.MustCompile(`^[A-Za-z]+$`)
)

func (r *Rules) applyTransforms(s string) string {
	for _, t := range r.transforms {
		s = t.re.ReplaceAllString(s, t.replace)
	}
	return util.CollapseWhitespace(s)
}

// normalizeName runs the transform rules over a raw module name and extracts
// the category's named capture groups. For SFPs an interface-shaped name
// additionally yields the expanded canonical prefix and path.
func (r *Rules) normalizeName(raw string, cat Category) normalized {
	s := r.applyTransforms(raw)
	out := normalized{name: s, groups: map[string]string{}}

	if c := r.category(cat); c != nil {
		for _, re := range c.patterns {
			if m := re.FindStringSubmatch(s); m != nil {
				for i, name := range re.SubexpNames() {
					if name != "" {
						out.groups[name] = m[i]
					}
				}
				break
			}
		}
	}

	if cat == CategorySFP {
		if m := sfpPathRe.FindStringSubmatch(s); m != nil {
			pfx, path := m[1], m[2]
			if expanded, ok := r.prefixMap[pfx]; ok {
				out.canonPrefix = expanded
			} else {
				out.canonPrefix = pfx
			}
			out.groups["path"] = path
		}
	}
	return out
}

// BayCandidates renders the ordered candidate bay names for a module name:
// category synonym templates with {POS}/{SLOT}/{PATH}/{CANON_PREFIX}
// substitutions, then the canonical interface form for SFPs, then the
// normalized name itself when nothing else produced output. Deduplicated,
// order preserved.
func (r *Rules) BayCandidates(cat Category, rawName string) []string {
	norm := r.normalizeName(rawName, cat)

	pos := norm.groups["pos"]
	if pos != "" && allAlphaRe.MatchString(pos) {
		pos = strings.ToUpper(pos)
	}
	repl := strings.NewReplacer(
		"{POS}", pos,
		"{SLOT}", norm.groups["slot"],
		"{PATH}", norm.groups["path"],
		"{CANON_PREFIX}", norm.canonPrefix,
	)

	var cands []string
	if c := r.category(cat); c != nil {
		for _, tmpl := range c.synonyms {
			rendered := repl.Replace(tmpl)
			if strings.ContainsAny(rendered, "{}") {
				continue
			}
			cands = append(cands, rendered)
		}
	}
	if cat == CategorySFP && norm.canonPrefix != "" && norm.groups["path"] != "" {
		cands = append(cands, norm.canonPrefix+norm.groups["path"])
	}
	if len(cands) == 0 && norm.name != "" {
		cands = append(cands, norm.name)
	}
	return util.DedupeStrings(cands)
}

// NormalizePID canonicalizes a part ID for type lookup: lowercased and
// trimmed, placeholder values dropped, aliases applied.
func (r *Rules) NormalizePID(pid string) string {
	p := strings.ToLower(strings.TrimSpace(pid))
	if p == "" || p == "unspecified" || p == "not" {
		return ""
	}
	if alias, ok := r.pidAliases[p]; ok {
		return strings.ToLower(alias)
	}
	return p
}

// DerivePIDFromDscr recovers a part ID from the free-text description for
// components that report no usable PID. Keys are checked in sorted order so
// the derivation is deterministic.
func (r *Rules) DerivePIDFromDscr(dscr string) string {
	d := strings.ToLower(strings.TrimSpace(dscr))
	if d == "" {
		return ""
	}
	keys := make([]string, 0, len(r.dscrToPID))
	for k := range r.dscrToPID {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.Contains(d, strings.ToLower(k)) {
			return strings.TrimSpace(r.dscrToPID[k])
		}
	}
	return ""
}
