package resolve

import (
	"fmt"

	"github.com/netgrid-labs/invsync/pkg/match"
	"github.com/netgrid-labs/invsync/pkg/typelib"
	"github.com/netgrid-labs/invsync/pkg/util"
)

// ModelRecord is one distinct vendor/family/platform/model combination from
// the discovery inventory.
type ModelRecord struct {
	Vendor   string
	Family   string
	Platform string
	Model    string
}

// MemberPart is one stack member's part number with its master hostname.
type MemberPart struct {
	Master string
	PN     string
}

// DeviceContext supplies the vendor/family/platform of a master device for
// member model synthesis.
type DeviceContext struct {
	Vendor   string
	Family   string
	Platform string
}

// SynthesizeMemberModels appends model records for stack member part numbers
// absent from the primary model summary, copying each master device's
// vendor, family, and platform. The discovery inventory does not list stack
// members as devices, so their models never appear in the summary feed.
func SynthesizeMemberModels(models []ModelRecord, members []MemberPart, devices map[string]DeviceContext) []ModelRecord {
	existing := make(map[string]bool, len(models))
	for _, m := range models {
		existing[m.Model] = true
	}

	out := models
	for _, mem := range members {
		if mem.PN == "" || existing[mem.PN] {
			continue
		}
		existing[mem.PN] = true
		ctx, ok := devices[mem.Master]
		if !ok {
			ctx = DeviceContext{Vendor: "Unknown", Family: "Unknown", Platform: "Unknown"}
		}
		out = append(out, ModelRecord{
			Vendor:   ctx.Vendor,
			Family:   ctx.Family,
			Platform: ctx.Platform,
			Model:    mem.PN,
		})
	}
	return out
}

// ResolvedDeviceType is the outcome of resolving one model record against
// the template library.
type ResolvedDeviceType struct {
	// Manufacturer is the matched library directory name, case preserved.
	Manufacturer string
	VendorMatch  match.Result
	ModelMatch   match.Result
	// TemplatePath is the matched definition file, set only on success.
	TemplatePath string
}

// DeviceTypeResolver resolves model records against the template library.
type DeviceTypeResolver struct {
	Lib               *typelib.Index
	VendorSensitivity float64
	ModelSensitivity  float64
	ImageSensitivity  float64
}

// ResolveManufacturer fuzzy-matches a discovery vendor name against the
// library's manufacturer directories.
func (r *DeviceTypeResolver) ResolveManufacturer(vendor string) match.Result {
	return match.BestMatch(vendor, r.Lib.Manufacturers, r.VendorSensitivity)
}

// Resolve maps one model record to a definition file: manufacturer first,
// then the model against that manufacturer's stems, retrying the vendor,
// family, and platform compositions in order when the bare model fails.
// An unmatched vendor or model is reported in the result, not as an error;
// callers skip and count these per item.
func (r *DeviceTypeResolver) Resolve(rec ModelRecord) ResolvedDeviceType {
	out := ResolvedDeviceType{VendorMatch: r.ResolveManufacturer(rec.Vendor)}
	if !out.VendorMatch.Matched {
		return out
	}
	out.Manufacturer = out.VendorMatch.Candidate

	stems := r.Lib.DeviceTypes(out.Manufacturer)
	out.ModelMatch = match.BestMatchFallback(rec.Model, []match.Fallback{
		{Query: rec.Vendor + "-" + rec.Model, Strategy: match.StrategyVendor},
		{Query: rec.Family + "-" + rec.Model, Strategy: match.StrategyFamily},
		{Query: rec.Platform + "-" + rec.Model, Strategy: match.StrategyPlatform},
	}, stems.Stems, r.ModelSensitivity)

	if out.ModelMatch.Matched {
		out.TemplatePath = stems.Paths[out.ModelMatch.Candidate]
	}
	return out
}

// LoadTemplate parses the matched definition, injects the registry
// manufacturer ID, and strips the embedded image fields. Images are applied
// separately and best-effort.
func (r *DeviceTypeResolver) LoadTemplate(res ResolvedDeviceType, manufacturerID int) (*typelib.Template, error) {
	if res.TemplatePath == "" {
		return nil, fmt.Errorf("%w: no template for resolution %+v", util.ErrNoMatch, res.ModelMatch)
	}
	tpl, err := typelib.LoadTemplate(res.TemplatePath)
	if err != nil {
		return nil, err
	}
	tpl.SetManufacturerID(manufacturerID)
	tpl.StripImages()
	return tpl, nil
}

// ImageMatch is one matched elevation image file.
type ImageMatch struct {
	Side string
	Path string
	match.Result
}

// MatchImages finds front and rear elevation images for a created device
// type slug. A side with no image above the cutoff is simply absent from
// the result; image failures never block device type creation.
func (r *DeviceTypeResolver) MatchImages(slug, manufacturer string) []ImageMatch {
	images := r.Lib.Images(manufacturer)
	if images.Empty() {
		return nil
	}

	var out []ImageMatch
	for _, side := range []string{"front", "rear"} {
		res := match.BestMatch(slug+"."+side, images.Stems, r.ImageSensitivity)
		if res.Matched {
			out = append(out, ImageMatch{
				Side:   side,
				Path:   images.Paths[res.Candidate],
				Result: res,
			})
		}
	}
	return out
}

// ResolveModuleType fuzzy-matches a module part ID against a manufacturer's
// module type definitions.
func (r *DeviceTypeResolver) ResolveModuleType(manufacturer, moduleName string, sensitivity float64) (string, match.Result) {
	stems := r.Lib.ModuleTypes(manufacturer)
	res := match.BestMatch(moduleName, stems.Stems, sensitivity)
	if !res.Matched {
		return "", res
	}
	return stems.Paths[res.Candidate], res
}
