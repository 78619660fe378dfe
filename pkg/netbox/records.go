package netbox

import (
	"context"
	"net/url"
	"strconv"
)

// Ref is a nested object reference as returned by list endpoints.
type Ref struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// TypeRef is a nested device or module type reference; types carry a model
// instead of a name.
type TypeRef struct {
	ID    int    `json:"id"`
	Model string `json:"model"`
	Slug  string `json:"slug"`
}

// Manufacturer is one hardware manufacturer.
type Manufacturer struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Manufacturers lists every manufacturer.
func (c *Client) Manufacturers(ctx context.Context) ([]Manufacturer, error) {
	return getAllInto[Manufacturer](ctx, c, "dcim/manufacturers/", nil)
}

// DeviceType is one device type definition.
type DeviceType struct {
	ID           int    `json:"id"`
	Model        string `json:"model"`
	Slug         string `json:"slug"`
	PartNumber   string `json:"part_number"`
	Manufacturer Ref    `json:"manufacturer"`
}

// DeviceTypes lists every device type.
func (c *Client) DeviceTypes(ctx context.Context) ([]DeviceType, error) {
	return getAllInto[DeviceType](ctx, c, "dcim/device-types/", nil)
}

// DeviceRole is one device role.
type DeviceRole struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// DeviceRoles lists every device role.
func (c *Client) DeviceRoles(ctx context.Context) ([]DeviceRole, error) {
	return getAllInto[DeviceRole](ctx, c, "dcim/device-roles/", nil)
}

// Site is one site.
type Site struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Sites lists every site.
func (c *Client) Sites(ctx context.Context) ([]Site, error) {
	return getAllInto[Site](ctx, c, "dcim/sites/", nil)
}

// Platform is one platform (network OS).
type Platform struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Manufacturer *Ref   `json:"manufacturer"`
}

// Platforms lists every platform.
func (c *Client) Platforms(ctx context.Context) ([]Platform, error) {
	return getAllInto[Platform](ctx, c, "dcim/platforms/", nil)
}

// VirtualChassis is one virtual chassis.
type VirtualChassis struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Master      *Ref   `json:"master"`
	Description string `json:"description"`
}

// VirtualChassisList lists every virtual chassis.
func (c *Client) VirtualChassisList(ctx context.Context) ([]VirtualChassis, error) {
	return getAllInto[VirtualChassis](ctx, c, "dcim/virtual-chassis/", nil)
}

// Device is one device.
type Device struct {
	ID             int     `json:"id"`
	Name           string  `json:"name"`
	Serial         string  `json:"serial"`
	DeviceType     TypeRef `json:"device_type"`
	Role           Ref     `json:"role"`
	Site           Ref     `json:"site"`
	Platform       *Ref    `json:"platform"`
	VirtualChassis *Ref    `json:"virtual_chassis"`
	VCPosition     *int    `json:"vc_position"`
}

// Devices lists every device.
func (c *Client) Devices(ctx context.Context) ([]Device, error) {
	return getAllInto[Device](ctx, c, "dcim/devices/", nil)
}

// Interface is one device interface.
type Interface struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Device Ref    `json:"device"`
	Type   struct {
		Value string `json:"value"`
	} `json:"type"`
	Cable *struct {
		ID int `json:"id"`
	} `json:"cable"`
}

// Interfaces lists interfaces, optionally narrowed to one device.
func (c *Client) Interfaces(ctx context.Context, deviceID int) ([]Interface, error) {
	params := url.Values{}
	if deviceID > 0 {
		params.Set("device_id", strconv.Itoa(deviceID))
	}
	return getAllInto[Interface](ctx, c, "dcim/interfaces/", params)
}

// ModuleBay is one module bay on a device.
type ModuleBay struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Device   Ref    `json:"device"`
	Module   *struct {
		ID int `json:"id"`
	} `json:"installed_module"`
}

// ModuleBays lists module bays, optionally narrowed to one device.
func (c *Client) ModuleBays(ctx context.Context, deviceID int) ([]ModuleBay, error) {
	params := url.Values{}
	if deviceID > 0 {
		params.Set("device_id", strconv.Itoa(deviceID))
	}
	return getAllInto[ModuleBay](ctx, c, "dcim/module-bays/", params)
}

// ModuleType is one module type definition.
type ModuleType struct {
	ID           int    `json:"id"`
	Model        string `json:"model"`
	PartNumber   string `json:"part_number"`
	Manufacturer Ref    `json:"manufacturer"`
}

// ModuleTypes lists every module type.
func (c *Client) ModuleTypes(ctx context.Context) ([]ModuleType, error) {
	return getAllInto[ModuleType](ctx, c, "dcim/module-types/", nil)
}

// ModuleTypeProfile is one module type profile (fan, power supply, card).
type ModuleTypeProfile struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ModuleTypeProfiles lists every module type profile.
func (c *Client) ModuleTypeProfiles(ctx context.Context) ([]ModuleTypeProfile, error) {
	return getAllInto[ModuleTypeProfile](ctx, c, "dcim/module-type-profiles/", nil)
}

// Module is one installed module.
type Module struct {
	ID         int     `json:"id"`
	Device     Ref     `json:"device"`
	ModuleBay  Ref     `json:"module_bay"`
	ModuleType TypeRef `json:"module_type"`
	Serial     string  `json:"serial"`
}

// Modules lists every installed module.
func (c *Client) Modules(ctx context.Context) ([]Module, error) {
	return getAllInto[Module](ctx, c, "dcim/modules/", nil)
}

// WirelessLAN is one wireless network.
type WirelessLAN struct {
	ID          int    `json:"id"`
	SSID        string `json:"ssid"`
	Description string `json:"description"`
}

// WirelessLANs lists every wireless network.
func (c *Client) WirelessLANs(ctx context.Context) ([]WirelessLAN, error) {
	return getAllInto[WirelessLAN](ctx, c, "wireless/wireless-lans/", nil)
}

// VirtualDeviceContext is one virtual device context.
type VirtualDeviceContext struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Device Ref    `json:"device"`
}

// VirtualDeviceContexts lists every virtual device context.
func (c *Client) VirtualDeviceContexts(ctx context.Context) ([]VirtualDeviceContext, error) {
	return getAllInto[VirtualDeviceContext](ctx, c, "dcim/virtual-device-contexts/", nil)
}

// Cable is one cable.
type Cable struct {
	ID    int    `json:"id"`
	Type  string `json:"type"`
	Label string `json:"label"`
}

// Cables lists every cable.
func (c *Client) Cables(ctx context.Context) ([]Cable, error) {
	return getAllInto[Cable](ctx, c, "dcim/cables/", nil)
}
