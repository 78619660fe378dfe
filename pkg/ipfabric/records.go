package ipfabric

import "context"

// Device is one row of the device inventory table.
type Device struct {
	Hostname string  `json:"hostname"`
	SN       string  `json:"sn"`
	SiteName string  `json:"siteName"`
	SNHw     string  `json:"snHw"`
	LoginIP4 string  `json:"loginIpv4"`
	LoginIP6 string  `json:"loginIpv6"`
	Uptime   float64 `json:"uptime"`
	Vendor   string  `json:"vendor"`
	Family   string  `json:"family"`
	Platform string  `json:"platform"`
	Model    string  `json:"model"`
	Version  string  `json:"version"`
	DevType  string  `json:"devType"`
}

// FetchDevices returns the full device inventory.
func (c *Client) FetchDevices(ctx context.Context) ([]Device, error) {
	return fetchInto[Device](ctx, c, Query{
		Table: "tables/inventory/devices",
		Columns: []string{"hostname", "sn", "siteName", "snHw", "loginIpv4", "loginIpv6",
			"uptime", "vendor", "family", "platform", "model", "version", "devType"},
	})
}

// PartNumber is one row of the part number table: every inventoried
// hardware component (chassis, modules, transceivers, fans, power supplies).
type PartNumber struct {
	Hostname string `json:"hostname"`
	Name     string `json:"name"`
	Dscr     string `json:"dscr"`
	PID      string `json:"pid"`
	SN       string `json:"sn"`
	DeviceSN string `json:"deviceSn"`
	Model    string `json:"model"`
	Vendor   string `json:"vendor"`
}

// FetchPartNumbers returns the full component inventory.
func (c *Client) FetchPartNumbers(ctx context.Context) ([]PartNumber, error) {
	return fetchInto[PartNumber](ctx, c, Query{
		Table:   "tables/inventory/pn",
		Columns: []string{"hostname", "name", "dscr", "pid", "sn", "deviceSn", "model", "vendor"},
	})
}

// StackMember is one member of a switch stack.
type StackMember struct {
	Master   string `json:"master"`
	SN       string `json:"sn"`
	SiteName string `json:"siteName"`
	Member   int    `json:"member"`
	PN       string `json:"pn"`
	MemberSN string `json:"memberSn"`
	Role     string `json:"role"`
	State    string `json:"state"`
}

// FetchStackMembers returns every stack member across all stacks.
func (c *Client) FetchStackMembers(ctx context.Context) ([]StackMember, error) {
	return fetchInto[StackMember](ctx, c, Query{
		Table:   "tables/platforms/stack/members",
		Columns: []string{"master", "sn", "siteName", "member", "pn", "memberSn", "role", "state"},
	})
}

// VSSChassis is one chassis of a VSS pair.
type VSSChassis struct {
	Hostname  string `json:"hostname"`
	ChassisSN string `json:"chassisSn"`
	SiteName  string `json:"siteName"`
	ChassisID int    `json:"chassisId"`
	SN        string `json:"sn"`
	State     string `json:"state"`
}

// FetchVSSChassis returns every VSS chassis row.
func (c *Client) FetchVSSChassis(ctx context.Context) ([]VSSChassis, error) {
	return fetchInto[VSSChassis](ctx, c, Query{
		Table:   "tables/platforms/vss/chassis",
		Columns: []string{"hostname", "chassisSn", "siteName", "chassisId", "sn", "state"},
	})
}

// Stack is one switch stack, identified by its master hostname.
type Stack struct {
	Master string `json:"master"`
}

// FetchStacks returns every stack.
func (c *Client) FetchStacks(ctx context.Context) ([]Stack, error) {
	return fetchInto[Stack](ctx, c, Query{
		Table:   "tables/platforms/stack",
		Columns: []string{"master"},
	})
}

// VSSOverview is one VSS system.
type VSSOverview struct {
	Hostname string `json:"hostname"`
}

// FetchVSSOverview returns every VSS system.
func (c *Client) FetchVSSOverview(ctx context.Context) ([]VSSOverview, error) {
	return fetchInto[VSSOverview](ctx, c, Query{
		Table:   "tables/platforms/vss/overview",
		Columns: []string{"hostname"},
	})
}

// Connection is one edge of the connectivity matrix.
type Connection struct {
	SiteName    string `json:"siteName"`
	LocalHost   string `json:"localHost"`
	LocalInt    string `json:"localInt"`
	LocalMedia  string `json:"localMedia"`
	RemoteHost  string `json:"remoteHost"`
	RemoteInt   string `json:"remoteInt"`
	RemoteMedia string `json:"remoteMedia"`
}

// FetchConnections returns the device-to-device connectivity matrix.
func (c *Client) FetchConnections(ctx context.Context) ([]Connection, error) {
	return fetchInto[Connection](ctx, c, Query{
		Table:   "tables/interfaces/connectivity-matrix",
		Columns: []string{"siteName", "localHost", "localInt", "localMedia", "remoteHost", "remoteInt", "remoteMedia"},
	})
}

// SSID is one wireless network summary row.
type SSID struct {
	SSID        string `json:"ssid"`
	RadioCount  int    `json:"radioCount"`
	APCount     int    `json:"apCount"`
	ClientCount int    `json:"clientCount"`
	WLCCount    int    `json:"wlcCount"`
}

// FetchSSIDs returns the wireless SSID summary.
func (c *Client) FetchSSIDs(ctx context.Context) ([]SSID, error) {
	return fetchInto[SSID](ctx, c, Query{
		Table:   "tables/wireless/ssid-summary",
		Columns: []string{"ssid", "radioCount", "apCount", "clientCount", "wlcCount"},
	})
}

// DeviceContext is one virtual device context hosted on a physical device.
type DeviceContext struct {
	Hostname    string `json:"hostname"`
	ContextName string `json:"contextName"`
	ContextID   int    `json:"contextId"`
}

// FetchDeviceContexts returns every virtual device context.
func (c *Client) FetchDeviceContexts(ctx context.Context) ([]DeviceContext, error) {
	return fetchInto[DeviceContext](ctx, c, Query{
		Table:   "tables/platforms/devices",
		Columns: []string{"hostname", "contextName", "contextId"},
	})
}

// Site is one discovered site.
type Site struct {
	SiteName string `json:"siteName"`
}

// FetchSites returns every site.
func (c *Client) FetchSites(ctx context.Context) ([]Site, error) {
	return fetchInto[Site](ctx, c, Query{
		Table:   "tables/inventory/sites",
		Columns: []string{"siteName"},
	})
}

// ModelSummary is one distinct vendor/family/platform/model combination.
type ModelSummary struct {
	Vendor   string `json:"vendor"`
	Family   string `json:"family"`
	Platform string `json:"platform"`
	Model    string `json:"model"`
}

// FetchModelSummary returns the distinct device model combinations.
func (c *Client) FetchModelSummary(ctx context.Context) ([]ModelSummary, error) {
	return fetchInto[ModelSummary](ctx, c, Query{
		Table:   "tables/inventory/summary/models",
		Columns: []string{"vendor", "family", "platform", "model"},
	})
}

// FamilySummary is one distinct vendor/family combination.
type FamilySummary struct {
	Vendor string `json:"vendor"`
	Family string `json:"family"`
}

// FetchFamilySummary returns the distinct vendor/family combinations.
func (c *Client) FetchFamilySummary(ctx context.Context) ([]FamilySummary, error) {
	return fetchInto[FamilySummary](ctx, c, Query{
		Table:   "tables/inventory/summary/families",
		Columns: []string{"vendor", "family"},
	})
}
