package volume

// Reserved catalog node IDs. User CNIDs begin at 16.
const (
	CNIDParentOfRoot  = 1
	CNIDRootFolder    = 2
	CNIDExtents       = 3
	CNIDCatalog       = 4
	CNIDBadBlocks     = 5
	CNIDAllocation    = 6
	CNIDStartup       = 7
	CNIDAttributes    = 8
	CNIDRepair        = 9
	CNIDBogusExtent   = 10
	CNIDFirstUser     = 16
)
