package memory

// Region is a span of addresses.
type Region struct {
	Start  uint16
	Length uint16
}

// Contains reports whether addr lies within the region.
func (r Region) Contains(addr uint16) bool {
	return int(addr) >= int(r.Start) && int(addr) < r.End()
}

// End returns the first address past the region.
func (r Region) End() int {
	return int(r.Start) + int(r.Length)
}

// Protected wraps a Memory and refuses writes into read-only regions.
type Protected struct {
	Memory
	ReadOnly []Region
}

var _ Memory = (*Protected)(nil)

// Protect marks a region read-only.
func (pm *Protected) Protect(region Region) {
	if region.Length == 0 {
		return
	}
	pm.ReadOnly = append(pm.ReadOnly, region)
}

func (pm *Protected) Write(addr uint16, value byte) (ok bool) {
	for _, region := range pm.ReadOnly {
		if region.Contains(addr) {
			return false
		}
	}

	return pm.Memory.Write(addr, value)
}
