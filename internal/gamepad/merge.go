package gamepad

import "sort"

// Merge combines a device list with a slot-assignment list into a new
// ordered device list.
//
// Assignments are applied in ascending slot order: each referenced device is
// emitted with its hidden flag set from the assignment (hidden = !enabled).
// Assignments referencing unknown device ids are dropped silently; they are
// stale entries pointing at disconnected or removed hardware. Devices not
// referenced by any assignment are appended after the assigned ones, in
// their original relative order, unmodified.
//
// The sort is stable: assignments with equal slot values keep their
// relative order from the input list. The wire format does not guarantee
// unique, contiguous, or sorted slots.
//
// Merge is pure and deterministic; neither input is mutated. The result
// contains exactly the devices of the input list, each exactly once.
func Merge(devices []PhysicalDevice, assignments []SlotAssignment) []PhysicalDevice {
	byID := make(map[string]PhysicalDevice, len(devices))
	for _, d := range devices {
		byID[d.ID] = d
	}

	sorted := make([]SlotAssignment, len(assignments))
	copy(sorted, assignments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Slot < sorted[j].Slot
	})

	result := make([]PhysicalDevice, 0, len(devices))
	used := make(map[string]bool, len(sorted))

	for _, a := range sorted {
		d, ok := byID[a.DeviceID]
		if !ok || used[a.DeviceID] {
			continue
		}
		d = d.Clone()
		d.Hidden = !a.Enabled
		result = append(result, d)
		used[a.DeviceID] = true
	}

	// Unreferenced devices keep their original relative order.
	for _, d := range devices {
		if !used[d.ID] {
			result = append(result, d.Clone())
		}
	}

	return result
}

// AssignmentsOf derives the transport assignment list from a device list:
// slot equals array position, enabled is the inverse of hidden.
//
// Callers must derive assignments from current order immediately before
// every transmission rather than caching a previous list.
func AssignmentsOf(devices []PhysicalDevice) []SlotAssignment {
	assignments := make([]SlotAssignment, len(devices))
	for i, d := range devices {
		assignments[i] = SlotAssignment{
			DeviceID: d.ID,
			Slot:     i,
			Enabled:  !d.Hidden,
		}
	}
	return assignments
}
