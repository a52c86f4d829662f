package systems

// SystemInfo describes one per-tick phase for UI display and perf tracking.
type SystemInfo struct {
	ID          string // Internal identifier (used for perf tracking)
	Name        string // Display name
	Description string // What this phase does
	Category    string // Grouping (e.g., "core", "coverage")
}

// SystemRegistry holds metadata about all phases.
// This centralizes naming so the HUD and perf tracker stay in sync.
type SystemRegistry struct {
	systems []SystemInfo
	byID    map[string]SystemInfo
}

// NewSystemRegistry creates a registry with all known phases.
func NewSystemRegistry() *SystemRegistry {
	reg := &SystemRegistry{
		byID: make(map[string]SystemInfo),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds all known phases to the registry.
// Update this when adding new phases.
func (r *SystemRegistry) registerDefaults() {
	r.Register(SystemInfo{ID: "drive", Name: "Drive", Description: "Reads handles and computes move/turn", Category: "core"})
	r.Register(SystemInfo{ID: "transform", Name: "Transform", Description: "Moves the field under the mower", Category: "core"})

	r.Register(SystemInfo{ID: "cut", Name: "Cut", Description: "Appends the tool footprint to the pending list", Category: "coverage"})
	r.Register(SystemInfo{ID: "local_coverage", Name: "Local Coverage", Description: "Samples coverage under the tool", Category: "coverage"})
	r.Register(SystemInfo{ID: "compact", Name: "Compact", Description: "Flattens pending cuts into the raster", Category: "coverage"})
	r.Register(SystemInfo{ID: "total_request", Name: "Total Request", Description: "Schedules whole-field coverage", Category: "coverage"})

	r.Register(SystemInfo{ID: "camera", Name: "Camera", Description: "Eases the view toward its target", Category: "view"})
	r.Register(SystemInfo{ID: "telemetry", Name: "Telemetry", Description: "Records window statistics", Category: "internal"})
}

// Register adds a phase to the registry.
func (r *SystemRegistry) Register(info SystemInfo) {
	r.systems = append(r.systems, info)
	r.byID[info.ID] = info
}

// Get returns phase info by ID.
func (r *SystemRegistry) Get(id string) (SystemInfo, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// All returns all registered phases.
func (r *SystemRegistry) All() []SystemInfo {
	return r.systems
}

// IDs returns all phase IDs in registration order.
func (r *SystemRegistry) IDs() []string {
	ids := make([]string, len(r.systems))
	for i, info := range r.systems {
		ids[i] = info.ID
	}
	return ids
}
