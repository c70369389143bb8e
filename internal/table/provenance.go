package table

import "fmt"

// Provenance records how a detection's classification was last changed.
// The numeric values are part of the exported table format and must not be
// renumbered.
type Provenance int

const (
	// ProvenanceRemoved marks a false or inanimate detection destined for
	// removal. It never survives past the consolidation cleanup.
	ProvenanceRemoved Provenance = -1
	// ProvenanceConfirmed marks a classification the expert confirmed as-is.
	ProvenanceConfirmed Provenance = 0
	// ProvenanceSnipSort marks a classification overwritten during the
	// one-time expert snip sort.
	ProvenanceSnipSort Provenance = 1
	// ProvenanceInferred marks an unknown_animal resolved from event context
	// during initial consolidation.
	ProvenanceInferred Provenance = 2
	// ProvenanceFolderSort marks a classification overwritten by an expert's
	// species-folder rearrangement.
	ProvenanceFolderSort Provenance = 3
	// ProvenanceAppended marks a record appended for an image found on disk
	// with no prior table row.
	ProvenanceAppended Provenance = 4
	// ProvenanceInferredRecheck marks an unknown_animal resolved from event
	// context during a later reconciliation pass.
	ProvenanceInferredRecheck Provenance = 5
)

// Valid reports whether p is within the recorded domain.
func (p Provenance) Valid() bool {
	return p >= ProvenanceRemoved && p <= ProvenanceInferredRecheck
}

func (p Provenance) String() string {
	switch p {
	case ProvenanceRemoved:
		return "removed"
	case ProvenanceConfirmed:
		return "confirmed"
	case ProvenanceSnipSort:
		return "snip-sort"
	case ProvenanceInferred:
		return "inferred"
	case ProvenanceFolderSort:
		return "folder-sort"
	case ProvenanceAppended:
		return "appended"
	case ProvenanceInferredRecheck:
		return "inferred-recheck"
	default:
		return fmt.Sprintf("provenance(%d)", int(p))
	}
}
