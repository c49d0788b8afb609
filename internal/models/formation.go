package models

// Formation is a course cohort with a level and lifecycle status.
type Formation struct {
	ID            int64  `db:"id" json:"id"`
	FormationName string `db:"formation_name" json:"formation_name"`
	FromDate      string `db:"from_date" json:"from_date"`
	EndDate       string `db:"end_date" json:"end_date"`
	Level         string `db:"level" json:"level"`
	Status        string `db:"status" json:"status"`
}

// FormationRequest carries the payload for creating or updating a formation.
type FormationRequest struct {
	FormationName string `json:"formation_name" validate:"required"`
	FromDate      string `json:"from_date" validate:"required"`
	EndDate       string `json:"end_date" validate:"required"`
	Level         string `json:"level" validate:"required"`
	Status        string `json:"status" validate:"required"`
}

// Allowed enum values for formation fields. Handlers reject anything else
// before the row ever reaches the store.
var (
	FormationLevels   = []string{"CP", "CE1", "CE2", "CM1", "CM2"}
	FormationStatuses = []string{"Active", "Inactive", "Pending", "Completed"}
)

// ValidFormationLevel reports whether level is part of the allowed set.
func ValidFormationLevel(level string) bool {
	return contains(FormationLevels, level)
}

// ValidFormationStatus reports whether status is part of the allowed set.
func ValidFormationStatus(status string) bool {
	return contains(FormationStatuses, status)
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
