package domain

// EntryFilter contains filtering/pagination parameters for entry searches.
// Reading is matched on its normalized form; Writing is a prefix match.
type EntryFilter struct {
	Reading   *string
	Writing   *string
	JLPTLevel *JLPTLevel
	IsCommon  *bool
	Limit     int
	Offset    int
}
