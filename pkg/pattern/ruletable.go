package pattern

// RuleTable lists a document's rules with their result counts.
type RuleTable struct {
	Label string    `json:"label"`
	Rows  []RuleRow `json:"rows"`
}

// RuleRow is one rule.
type RuleRow struct {
	ID         string `json:"id"`
	Count      int    `json:"count"`
	Help       string `json:"help,omitempty"`
	Suppressed bool   `json:"suppressed,omitempty"`
}

func (r *RuleTable) Type() PatternType { return PatternTypeRuleTable }
