package explog

// ExplorationLog is a free-text note a user attaches to a stage. StageID is
// not enforced as a foreign key; logs referencing a deleted stage are
// retained and simply unresolvable by name lookup. Nickname is the
// denormalized author name, not a stable user id.
type ExplorationLog struct {
	ID        string `json:"id"`
	StageID   string `json:"stageId"`
	Nickname  string `json:"nickname"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

// ForStage returns the logs attached to a stage, preserving order
// (logs are prepended on creation, so this is newest first).
func ForStage(logs []ExplorationLog, stageID string) []ExplorationLog {
	matched := make([]ExplorationLog, 0)
	for _, l := range logs {
		if l.StageID == stageID {
			matched = append(matched, l)
		}
	}
	return matched
}

// ForAuthor returns the logs written under a nickname. Ownership is
// nickname string equality; two users sharing a nickname are
// indistinguishable.
func ForAuthor(logs []ExplorationLog, nickname string) []ExplorationLog {
	matched := make([]ExplorationLog, 0)
	for _, l := range logs {
		if l.Nickname == nickname {
			matched = append(matched, l)
		}
	}
	return matched
}
