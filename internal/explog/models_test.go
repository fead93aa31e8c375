package explog

import "testing"

var logs = []ExplorationLog{
	{ID: "3", StageID: "1", Nickname: "Rae", Content: "found ice"},
	{ID: "2", StageID: "2", Nickname: "Kai", Content: "red dust everywhere"},
	{ID: "1", StageID: "1", Nickname: "Rae", Content: "found water"},
}

func TestForStagePreservesOrder(t *testing.T) {
	got := ForStage(logs, "1")
	if len(got) != 2 {
		t.Fatalf("got %d logs for stage 1, want 2", len(got))
	}
	if got[0].ID != "3" || got[1].ID != "1" {
		t.Errorf("order = [%s, %s], want newest first [3, 1]", got[0].ID, got[1].ID)
	}
}

func TestForStageOrphansStillResolve(t *testing.T) {
	// Logs referencing a deleted stage are retained, not filtered out.
	got := ForStage(logs, "2")
	if len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("got %+v, want the orphaned log", got)
	}
}

func TestForAuthor(t *testing.T) {
	got := ForAuthor(logs, "Rae")
	if len(got) != 2 {
		t.Fatalf("got %d logs for Rae, want 2", len(got))
	}
	for _, l := range got {
		if l.Nickname != "Rae" {
			t.Errorf("ForAuthor returned foreign log %+v", l)
		}
	}

	if got := ForAuthor(logs, "nobody"); len(got) != 0 {
		t.Fatalf("got %d logs for unknown author, want 0", len(got))
	}
}
