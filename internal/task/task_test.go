package task

import "testing"

func TestDependencyKind_SchedulingRelevant(t *testing.T) {
	relevant := []DependencyKind{KindFinishToStart, KindStartToStart}
	for _, k := range relevant {
		if !k.SchedulingRelevant() {
			t.Errorf("expected %s to be scheduling relevant", k)
		}
	}

	informational := []DependencyKind{KindRelatesTo, KindDuplicates, KindParentOf}
	for _, k := range informational {
		if k.SchedulingRelevant() {
			t.Errorf("expected %s to be informational", k)
		}
	}
}

func TestIsValidKind(t *testing.T) {
	if !IsValidKind("finish_to_start") {
		t.Error("expected finish_to_start to be valid")
	}
	if IsValidKind("blocks") {
		t.Error("expected unknown kind to be invalid")
	}
	if IsValidKind("") {
		t.Error("expected empty kind to be invalid")
	}
}

func TestIsValidStatus(t *testing.T) {
	if !IsValidStatus("in_progress") {
		t.Error("expected in_progress to be valid")
	}
	if IsValidStatus("paused") {
		t.Error("expected unknown status to be invalid")
	}
}
