package model

import "testing"

func samplePlan() WorkoutPlan {
	return WorkoutPlan{
		"Week 1": {
			"Day 1": WorkoutDay{
				Label: "Push",
				Exercises: []Exercise{
					{ID: "ex-1", Name: "Bench Press"},
					{ID: "ex-2", Name: "Dips", Completed: true},
				},
			},
		},
	}
}

func TestPlanCloneIsDeep(t *testing.T) {
	plan := samplePlan()
	clone := plan.Clone()

	clone.FindExercise("ex-1").Completed = true
	clone["Week 1"]["Day 1"] = WorkoutDay{Label: "changed"}

	if plan.FindExercise("ex-1").Completed {
		t.Error("mutation through the clone reached the original")
	}
	if plan["Week 1"]["Day 1"].Label != "Push" {
		t.Error("day replacement through the clone reached the original")
	}
}

func TestFindExercise(t *testing.T) {
	plan := samplePlan()
	if ex := plan.FindExercise("ex-2"); ex == nil || ex.Name != "Dips" {
		t.Errorf("got %+v", ex)
	}
	if ex := plan.FindExercise("nope"); ex != nil {
		t.Errorf("got %+v for unknown id", ex)
	}

	// The returned pointer aliases the plan, so writes stick.
	plan.FindExercise("ex-1").Completed = true
	if !plan.FindExercise("ex-1").Completed {
		t.Error("write through FindExercise pointer lost")
	}
}

func TestAnswerSetClone(t *testing.T) {
	answers := AnswerSet{"goal": "fat loss"}
	clone := answers.Clone()
	clone["goal"] = "muscle gain"
	if answers["goal"] != "fat loss" {
		t.Error("clone shares storage with the original")
	}
}
