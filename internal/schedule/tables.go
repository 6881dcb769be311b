package schedule

// Splits holds the built-in weekly schedules.
var Splits = map[Split]Config{
	SplitUpperLower: {
		Pattern: [7]string{"Upper", "Lower", "Upper", "Lower", "Upper", "Lower", "Rest"},
		Focuses: map[string]string{
			"Upper": "Chest, Back, Shoulders, Arms",
			"Lower": "Legs, Glutes, Calves",
			"Rest":  "Recovery Day",
		},
	},
	SplitPushPullLegs: {
		Pattern: [7]string{"Push", "Pull", "Legs", "Push", "Pull", "Legs", "Rest"},
		Focuses: map[string]string{
			"Push": "Chest, Shoulders, Triceps",
			"Pull": "Back, Biceps",
			"Legs": "Quads, Hamstrings, Glutes, Calves",
			"Rest": "Recovery Day",
		},
	},
	SplitFullBody: {
		Pattern: [7]string{"Full Body", "Rest", "Full Body", "Rest", "Full Body", "Rest", "Rest"},
		Focuses: map[string]string{
			"Full Body": "Total Body Workout",
			"Rest":      "Recovery Day",
		},
	},
	SplitBro: {
		Pattern: [7]string{"Chest", "Back", "Legs", "Shoulders", "Arms", "Rest", "Rest"},
		Focuses: map[string]string{
			"Chest":     "Chest and Triceps",
			"Back":      "Back and Biceps",
			"Legs":      "Legs and Glutes",
			"Shoulders": "Shoulders and Traps",
			"Arms":      "Biceps and Triceps",
			"Rest":      "Recovery Day",
		},
	},
}

// Overrides holds the one-day substitutions selectable instead of Auto.
var Overrides = map[string]ResolvedDay{
	"upper":     {WorkoutType: "Upper", WorkoutFocus: "Chest, Back, Shoulders, Arms"},
	"lower":     {WorkoutType: "Lower", WorkoutFocus: "Legs, Glutes, Calves"},
	"push":      {WorkoutType: "Push", WorkoutFocus: "Chest, Shoulders, Triceps"},
	"pull":      {WorkoutType: "Pull", WorkoutFocus: "Back, Biceps"},
	"legs":      {WorkoutType: "Legs", WorkoutFocus: "Quads, Hamstrings, Glutes, Calves"},
	"chest":     {WorkoutType: "Chest", WorkoutFocus: "Chest and Triceps"},
	"back":      {WorkoutType: "Back", WorkoutFocus: "Back and Biceps"},
	"shoulders": {WorkoutType: "Shoulders", WorkoutFocus: "Shoulders and Traps"},
	"arms":      {WorkoutType: "Arms", WorkoutFocus: "Biceps and Triceps"},
	"full-body": {WorkoutType: "Full Body", WorkoutFocus: "Total Body Workout"},
}
