package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/quentel/fitflow"
	"github.com/quentel/fitflow/pkg/adapters/mock"
	"github.com/quentel/fitflow/pkg/domain"
	"github.com/quentel/fitflow/pkg/ports"
)

// offlineOptions wires canned completions and search results so the full
// workflow can run without API keys. The canned profile is built from
// the collected inputs, so the generated schedule still reflects them.
func offlineOptions(inputs runInputs) []fitflow.Option {
	profile := domain.UserProfile{
		Goal:           inputs.goal,
		CurrentFitness: inputs.current,
		TimePerDay:     inputs.timePerDay,
		DaysPerWeek:    inputs.daysPerWeek,
		Equipment:      splitEquipment(inputs.equipment),
	}

	completer := mock.NewCompleter(
		mock.Rule{Match: "Extract the user's fitness profile", Response: mustMarshal(profile)},
		mock.Rule{Match: "Revise the user's fitness profile", Response: mustMarshal(profile)},
		mock.Rule{Match: "key tips", Response: `["Warm up thoroughly before every session","Stop a set two reps before failure","Track your progress week over week"]`},
		mock.Rule{Match: "Assess the feasibility", Response: `{"practice_hours":24,"feasible":true,"rationale":"Offline estimate based on typical progressions for similar goals."}`},
		mock.Rule{Match: "Create a weekly workout schedule", Response: mustMarshal(offlineSchedule(profile))},
		mock.Rule{Match: "Generate a nutrition plan", Response: `{"diet_type":"Balanced, protein forward","daily_calories":2300,"macros":{"protein_grams":150,"carbs_grams":240,"fat_grams":75},"hydration":"Drink around 3 liters of water spread across the day","meal_suggestions":["Oatmeal with whey and berries","Chicken, rice and vegetables","Greek yogurt with nuts"]}`},
	)

	searcher := mock.NewSearcher(
		ports.SearchResult{
			Title:   "Progressive training guide",
			URL:     "https://example.com/progressive-training",
			Content: "progressions and form cues",
		},
	)

	return []fitflow.Option{
		fitflow.WithCompleter(completer),
		fitflow.WithSearcher(searcher),
	}
}

var weekDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func offlineSchedule(profile domain.UserProfile) domain.WeeklySchedule {
	days := profile.DaysPerWeek
	if days < 1 {
		days = domain.DefaultDaysPerWeek
	}
	if days > len(weekDays) {
		days = len(weekDays)
	}

	duration := fmt.Sprintf("%d min", profile.TimePerDay)
	schedule := domain.WeeklySchedule{
		Notes: fmt.Sprintf("Offline template plan toward %q; alternate effort and recovery days.", profile.Goal),
	}
	stride := len(weekDays) / days
	for i := 0; i < days; i++ {
		schedule.Workouts = append(schedule.Workouts, domain.DailyWorkout{
			Day:      weekDays[i*stride],
			Duration: duration,
			Exercises: []string{
				"Warm up 5 min",
				fmt.Sprintf("Primary work toward %s, 4 sets", profile.Goal),
				"Accessory strength 3 sets",
				"Cool down and mobility",
			},
		})
	}
	return schedule
}

func splitEquipment(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "none") {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func mustMarshal(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(data)
}
